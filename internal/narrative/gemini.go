// Package narrative turns a structured activity report into a prose summary
// using the Gemini API.
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"google.golang.org/genai"

	"github.com/allenhutchison/github-activity-reporter/internal/model"
)

const promptTemplate = `You are a technical writer who creates engaging narratives about software development work.

Given the following GitHub activity data, create a comprehensive but readable narrative that:
1. Summarizes the key accomplishments and contributions
2. Highlights the most impactful work (merged PRs, critical bug fixes, etc.)
3. Shows collaboration and community engagement
4. Groups related work together thematically
5. Uses a professional but conversational tone
6. Includes specific examples and technical details where relevant
7. Organizes the narrative in a logical flow (major features, then bug fixes, maintenance, and community work)

Format the output as a well-structured narrative with:
- An executive summary paragraph
- Themed sections with descriptive headers
- Specific examples with PR/issue numbers for reference
- A concluding paragraph about ongoing work and future directions

Make the narrative informative for both technical and non-technical readers.

GitHub Activity Data:
%s

Please create a narrative summary that tells the story of what was accomplished during this period, making connections between related work, and highlighting the impact of the contributions.`

// Generator produces narratives for report data.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a generator using the key from GEMINI_API_KEY or
// GOOGLE_API_KEY. A missing key is an error the caller should surface as a
// notice, not a crash.
func NewGenerator(ctx context.Context, model string) (*Generator, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		key = os.Getenv("GOOGLE_API_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("Gemini API key not found. Set GEMINI_API_KEY or GOOGLE_API_KEY")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Generator{client: client, model: model}, nil
}

// Generate renders the report data into the prompt and returns the model's
// narrative text.
func (g *Generator) Generate(ctx context.Context, data model.ReportData) (string, error) {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report data: %w", err)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(fmt.Sprintf(promptTemplate, encoded)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate narrative: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no narrative text generated")
	}
	return text, nil
}
