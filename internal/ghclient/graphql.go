package ghclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/allenhutchison/github-activity-reporter/internal/log"
)

const graphqlEndpoint = "https://api.github.com/graphql"

// graphqlHTTPClient is a configured HTTP client with connection pooling and
// a bounded timeout. Every GraphQL round trip is capped at 30 seconds; no
// call blocks indefinitely.
var graphqlHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	},
	Timeout: 30 * time.Second,
}

// graphqlRequest represents a GraphQL request payload.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlResponse represents a generic GraphQL response.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// GraphQLClient executes parameterized queries against the GitHub GraphQL
// endpoint. It performs exactly one request per Execute call: no retry, no
// backoff, no rate-limit throttling. Callers treat an error as "no data for
// this call" and skip the repository involved.
type GraphQLClient struct {
	endpoint string
	// token is intentionally unexported. NEVER add String(), MarshalJSON(),
	// or any method that could expose this value in logs or serialized output.
	token  string
	client *http.Client
}

// NewGraphQLClient creates a client for the GitHub GraphQL API. The token is
// required; commands fail fast before any strategy runs when it is absent.
func NewGraphQLClient(token string) (*GraphQLClient, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token not provided. Set the GITHUB_TOKEN environment variable or run 'auth login'")
	}
	return &GraphQLClient{
		endpoint: graphqlEndpoint,
		token:    token,
		client:   graphqlHTTPClient,
	}, nil
}

// NewGraphQLClientForEndpoint creates a client against a custom endpoint (for testing).
func NewGraphQLClientForEndpoint(endpoint, token string) *GraphQLClient {
	return &GraphQLClient{
		endpoint: endpoint,
		token:    token,
		client:   graphqlHTTPClient,
	}
}

// Execute runs a single GraphQL query with optional variables and returns
// the raw data payload. A network failure, non-2xx status, or a GraphQL
// errors array all surface as an error with a nil payload.
func (c *GraphQLClient) Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to encode GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.github.v4+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GraphQL request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read GraphQL response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GraphQL endpoint returned status %d", resp.StatusCode)
	}

	var parsed graphqlResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode GraphQL response: %w", err)
	}

	if len(parsed.Errors) > 0 {
		for _, e := range parsed.Errors {
			log.Debug("GraphQL error", "type", e.Type, "message", e.Message)
		}
		return nil, fmt.Errorf("GraphQL query returned %d error(s): %s", len(parsed.Errors), parsed.Errors[0].Message)
	}

	return parsed.Data, nil
}

// viewerResponse holds the result of the viewer login query.
type viewerResponse struct {
	Viewer struct {
		Login string `json:"login"`
	} `json:"viewer"`
}

// ViewerLogin returns the login of the authenticated user.
func (c *GraphQLClient) ViewerLogin(ctx context.Context) (string, error) {
	data, err := c.Execute(ctx, ViewerQuery(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch viewer login: %w", err)
	}
	var resp viewerResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to parse viewer response: %w", err)
	}
	if resp.Viewer.Login == "" {
		return "", fmt.Errorf("viewer login missing from response")
	}
	return resp.Viewer.Login, nil
}
