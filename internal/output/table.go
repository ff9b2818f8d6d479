// Package output renders the inbox view to the terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/allenhutchison/github-activity-reporter/internal/format"
	"github.com/allenhutchison/github-activity-reporter/internal/model"
)

// Column widths
const (
	colType    = 10
	colTitle   = 58
	colAuthor  = 16
	colUpdated = 10
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	repoStyle   = lipgloss.NewStyle().Bold(true)
)

// Renderer writes inbox items as a terminal table grouped by repository.
type Renderer struct {
	w          io.Writer
	hyperlinks bool
}

// NewRenderer creates a renderer for w. OSC 8 hyperlinks are only emitted
// when w is the stdout of an interactive terminal.
func NewRenderer(w io.Writer) *Renderer {
	hyperlinks := false
	if f, ok := w.(*os.File); ok {
		hyperlinks = term.IsTerminal(int(f.Fd()))
	}
	return &Renderer{w: w, hyperlinks: hyperlinks}
}

// hyperlink wraps text in an OSC 8 escape so terminals render it clickable.
func (r *Renderer) hyperlink(text, url string) string {
	if !r.hyperlinks {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// Render writes the items, which the caller has already deduplicated and
// sorted by repository then update time. Repository changes start a new
// group with a header row.
func (r *Renderer) Render(items []model.Item) error {
	if len(items) == 0 {
		fmt.Fprintln(r.w, color.YellowString("No new activity found."))
		return nil
	}

	fmt.Fprintf(r.w, "%s  %s  %s  %s\n",
		headerStyle.Render(format.PadRight("Type", 4, colType)),
		headerStyle.Render(format.PadRight("Title", 5, colTitle)),
		headerStyle.Render(format.PadRight("Author", 6, colAuthor)),
		headerStyle.Render("Updated"))
	fmt.Fprintln(r.w, strings.Repeat("-", colType+colTitle+colAuthor+colUpdated+6))

	currentRepo := ""
	for _, item := range items {
		if item.Repository != currentRepo {
			if currentRepo != "" {
				fmt.Fprintln(r.w)
			}
			currentRepo = item.Repository
			fmt.Fprintln(r.w, repoStyle.Render(currentRepo))
		}
		r.renderItem(item)
	}
	return nil
}

func (r *Renderer) renderItem(item model.Item) {
	title := fmt.Sprintf("%s (#%d)", item.Title, item.Number)

	context := ""
	if item.LastComment != nil {
		context = fmt.Sprintf("Last comment by %s", interactionAuthor(item.LastComment))
	} else if item.LastReview != nil {
		context = fmt.Sprintf("Reviewed by %s", interactionAuthor(item.LastReview))
	}

	titleWidth := colTitle
	if context != "" {
		titleWidth = colTitle - format.DisplayWidth(context) - 1
		if titleWidth < 10 {
			titleWidth = 10
			context = ""
		}
	}

	title, visible := format.TruncateToWidth(title, titleWidth)
	cell := r.hyperlink(title, item.URL)
	if context != "" {
		cell += " " + color.New(color.Faint).Sprint(context)
		visible += 1 + format.DisplayWidth(context)
	}
	cell = format.PadRight(cell, visible, colTitle)

	author := item.Author
	if item.IsGhost() {
		author = "Bot"
	}
	author, authorWidth := format.TruncateToWidth(author, colAuthor)

	fmt.Fprintf(r.w, "%s  %s  %s  %s\n",
		format.PadRight(string(item.Kind), format.DisplayWidth(string(item.Kind)), colType),
		cell,
		format.PadRight(author, authorWidth, colAuthor),
		format.Age(time.Since(item.UpdatedAt)))
}

func interactionAuthor(ia *model.Interaction) string {
	if ia.Author == "" {
		return "Unknown"
	}
	return ia.Author
}
