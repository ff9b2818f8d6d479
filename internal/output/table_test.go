package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allenhutchison/github-activity-reporter/internal/format"
	"github.com/allenhutchison/github-activity-reporter/internal/model"
)

func renderToString(t *testing.T, items []model.Item) string {
	t.Helper()
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	require.NoError(t, r.Render(items))
	return format.StripAnsi(buf.String())
}

func TestRenderEmpty(t *testing.T) {
	out := renderToString(t, nil)
	assert.Contains(t, out, "No new activity found.")
}

func TestRenderGroupsByRepository(t *testing.T) {
	at := time.Now().Add(-2 * time.Hour)
	items := []model.Item{
		{URL: "u1", Kind: model.KindIssue, Number: 1, Title: "first", Repository: "acme/widgets", Author: "bob", UpdatedAt: at},
		{URL: "u2", Kind: model.KindPullRequest, Number: 2, Title: "second", Repository: "acme/widgets", Author: "carol", UpdatedAt: at},
		{URL: "u3", Kind: model.KindIssue, Number: 3, Title: "third", Repository: "zeta/zz", Author: "bob", UpdatedAt: at},
	}

	out := renderToString(t, items)

	assert.Equal(t, 1, strings.Count(out, "acme/widgets"), "one group header per repo")
	assert.Equal(t, 1, strings.Count(out, "zeta/zz"))
	assert.Less(t, strings.Index(out, "acme/widgets"), strings.Index(out, "zeta/zz"))
	assert.Contains(t, out, "first (#1)")
	assert.Contains(t, out, "2h", "updated column shows a relative age")
}

func TestRenderGhostAuthorShowsBot(t *testing.T) {
	items := []model.Item{
		{URL: "u1", Kind: model.KindIssue, Number: 1, Title: "orphaned", Repository: "acme/widgets",
			UpdatedAt: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)},
	}

	out := renderToString(t, items)
	assert.Contains(t, out, "Bot")
}

func TestRenderLastCommentContext(t *testing.T) {
	items := []model.Item{
		{URL: "u1", Kind: model.KindIssue, Number: 1, Title: "discussed", Repository: "acme/widgets",
			Author:      "bob",
			LastComment: &model.Interaction{Author: "carol"},
			UpdatedAt:   time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)},
	}

	out := renderToString(t, items)
	assert.Contains(t, out, "Last comment by carol")
}

func TestRenderReviewContextWhenNoComment(t *testing.T) {
	items := []model.Item{
		{URL: "u1", Kind: model.KindPullRequest, Number: 2, Title: "reviewed pr", Repository: "acme/widgets",
			Author:     "bob",
			LastReview: &model.Interaction{Author: ""},
			UpdatedAt:  time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)},
	}

	out := renderToString(t, items)
	assert.Contains(t, out, "Reviewed by Unknown")
}

func TestRenderNoHyperlinksToBuffer(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	require.NoError(t, r.Render([]model.Item{
		{URL: "https://example.com", Kind: model.KindIssue, Number: 1, Title: "t", Repository: "a/b",
			Author: "bob", UpdatedAt: time.Now()},
	}))
	assert.NotContains(t, buf.String(), "\033]8;;", "OSC 8 only goes to terminals")
}
