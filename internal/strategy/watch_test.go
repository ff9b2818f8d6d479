package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allenhutchison/github-activity-reporter/internal/model"
)

// fakeExecutor returns canned payloads keyed by the repository owner/name
// variables (or the search string) and records the calls it saw.
type fakeExecutor struct {
	payloads map[string]string
	errs     map[string]error
	calls    []map[string]any
}

func (f *fakeExecutor) Execute(_ context.Context, _ string, variables map[string]any) (json.RawMessage, error) {
	f.calls = append(f.calls, variables)
	key := fakeKey(variables)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	payload, ok := f.payloads[key]
	if !ok {
		return nil, fmt.Errorf("no canned payload for %q", key)
	}
	return json.RawMessage(payload), nil
}

func fakeKey(variables map[string]any) string {
	if q, ok := variables["query"]; ok {
		return q.(string)
	}
	return fmt.Sprintf("%v/%v", variables["owner"], variables["name"])
}

func watchPayload(issues, prs, discussions string) string {
	return fmt.Sprintf(`{"repository": {
		"issues": {"nodes": [%s]},
		"pullRequests": {"nodes": [%s]},
		"discussions": {"nodes": [%s]}
	}}`, issues, prs, discussions)
}

func issueJSON(number int, title, updatedAt string) string {
	return fmt.Sprintf(`{
		"title": %q, "url": "https://github.com/acme/widgets/issues/%d",
		"number": %d, "state": "OPEN",
		"createdAt": "2024-03-01T00:00:00Z", "updatedAt": %q,
		"author": {"login": "bob"},
		"comments": {"nodes": []},
		"repository": {"nameWithOwner": "acme/widgets"}
	}`, title, number, number, updatedAt)
}

func TestFullWatchFiltersByWatermark(t *testing.T) {
	watermark := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	exec := &fakeExecutor{payloads: map[string]string{
		"acme/widgets": watchPayload(
			issueJSON(1, "stale issue", "2024-03-09T00:00:00Z")+","+
				issueJSON(2, "fresh issue", "2024-03-11T00:00:00Z")+","+
				issueJSON(3, "another fresh issue", "2024-03-12T08:30:00Z"),
			"", ""),
	}}

	s := NewFullWatch(exec, []string{"acme/widgets"}, watermark)
	items, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, model.KindIssue, item.Kind)
		assert.True(t, item.UpdatedAt.After(watermark))
	}
}

func TestFullWatchWatermarkIsStrict(t *testing.T) {
	watermark := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	exec := &fakeExecutor{payloads: map[string]string{
		"acme/widgets": watchPayload(
			issueJSON(1, "exactly at watermark", "2024-03-10T12:00:00Z")+","+
				issueJSON(2, "one second later", "2024-03-10T12:00:01Z"),
			"", ""),
	}}

	s := NewFullWatch(exec, []string{"acme/widgets"}, watermark)
	items, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Number)
}

func TestFullWatchSkipsInvalidRepoEntries(t *testing.T) {
	exec := &fakeExecutor{payloads: map[string]string{
		"acme/widgets": watchPayload(issueJSON(1, "ok", "2024-03-11T00:00:00Z"), "", ""),
	}}

	s := NewFullWatch(exec, []string{"not-a-repo", "acme/widgets", ""}, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	items, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, items, 1)
	assert.Len(t, exec.calls, 1, "only the parseable entry should reach the API")
}

func TestFullWatchSkipsFailingRepo(t *testing.T) {
	exec := &fakeExecutor{
		payloads: map[string]string{
			"acme/widgets": watchPayload(issueJSON(1, "ok", "2024-03-11T00:00:00Z"), "", ""),
		},
		errs: map[string]error{
			"acme/broken": fmt.Errorf("GraphQL query returned 1 error(s): NOT_FOUND"),
		},
	}

	s := NewFullWatch(exec, []string{"acme/broken", "acme/widgets"}, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	items, err := s.Run(context.Background())
	require.NoError(t, err, "one failing repo must not abort the run")
	assert.Len(t, items, 1)
}

func TestFullWatchTagsKinds(t *testing.T) {
	pr := `{
		"title": "a pr", "url": "https://github.com/acme/widgets/pull/7",
		"number": 7, "state": "OPEN",
		"createdAt": "2024-03-11T00:00:00Z", "updatedAt": "2024-03-11T01:00:00Z",
		"author": {"login": "bob"},
		"comments": {"nodes": []},
		"reviews": {"nodes": [{"author": {"login": "carol"}, "updatedAt": "2024-03-11T00:30:00Z"}]},
		"repository": {"nameWithOwner": "acme/widgets"}
	}`
	disc := `{
		"title": "a discussion", "url": "https://github.com/acme/widgets/discussions/9",
		"number": 9,
		"createdAt": "2024-03-11T00:00:00Z", "updatedAt": "2024-03-11T02:00:00Z",
		"author": null,
		"comments": {"nodes": []},
		"repository": {"nameWithOwner": "acme/widgets"}
	}`

	exec := &fakeExecutor{payloads: map[string]string{
		"acme/widgets": watchPayload("", pr, disc),
	}}

	s := NewFullWatch(exec, []string{"acme/widgets"}, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	items, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, model.KindPullRequest, items[0].Kind)
	require.NotNil(t, items[0].LastReview)
	assert.Equal(t, "carol", items[0].LastReview.Author)

	assert.Equal(t, model.KindDiscussion, items[1].Kind)
	assert.True(t, items[1].IsGhost(), "null author should map to ghost")
}
