package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/allenhutchison/github-activity-reporter/internal/ghclient"
	"github.com/allenhutchison/github-activity-reporter/internal/log"
	"github.com/allenhutchison/github-activity-reporter/internal/model"
)

// MentionWatch issues one federated search across the watch_mentions
// repositories for items that mention the user or were authored by them and
// were updated after the watermark. Suited to high-volume repositories
// where the full feed is noise.
type MentionWatch struct {
	client   Executor
	repos    []string
	username string
	since    time.Time
}

// NewMentionWatch creates the strategy. With no repos or no username the
// strategy is a no-op.
func NewMentionWatch(client Executor, repos []string, username string, since time.Time) *MentionWatch {
	return &MentionWatch{client: client, repos: repos, username: username, since: since}
}

// searchResponse is the wire shape of the mention search query.
type searchResponse struct {
	Search struct {
		Nodes []itemNode `json:"nodes"`
	} `json:"search"`
}

// SearchString builds the GitHub search expression:
// repo qualifiers, (mentions:user OR author:user), updated:>watermark.
func (s *MentionWatch) SearchString() string {
	qualifiers := make([]string, 0, len(s.repos))
	for _, r := range s.repos {
		qualifiers = append(qualifiers, ghclient.RepoQualifier(r))
	}
	return fmt.Sprintf("%s (mentions:%s OR author:%s) updated:>%s",
		strings.Join(qualifiers, " "),
		s.username, s.username,
		s.since.UTC().Format("2006-01-02T15:04:05Z"))
}

// Run executes the search. Nodes carrying review-capable fields are pull
// requests; the rest are issues.
func (s *MentionWatch) Run(ctx context.Context) ([]model.Item, error) {
	if len(s.repos) == 0 || s.username == "" {
		return nil, nil
	}

	data, err := s.client.Execute(ctx, ghclient.MentionsQuery(), map[string]any{
		"query": s.SearchString(),
	})
	if err != nil {
		log.Warn("mention search returned no data", "error", err)
		return nil, nil
	}

	var resp searchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		log.Warn("failed to parse mention search response", "error", err)
		return nil, nil
	}

	var items []model.Item
	for _, n := range resp.Search.Nodes {
		// The search connection can yield node types our fragments don't
		// cover; those decode as empty objects.
		if n.URL == "" {
			continue
		}
		kind := model.KindIssue
		if n.Reviews != nil {
			kind = model.KindPullRequest
		}
		item := n.toItem(kind)
		item.Relations = item.Relations.With(model.RelationMentioned)
		if item.Author == s.username {
			item.Relations = model.RelationSet(0).With(model.RelationAuthored)
		}
		items = append(items, item)
	}

	log.Info("mention search complete", "items", len(items))
	return items, nil
}
