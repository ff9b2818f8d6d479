package strategy

import (
	"context"
	"encoding/json"
	"time"

	"github.com/allenhutchison/github-activity-reporter/internal/ghclient"
	"github.com/allenhutchison/github-activity-reporter/internal/log"
	"github.com/allenhutchison/github-activity-reporter/internal/model"
)

// FullWatch fetches recent activity from every watch_all repository: the
// most recently updated issues, pull requests, and discussions, first page
// only. Activity beyond the page size inside a single interval is dropped;
// that is an accepted boundary of the incremental view.
type FullWatch struct {
	client Executor
	repos  []string
	since  time.Time // watermark: strictly-newer items pass
}

// NewFullWatch creates the strategy for the given watch_all repos and
// last-run watermark.
func NewFullWatch(client Executor, repos []string, since time.Time) *FullWatch {
	return &FullWatch{client: client, repos: repos, since: since}
}

// watchResponse is the wire shape of the watch query.
type watchResponse struct {
	Repository *struct {
		Issues struct {
			Nodes []itemNode `json:"nodes"`
		} `json:"issues"`
		PullRequests struct {
			Nodes []itemNode `json:"nodes"`
		} `json:"pullRequests"`
		Discussions struct {
			Nodes []itemNode `json:"nodes"`
		} `json:"discussions"`
	} `json:"repository"`
}

// Run executes the strategy sequentially over the configured repositories.
// A repository that fails to parse or fetch is logged and skipped.
func (s *FullWatch) Run(ctx context.Context) ([]model.Item, error) {
	var items []model.Item

	for _, repo := range s.repos {
		owner, name, err := splitRepo(repo)
		if err != nil {
			log.Warn("skipping watch_all entry", "repo", repo, "error", err)
			continue
		}

		data, err := s.client.Execute(ctx, ghclient.WatchQuery(), map[string]any{
			"owner": owner,
			"name":  name,
		})
		if err != nil {
			log.Warn("no data for watched repo", "repo", repo, "error", err)
			continue
		}

		var resp watchResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			log.Warn("failed to parse watch response", "repo", repo, "error", err)
			continue
		}
		if resp.Repository == nil {
			log.Debug("repository missing from response", "repo", repo)
			continue
		}

		items = append(items, s.collect(resp.Repository.Issues.Nodes, model.KindIssue)...)
		items = append(items, s.collect(resp.Repository.PullRequests.Nodes, model.KindPullRequest)...)
		items = append(items, s.collect(resp.Repository.Discussions.Nodes, model.KindDiscussion)...)
	}

	log.Info("full watch complete", "repos", len(s.repos), "items", len(items))
	return items, nil
}

// collect keeps the nodes updated strictly after the watermark.
func (s *FullWatch) collect(nodes []itemNode, kind model.Kind) []model.Item {
	var items []model.Item
	for _, n := range nodes {
		if !n.UpdatedAt.After(s.since) {
			continue
		}
		items = append(items, n.toItem(kind))
	}
	return items
}
