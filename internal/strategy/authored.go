package strategy

import (
	"context"
	"encoding/json"

	"github.com/allenhutchison/github-activity-reporter/internal/ghclient"
	"github.com/allenhutchison/github-activity-reporter/internal/log"
	"github.com/allenhutchison/github-activity-reporter/internal/model"
)

// Authored fetches issues and pull requests the user created inside the
// report period. Issues are filtered server-side by author and since; the
// pull request connection offers no author filter, so the most recent PRs
// are fetched and filtered client-side by author login and creation date.
type Authored struct {
	client   Executor
	repos    []string
	username string
	period   model.Period
}

// NewAuthored creates the strategy for the given repos, user, and period.
func NewAuthored(client Executor, repos []string, username string, period model.Period) *Authored {
	return &Authored{client: client, repos: repos, username: username, period: period}
}

// commitNode is the wire shape of a PR commit.
type commitNode struct {
	Commit struct {
		OID     string `json:"oid"`
		URL     string `json:"url"`
		Message string `json:"message"`
		Author  struct {
			User *actorRef `json:"user"`
		} `json:"author"`
	} `json:"commit"`
}

// reportItemNode extends itemNode with the commit list carried by the
// authored query's PR fragment.
type reportItemNode struct {
	itemNode
	Commits struct {
		Nodes []commitNode `json:"nodes"`
	} `json:"commits"`
}

// authoredResponse is the wire shape of the authored query.
type authoredResponse struct {
	Repository *struct {
		Issues struct {
			Nodes []reportItemNode `json:"nodes"`
		} `json:"issues"`
		PullRequests struct {
			Nodes []reportItemNode `json:"nodes"`
		} `json:"pullRequests"`
	} `json:"repository"`
}

// Run executes the strategy sequentially over the configured repositories.
func (s *Authored) Run(ctx context.Context) ([]model.Item, error) {
	if len(s.repos) == 0 || s.username == "" {
		return nil, nil
	}

	since := s.period.Start.UTC().Format("2006-01-02") + "T00:00:00Z"

	var items []model.Item
	for _, repo := range s.repos {
		owner, name, err := splitRepo(repo)
		if err != nil {
			log.Warn("skipping report repo entry", "repo", repo, "error", err)
			continue
		}

		data, err := s.client.Execute(ctx, ghclient.AuthoredQuery(), map[string]any{
			"owner":  owner,
			"name":   name,
			"since":  since,
			"author": s.username,
		})
		if err != nil {
			log.Warn("no authored data for repo", "repo", repo, "error", err)
			continue
		}

		var resp authoredResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			log.Warn("failed to parse authored response", "repo", repo, "error", err)
			continue
		}
		if resp.Repository == nil {
			continue
		}

		// Issues arrive pre-filtered by author and since; the period check
		// still applies because since only bounds one side.
		for _, n := range resp.Repository.Issues.Nodes {
			if !s.period.Contains(n.CreatedAt) {
				continue
			}
			item := n.toItem(model.KindIssue)
			item.Relations = item.Relations.With(model.RelationAuthored)
			items = append(items, item)
		}

		// PRs need client-side author and date filtering.
		for _, n := range resp.Repository.PullRequests.Nodes {
			if n.Author.login() != s.username {
				continue
			}
			if !s.period.Contains(n.CreatedAt) {
				continue
			}
			item := n.toItem(model.KindPullRequest)
			item.Relations = item.Relations.With(model.RelationAuthored)
			item.Commits = s.userCommits(n.Commits.Nodes, item.Repository)
			items = append(items, item)
		}
	}

	log.Info("authored activity complete", "repos", len(s.repos), "items", len(items))
	return items, nil
}

// userCommits keeps the PR commits authored by the requesting user. Commits
// by bots or with unlinked authors have no user node and are dropped.
func (s *Authored) userCommits(nodes []commitNode, repo string) []model.Commit {
	var commits []model.Commit
	for _, n := range nodes {
		if n.Commit.Author.User == nil || n.Commit.Author.User.Login != s.username {
			continue
		}
		commits = append(commits, model.Commit{
			SHA:        n.Commit.OID,
			URL:        n.Commit.URL,
			Message:    firstLine(n.Commit.Message),
			Author:     n.Commit.Author.User.Login,
			Repository: repo,
		})
	}
	return commits
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
