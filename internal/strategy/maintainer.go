package strategy

import (
	"context"
	"encoding/json"
	"time"

	"github.com/allenhutchison/github-activity-reporter/internal/ghclient"
	"github.com/allenhutchison/github-activity-reporter/internal/log"
	"github.com/allenhutchison/github-activity-reporter/internal/model"
)

// Maintainer fetches recently-updated issues and pull requests that the
// user did not author and inspects their review, comment, and timeline
// sub-lists to decide how the user acted on each one inside the period.
// Attribution requires an exact login match on the actor.
type Maintainer struct {
	client   Executor
	repos    []string
	username string
	period   model.Period
}

// NewMaintainer creates the strategy for the given repos, user, and period.
func NewMaintainer(client Executor, repos []string, username string, period model.Period) *Maintainer {
	return &Maintainer{client: client, repos: repos, username: username, period: period}
}

// timelineNode is a close or merge event. Nodes of other types decode as
// empty objects and are ignored.
type timelineNode struct {
	Actor     *actorRef  `json:"actor"`
	CreatedAt *time.Time `json:"createdAt"`
}

// reviewActionNode is a full review entry (unlike the last-review summary
// the inbox queries carry).
type reviewActionNode struct {
	Author      *actorRef  `json:"author"`
	SubmittedAt *time.Time `json:"submittedAt"`
	State       string     `json:"state"`
}

// commentActionNode is a full comment entry.
type commentActionNode struct {
	Author    *actorRef  `json:"author"`
	CreatedAt *time.Time `json:"createdAt"`
}

// engagedItemNode is the wire shape of the maintainer query's item nodes.
type engagedItemNode struct {
	itemNode
	Assignees struct {
		Nodes []actorRef `json:"nodes"`
	} `json:"assignees"`
	AllComments struct {
		Nodes []commentActionNode `json:"nodes"`
	} `json:"comments"`
	AllReviews struct {
		Nodes []reviewActionNode `json:"nodes"`
	} `json:"reviews"`
	TimelineItems struct {
		Nodes []timelineNode `json:"nodes"`
	} `json:"timelineItems"`
}

// maintainerResponse is the wire shape of the maintainer query.
type maintainerResponse struct {
	Repository *struct {
		Issues struct {
			Nodes []engagedItemNode `json:"nodes"`
		} `json:"issues"`
		PullRequests struct {
			Nodes []engagedItemNode `json:"nodes"`
		} `json:"pullRequests"`
	} `json:"repository"`
}

// Run executes the strategy sequentially over the configured repositories.
func (s *Maintainer) Run(ctx context.Context) ([]model.Item, error) {
	if len(s.repos) == 0 || s.username == "" {
		return nil, nil
	}

	var items []model.Item
	for _, repo := range s.repos {
		owner, name, err := splitRepo(repo)
		if err != nil {
			log.Warn("skipping report repo entry", "repo", repo, "error", err)
			continue
		}

		data, err := s.client.Execute(ctx, ghclient.MaintainerQuery(), map[string]any{
			"owner": owner,
			"name":  name,
		})
		if err != nil {
			log.Warn("no maintainer data for repo", "repo", repo, "error", err)
			continue
		}

		var resp maintainerResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			log.Warn("failed to parse maintainer response", "repo", repo, "error", err)
			continue
		}
		if resp.Repository == nil {
			continue
		}

		for _, n := range resp.Repository.Issues.Nodes {
			if item, ok := s.classify(n, model.KindIssue); ok {
				items = append(items, item)
			}
		}
		for _, n := range resp.Repository.PullRequests.Nodes {
			if item, ok := s.classify(n, model.KindPullRequest); ok {
				items = append(items, item)
			}
		}
	}

	log.Info("maintainer activity complete", "repos", len(s.repos), "items", len(items))
	return items, nil
}

// classify decides whether and how the user acted on a non-authored item
// inside the period. Self-authored items never count as maintainer work.
func (s *Maintainer) classify(n engagedItemNode, kind model.Kind) (model.Item, bool) {
	if n.Author.login() == s.username {
		return model.Item{}, false
	}

	var rels model.RelationSet

	for _, c := range n.AllComments.Nodes {
		if c.Author.login() == s.username && c.CreatedAt != nil && s.period.Contains(*c.CreatedAt) {
			rels = rels.With(model.RelationCommented)
			break
		}
	}

	if kind == model.KindPullRequest {
		for _, r := range n.AllReviews.Nodes {
			if r.Author.login() == s.username && r.SubmittedAt != nil && s.period.Contains(*r.SubmittedAt) {
				rels = rels.With(model.RelationReviewed)
				break
			}
		}
	}

	for _, a := range n.Assignees.Nodes {
		if a.Login == s.username && s.period.Contains(n.UpdatedAt) {
			rels = rels.With(model.RelationAssigned)
			break
		}
	}

	for _, t := range n.TimelineItems.Nodes {
		if t.Actor.login() == s.username && t.CreatedAt != nil && s.period.Contains(*t.CreatedAt) {
			rels = rels.With(model.RelationClosed)
			break
		}
	}

	if rels.IsEmpty() {
		return model.Item{}, false
	}

	item := n.toItem(kind)
	item.Relations = rels
	return item, true
}
