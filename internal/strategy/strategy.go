// Package strategy implements the fetch-and-classify routines that pull one
// activity dimension each from GitHub and normalize the results into items.
package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/allenhutchison/github-activity-reporter/internal/model"
)

// Executor runs a single parameterized GraphQL query and returns the raw
// data payload. Implemented by ghclient.GraphQLClient; faked in tests.
type Executor interface {
	Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}

// Strategy is the capability shared by all fetch routines: run once, return
// a normalized list of classified items. Failures inside a strategy are
// local; a strategy never returns an error for a single bad repository.
type Strategy interface {
	Run(ctx context.Context) ([]model.Item, error)
}

// splitRepo parses an "owner/name" entry. Entries that do not parse (bare
// org names, empty strings) are skipped by the repo-scoped strategies.
func splitRepo(fullName string) (owner, name string, err error) {
	parts := strings.Split(fullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo format %q, expected owner/name", fullName)
	}
	return parts[0], parts[1], nil
}

// actorRef is a wire reference to a user. A null author on the wire means a
// ghost or deleted account.
type actorRef struct {
	Login string `json:"login"`
}

func (a *actorRef) login() string {
	if a == nil {
		return ""
	}
	return a.Login
}

// interactionNode is the last comment or review on an item.
type interactionNode struct {
	Author    *actorRef  `json:"author"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// itemNode is the wire shape shared by the watch and mention queries for
// issues, pull requests, and discussions. Reviews is a pointer: search hits
// that lack review-capable fields are issues, those that carry them are PRs.
type itemNode struct {
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	Number    int        `json:"number"`
	State     string     `json:"state"`
	MergedAt  *time.Time `json:"mergedAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Author    *actorRef  `json:"author"`
	Comments  struct {
		Nodes []interactionNode `json:"nodes"`
	} `json:"comments"`
	Reviews *struct {
		Nodes []interactionNode `json:"nodes"`
	} `json:"reviews"`
	Repository struct {
		NameWithOwner string `json:"nameWithOwner"`
	} `json:"repository"`
}

// mapState converts a GraphQL state (OPEN, CLOSED, MERGED) to the domain
// state, folding a set merge timestamp into merged.
func mapState(state string, mergedAt *time.Time) model.State {
	if mergedAt != nil || strings.EqualFold(state, "MERGED") {
		return model.StateMerged
	}
	if strings.EqualFold(state, "CLOSED") {
		return model.StateClosed
	}
	return model.StateOpen
}

// toItem converts a wire node into a domain item of the given kind.
func (n itemNode) toItem(kind model.Kind) model.Item {
	item := model.Item{
		URL:        n.URL,
		Kind:       kind,
		Number:     n.Number,
		Title:      n.Title,
		Repository: n.Repository.NameWithOwner,
		Author:     n.Author.login(),
		State:      mapState(n.State, n.MergedAt),
		MergedAt:   n.MergedAt,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
	if len(n.Comments.Nodes) > 0 {
		item.LastComment = n.Comments.Nodes[0].toInteraction()
	}
	if n.Reviews != nil && len(n.Reviews.Nodes) > 0 {
		item.LastReview = n.Reviews.Nodes[0].toInteraction()
	}
	return item
}

func (n interactionNode) toInteraction() *model.Interaction {
	ia := &model.Interaction{Author: n.Author.login()}
	if n.UpdatedAt != nil {
		ia.At = *n.UpdatedAt
	}
	return ia
}
