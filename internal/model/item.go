// Package model contains domain types for the activity reporter.
// These types are independent of any external GitHub library.
package model

import "time"

// Kind identifies what flavor of item an activity entry is.
type Kind string

const (
	KindIssue       Kind = "Issue"
	KindPullRequest Kind = "PR"
	KindDiscussion  Kind = "Discussion"
)

// State is the lifecycle state of an issue or pull request.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
	StateMerged State = "merged"
)

// Interaction is a compact summary of the most recent comment or review on
// an item, used only for display context in the inbox view.
type Interaction struct {
	Author string    `json:"author,omitempty"`
	At     time.Time `json:"at"`
}

// Commit is a single commit carried on a pull request or found by commit
// search. SHA is the full object id; display code shortens it.
type Commit struct {
	SHA        string `json:"sha"`
	URL        string `json:"url"`
	Message    string `json:"message"` // first line only
	Author     string `json:"author,omitempty"`
	Repository string `json:"repository,omitempty"`
}

// Item is the canonical unit flowing through the system. URL is globally
// unique and serves as the deduplication key.
type Item struct {
	URL        string `json:"url"`
	Kind       Kind   `json:"kind"`
	Number     int    `json:"number"`
	Title      string `json:"title"`
	Repository string `json:"repository"` // "owner/name"

	// Author is the login of the item author. Empty means a ghost or
	// deleted account (GraphQL returns a null author for those).
	Author string `json:"author,omitempty"`

	State     State      `json:"state,omitempty"`
	MergedAt  *time.Time `json:"mergedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	LastComment *Interaction `json:"lastComment,omitempty"`
	LastReview  *Interaction `json:"lastReview,omitempty"`

	// Commits authored by the requesting user, populated only by the
	// authored-activity strategy.
	Commits []Commit `json:"commits,omitempty"`

	// Relations describes how the requesting user is connected to the
	// item. Derived by strategies, never part of the wire payload.
	Relations RelationSet `json:"relations,omitempty"`
}

// IsGhost reports whether the item's author account is gone or was a bot
// whose login the API did not surface.
func (i Item) IsGhost() bool {
	return i.Author == ""
}

// Status derives the report status label for a pull request: merged wins
// over closed regardless of the state field, everything else is open.
func (i Item) Status() string {
	if i.MergedAt != nil {
		return "merged"
	}
	if i.State == StateClosed {
		return "closed"
	}
	return "open"
}
