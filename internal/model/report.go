package model

import "time"

// Period is a calendar-date window, inclusive on both ends. Times of day are
// deliberately absent: membership tests discard them.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether ts falls inside the period. The instant is
// reduced to its UTC calendar date first, so both boundary dates are fully
// inclusive regardless of time-of-day or offset within the stamped instant.
func (p Period) Contains(ts time.Time) bool {
	d := ts.UTC().Truncate(24 * time.Hour)
	start := p.Start.UTC().Truncate(24 * time.Hour)
	end := p.End.UTC().Truncate(24 * time.Hour)
	return !d.Before(start) && !d.After(end)
}

// ReportPR is a pull request entry in the contributions section.
type ReportPR struct {
	Number  int      `json:"number"`
	URL     string   `json:"url"`
	Title   string   `json:"title"`
	Status  string   `json:"status"` // merged, closed, open
	Commits []Commit `json:"commits"`
}

// ReportIssue is an issue entry in the contributions section.
type ReportIssue struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// MaintainerPR is a non-authored pull request the user acted on.
type MaintainerPR struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// EngagedIssue is a non-authored issue the user interacted with, tagged
// with the kinds of interaction observed.
type EngagedIssue struct {
	Number       int         `json:"number"`
	URL          string      `json:"url"`
	Title        string      `json:"title"`
	State        string      `json:"state"`
	Interactions RelationSet `json:"interactions"`
}

// ClosedIssue is an issue whose closure the user was involved in.
type ClosedIssue struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// Contributions groups work authored by the user.
type Contributions struct {
	PullRequests []ReportPR    `json:"pull_requests"`
	Issues       []ReportIssue `json:"issues"`
	Commits      []Commit      `json:"commits"` // work in progress: not part of any PR
}

// MaintainerWork groups non-authored items the user acted on.
type MaintainerWork struct {
	PRsReviewed     []MaintainerPR `json:"prs_reviewed"`
	PRsClosedMerged []MaintainerPR `json:"prs_closed_merged"`
	IssuesEngaged   []EngagedIssue `json:"issues_engaged"`
	IssuesClosed    []ClosedIssue  `json:"issues_closed"`
}

// ReportData is the aggregate report structure for one period.
type ReportData struct {
	Username       string         `json:"username"`
	Period         Period         `json:"period"`
	Repositories   []string       `json:"repositories"`
	Contributions  Contributions  `json:"contributions"`
	MaintainerWork MaintainerWork `json:"maintainer_work"`
}
