package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	gh "github.com/google/go-github/v62/github"

	"github.com/allenhutchison/github-activity-reporter/internal/log"
	"github.com/allenhutchison/github-activity-reporter/internal/model"
)

// maxOrphanCommitsPerRepo caps the work-in-progress commits reported for a
// single repository.
const maxOrphanCommitsPerRepo = 10

// Searcher is the slice of the REST client the collector needs. Satisfied by
// ghclient.Client; faked in tests.
type Searcher interface {
	SearchIssuesAcrossRepos(ctx context.Context, baseQuery string, repos []string) []*gh.Issue
	SearchCommitsAcrossRepos(ctx context.Context, baseQuery string, repos []string) []*gh.CommitResult
	ListPRCommits(ctx context.Context, owner, repo string, number int) ([]*gh.RepositoryCommit, error)
	ListIssueComments(ctx context.Context, owner, repo string, number int) ([]*gh.IssueComment, error)
}

// CollectREST builds the report through the REST search API. Every search is
// date-qualified server-side, so no client-side period filtering applies.
// The PR scan must run before the commit search: it records every SHA that
// belongs to a pull request, and the commit pass treats the rest as work in
// progress.
func CollectREST(ctx context.Context, client Searcher, username string, period model.Period, repos []string) model.ReportData {
	data := model.ReportData{
		Username:     username,
		Period:       period,
		Repositories: repos,
	}

	start := period.Start.UTC().Format("2006-01-02")
	end := period.End.UTC().Format("2006-01-02")
	created := fmt.Sprintf("created:%s..%s", start, end)
	updated := fmt.Sprintf("updated:%s..%s", start, end)
	closed := fmt.Sprintf("closed:%s..%s", start, end)

	prCommitSHAs := make(map[string]bool)

	// Pull requests authored.
	prs := client.SearchIssuesAcrossRepos(ctx, fmt.Sprintf("is:pr author:%s %s", username, created), repos)
	sort.SliceStable(prs, func(i, j int) bool {
		return prs[i].GetCreatedAt().Time.After(prs[j].GetCreatedAt().Time)
	})
	seenPRs := make(map[int]bool)
	for _, pr := range prs {
		if seenPRs[pr.GetNumber()] {
			continue
		}
		seenPRs[pr.GetNumber()] = true

		entry := model.ReportPR{
			Number: pr.GetNumber(),
			URL:    pr.GetHTMLURL(),
			Title:  pr.GetTitle(),
			Status: prStatus(pr),
		}
		if owner, name, ok := repoFromAPIURL(pr.GetRepositoryURL()); ok {
			commits, err := client.ListPRCommits(ctx, owner, name, pr.GetNumber())
			if err != nil {
				log.Debug("could not list PR commits", "pr", pr.GetNumber(), "error", err)
			}
			for _, c := range commits {
				prCommitSHAs[c.GetSHA()] = true
				if c.GetAuthor().GetLogin() != username {
					continue
				}
				entry.Commits = append(entry.Commits, model.Commit{
					SHA:     c.GetSHA(),
					URL:     c.GetHTMLURL(),
					Message: firstLine(c.GetCommit().GetMessage()),
					Author:  c.GetAuthor().GetLogin(),
				})
			}
		}
		data.Contributions.PullRequests = append(data.Contributions.PullRequests, entry)
	}

	// Issues created.
	issues := client.SearchIssuesAcrossRepos(ctx, fmt.Sprintf("is:issue author:%s %s", username, created), repos)
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].GetCreatedAt().Time.After(issues[j].GetCreatedAt().Time)
	})
	seenIssues := make(map[int]bool)
	for _, issue := range issues {
		if seenIssues[issue.GetNumber()] {
			continue
		}
		seenIssues[issue.GetNumber()] = true
		data.Contributions.Issues = append(data.Contributions.Issues, model.ReportIssue{
			Number: issue.GetNumber(),
			URL:    issue.GetHTMLURL(),
			Title:  issue.GetTitle(),
			Status: issue.GetState(),
		})
	}

	// Work in progress: commits in the window that belong to no PR.
	data.Contributions.Commits = collectOrphanCommits(ctx, client, username, start, end, repos, prCommitSHAs)

	// Maintainer work.
	data.MaintainerWork.PRsReviewed = collectReviewedPRs(ctx, client, username, updated, repos)
	data.MaintainerWork.PRsClosedMerged = collectClosedPRs(ctx, client, username, closed, repos)
	data.MaintainerWork.IssuesEngaged = collectEngagedIssues(ctx, client, username, updated, repos)
	data.MaintainerWork.IssuesClosed = collectClosedIssues(ctx, client, username, closed, repos, period)

	return data
}

func collectOrphanCommits(ctx context.Context, client Searcher, username, start, end string, repos []string, prCommitSHAs map[string]bool) []model.Commit {
	results := client.SearchCommitsAcrossRepos(ctx,
		fmt.Sprintf("author:%s committer-date:%s..%s", username, start, end), repos)

	perRepo := make(map[string][]model.Commit)
	var repoOrder []string
	for _, c := range results {
		if prCommitSHAs[c.GetSHA()] {
			continue
		}
		repo := c.GetRepository().GetFullName()
		if _, ok := perRepo[repo]; !ok {
			repoOrder = append(repoOrder, repo)
		}
		perRepo[repo] = append(perRepo[repo], model.Commit{
			SHA:        c.GetSHA(),
			URL:        c.GetHTMLURL(),
			Message:    firstLine(c.GetCommit().GetMessage()),
			Author:     username,
			Repository: repo,
		})
	}

	var commits []model.Commit
	for _, repo := range repoOrder {
		list := perRepo[repo]
		if len(list) > maxOrphanCommitsPerRepo {
			list = list[:maxOrphanCommitsPerRepo]
		}
		commits = append(commits, list...)
	}
	return commits
}

// collectReviewedPRs unions the commenter and reviewed-by searches, dropping
// the user's own PRs.
func collectReviewedPRs(ctx context.Context, client Searcher, username, updated string, repos []string) []model.MaintainerPR {
	var out []model.MaintainerPR
	seen := make(map[int]bool)

	add := func(results []*gh.Issue) {
		for _, pr := range results {
			if !pr.IsPullRequest() || pr.GetUser().GetLogin() == username || seen[pr.GetNumber()] {
				continue
			}
			seen[pr.GetNumber()] = true
			out = append(out, model.MaintainerPR{
				Number: pr.GetNumber(),
				URL:    pr.GetHTMLURL(),
				Title:  pr.GetTitle(),
				Status: pr.GetState(),
			})
		}
	}

	add(client.SearchIssuesAcrossRepos(ctx, fmt.Sprintf("is:pr commenter:%s %s", username, updated), repos))
	add(client.SearchIssuesAcrossRepos(ctx, fmt.Sprintf("is:pr reviewed-by:%s %s", username, updated), repos))
	return out
}

// collectClosedPRs gathers PRs closed in the window that the user authored
// or reviewed. Authored entries take precedence over reviewed ones.
func collectClosedPRs(ctx context.Context, client Searcher, username, closed string, repos []string) []model.MaintainerPR {
	var out []model.MaintainerPR
	seen := make(map[int]bool)

	authored := client.SearchIssuesAcrossRepos(ctx, fmt.Sprintf("is:pr is:closed author:%s %s", username, closed), repos)
	for _, pr := range authored {
		if seen[pr.GetNumber()] {
			continue
		}
		seen[pr.GetNumber()] = true
		out = append(out, model.MaintainerPR{
			Number: pr.GetNumber(),
			URL:    pr.GetHTMLURL(),
			Title:  pr.GetTitle(),
			Status: prStatus(pr) + " (author)",
		})
	}

	reviewed := client.SearchIssuesAcrossRepos(ctx, fmt.Sprintf("is:pr is:closed reviewed-by:%s %s", username, closed), repos)
	for _, pr := range reviewed {
		if pr.GetUser().GetLogin() == username || seen[pr.GetNumber()] {
			continue
		}
		seen[pr.GetNumber()] = true
		out = append(out, model.MaintainerPR{
			Number: pr.GetNumber(),
			URL:    pr.GetHTMLURL(),
			Title:  pr.GetTitle(),
			Status: prStatus(pr) + " (reviewed)",
		})
	}
	return out
}

// collectEngagedIssues merges the commented, mentioned, and assigned
// searches into one entry per issue with the union of interaction kinds.
func collectEngagedIssues(ctx context.Context, client Searcher, username, updated string, repos []string) []model.EngagedIssue {
	var out []model.EngagedIssue
	index := make(map[int]int)

	add := func(results []*gh.Issue, rel model.Relation) {
		for _, issue := range results {
			if issue.IsPullRequest() || issue.GetUser().GetLogin() == username {
				continue
			}
			if pos, ok := index[issue.GetNumber()]; ok {
				out[pos].Interactions = out[pos].Interactions.With(rel)
				continue
			}
			index[issue.GetNumber()] = len(out)
			out = append(out, model.EngagedIssue{
				Number:       issue.GetNumber(),
				URL:          issue.GetHTMLURL(),
				Title:        issue.GetTitle(),
				State:        issue.GetState(),
				Interactions: model.RelationSet(0).With(rel),
			})
		}
	}

	add(client.SearchIssuesAcrossRepos(ctx, fmt.Sprintf("is:issue commenter:%s %s", username, updated), repos), model.RelationCommented)
	add(client.SearchIssuesAcrossRepos(ctx, fmt.Sprintf("is:issue mentions:%s %s", username, updated), repos), model.RelationMentioned)
	add(client.SearchIssuesAcrossRepos(ctx, fmt.Sprintf("is:issue assignee:%s %s", username, updated), repos), model.RelationAssigned)
	return out
}

// closureKeywords mark a closing comment when they appear in its body.
var closureKeywords = []string{"duplicate", "closing", "fixed", "resolved", "close"}

// collectClosedIssues gathers issues closed in the window that the user
// authored, commented on around closure, or was assigned to. Earlier passes
// take precedence per issue number.
func collectClosedIssues(ctx context.Context, client Searcher, username, closed string, repos []string, period model.Period) []model.ClosedIssue {
	var out []model.ClosedIssue
	seen := make(map[int]bool)

	authored := client.SearchIssuesAcrossRepos(ctx, fmt.Sprintf("is:issue is:closed author:%s %s", username, closed), repos)
	for _, issue := range authored {
		if issue.IsPullRequest() || seen[issue.GetNumber()] {
			continue
		}
		seen[issue.GetNumber()] = true
		out = append(out, model.ClosedIssue{
			Number: issue.GetNumber(),
			URL:    issue.GetHTMLURL(),
			Title:  issue.GetTitle(),
			Reason: "authored & closed",
		})
	}

	commented := client.SearchIssuesAcrossRepos(ctx, fmt.Sprintf("is:issue is:closed commenter:%s %s", username, closed), repos)
	for _, issue := range commented {
		if issue.IsPullRequest() || issue.GetUser().GetLogin() == username || seen[issue.GetNumber()] {
			continue
		}
		reason, ok := closureReason(ctx, client, username, issue, period)
		if !ok {
			continue
		}
		seen[issue.GetNumber()] = true
		out = append(out, model.ClosedIssue{
			Number: issue.GetNumber(),
			URL:    issue.GetHTMLURL(),
			Title:  issue.GetTitle(),
			Reason: reason,
		})
	}

	assigned := client.SearchIssuesAcrossRepos(ctx, fmt.Sprintf("is:issue is:closed assignee:%s %s", username, closed), repos)
	for _, issue := range assigned {
		if issue.IsPullRequest() || issue.GetUser().GetLogin() == username || seen[issue.GetNumber()] {
			continue
		}
		seen[issue.GetNumber()] = true
		out = append(out, model.ClosedIssue{
			Number: issue.GetNumber(),
			URL:    issue.GetHTMLURL(),
			Title:  issue.GetTitle(),
			Reason: "assigned & closed",
		})
	}
	return out
}

// closureReason inspects the user's recent comments on a closed issue to
// decide how they were involved. Only the last five comments count, and
// only those the user wrote inside the period. A comment mentioning a
// closure keyword reads as a triage decision; any other comment still ties
// the user to the closure. When the comments cannot be fetched the
// involvement is known from the search hit but not its nature.
func closureReason(ctx context.Context, client Searcher, username string, issue *gh.Issue, period model.Period) (string, bool) {
	owner, name, ok := repoFromAPIURL(issue.GetRepositoryURL())
	if !ok {
		return "", false
	}

	comments, err := client.ListIssueComments(ctx, owner, name, issue.GetNumber())
	if err != nil {
		log.Debug("could not list issue comments", "issue", issue.GetNumber(), "error", err)
		return "involved in closure", true
	}
	if len(comments) > 5 {
		comments = comments[len(comments)-5:]
	}

	for _, c := range comments {
		if c.GetUser().GetLogin() != username || !period.Contains(c.GetCreatedAt().Time) {
			continue
		}
		body := strings.ToLower(c.GetBody())
		for _, kw := range closureKeywords {
			if strings.Contains(body, kw) {
				return "closed as duplicate/resolved", true
			}
		}
		return "closed after commenting", true
	}
	return "", false
}

// prStatus derives the report status for a PR search result. Merged wins
// over closed; search results carry merge info on the pull request links.
func prStatus(pr *gh.Issue) string {
	if !pr.GetPullRequestLinks().GetMergedAt().IsZero() {
		return "merged"
	}
	if pr.GetState() == "closed" {
		return "closed"
	}
	return "open"
}

// repoFromAPIURL extracts owner and name from a search result's repository
// API URL (".../repos/{owner}/{name}").
func repoFromAPIURL(url string) (owner, name string, ok bool) {
	const marker = "/repos/"
	i := strings.Index(url, marker)
	if i < 0 {
		return "", "", false
	}
	parts := strings.Split(url[i+len(marker):], "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
