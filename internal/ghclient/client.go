// Package ghclient wraps the two GitHub API surfaces the reporter uses: the
// REST v3 search API (via go-github) and the GraphQL v4 endpoint.
package ghclient

import (
	"context"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/allenhutchison/github-activity-reporter/internal/log"
)

// Client wraps the GitHub REST API client.
type Client struct {
	client *gh.Client
	// token is intentionally unexported. NEVER add String(), MarshalJSON(),
	// or any method that could expose this value in logs or serialized output.
	token string
}

// NewClient creates a new GitHub REST client using a personal access token.
func NewClient(ctx context.Context, token string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token not provided. Set the GITHUB_TOKEN environment variable or run 'auth login'")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client: gh.NewClient(tc),
		token:  token,
	}, nil
}

// AuthenticatedUser returns the authenticated user's login.
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}

// Token returns the token for constructing sibling clients.
func (c *Client) Token() string {
	return c.token
}

// RepoQualifier converts a configured repo entry into a search qualifier:
// "owner/repo" becomes repo:owner/repo, a bare "owner" becomes org:owner.
func RepoQualifier(repo string) string {
	if strings.Contains(repo, "/") {
		return "repo:" + repo
	}
	return "org:" + repo
}

// SearchIssuesAcrossRepos runs an issue/PR search once per configured repo
// or org and combines the results. Searching per repo handles mixed
// public/private repo sets better than one combined query. Repos that fail
// (no access, bad name) are skipped, never fatal.
func (c *Client) SearchIssuesAcrossRepos(ctx context.Context, baseQuery string, repos []string) []*gh.Issue {
	var all []*gh.Issue
	for _, repo := range repos {
		query := baseQuery + " " + RepoQualifier(repo)
		log.Debug("issue search", "query", query)

		opts := &gh.SearchOptions{
			Sort:        "created",
			Order:       "desc",
			ListOptions: gh.ListOptions{PerPage: 100},
		}
		for {
			result, resp, err := c.client.Search.Issues(ctx, query, opts)
			if err != nil {
				log.Debug("issue search failed, skipping repo", "repo", repo, "error", err)
				break
			}
			all = append(all, result.Issues...)
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
	}
	return all
}

// SearchCommitsAcrossRepos runs a commit search once per configured repo or
// org and combines the results, skipping repos that fail.
func (c *Client) SearchCommitsAcrossRepos(ctx context.Context, baseQuery string, repos []string) []*gh.CommitResult {
	var all []*gh.CommitResult
	for _, repo := range repos {
		query := baseQuery + " " + RepoQualifier(repo)
		log.Debug("commit search", "query", query)

		opts := &gh.SearchOptions{
			Sort:        "committer-date",
			Order:       "desc",
			ListOptions: gh.ListOptions{PerPage: 100},
		}
		for {
			result, resp, err := c.client.Search.Commits(ctx, query, opts)
			if err != nil {
				log.Debug("commit search failed, skipping repo", "repo", repo, "error", err)
				break
			}
			all = append(all, result.Commits...)
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
	}
	return all
}

// ListIssueComments returns the comments of a single issue, oldest first.
func (c *Client) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]*gh.IssueComment, error) {
	var all []*gh.IssueComment
	opts := &gh.IssueListCommentsOptions{ListOptions: gh.ListOptions{PerPage: 100}}
	for {
		comments, resp, err := c.client.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments for %s/%s#%d: %w", owner, repo, number, err)
		}
		all = append(all, comments...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// ListPRCommits returns the commits of a single pull request.
func (c *Client) ListPRCommits(ctx context.Context, owner, repo string, number int) ([]*gh.RepositoryCommit, error) {
	var all []*gh.RepositoryCommit
	opts := &gh.ListOptions{PerPage: 100}
	for {
		commits, resp, err := c.client.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list commits for %s/%s#%d: %w", owner, repo, number, err)
		}
		all = append(all, commits...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}
