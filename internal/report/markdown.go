package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/allenhutchison/github-activity-reporter/internal/model"
)

// maxCommitsPerPR caps the commit lines rendered under a pull request entry.
const maxCommitsPerPR = 5

// Markdown renders the report in the structured markdown format.
func Markdown(data model.ReportData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# GitHub Activity Report for %s\n", data.Username)
	fmt.Fprintf(&b, "**Period:** `%s` to `%s`\n",
		data.Period.Start.Format("2006-01-02"), data.Period.End.Format("2006-01-02"))
	fmt.Fprintf(&b, "**Repositories:** %s\n\n", strings.Join(data.Repositories, ", "))

	b.WriteString("## 📝 Contributions\n")
	b.WriteString("_Pull requests, issues, and commits authored by you_\n\n")

	b.WriteString("### Pull Requests Authored\n")
	if len(data.Contributions.PullRequests) > 0 {
		for _, pr := range data.Contributions.PullRequests {
			fmt.Fprintf(&b, "- [#%d](%s) - %s _(%s)_\n", pr.Number, pr.URL, pr.Title, pr.Status)
			for i, commit := range pr.Commits {
				if i == maxCommitsPerPR {
					fmt.Fprintf(&b, "  - ... and %d more commits\n", len(pr.Commits)-maxCommitsPerPR)
					break
				}
				fmt.Fprintf(&b, "  - [`%s`](%s) - %s\n", shortSHA(commit.SHA), commit.URL, commit.Message)
			}
		}
	} else {
		b.WriteString("- No pull requests authored during this period.\n")
	}

	b.WriteString("\n### Issues Created\n")
	if len(data.Contributions.Issues) > 0 {
		for _, issue := range data.Contributions.Issues {
			fmt.Fprintf(&b, "- [#%d](%s) - %s _(%s)_\n", issue.Number, issue.URL, issue.Title, issue.Status)
		}
	} else {
		b.WriteString("- No issues created during this period.\n")
	}

	b.WriteString("\n### Work in Progress\n")
	b.WriteString("_Commits not yet part of a pull request_\n")
	if len(data.Contributions.Commits) > 0 {
		currentRepo := ""
		for _, commit := range data.Contributions.Commits {
			if commit.Repository != currentRepo {
				currentRepo = commit.Repository
				fmt.Fprintf(&b, "\n#### `%s`\n", currentRepo)
			}
			fmt.Fprintf(&b, "- [`%s`](%s) - %s\n", shortSHA(commit.SHA), commit.URL, commit.Message)
		}
	} else {
		b.WriteString("- All recent commits are part of pull requests\n")
	}

	b.WriteString("\n## 🔧 Maintainer Work\n")
	b.WriteString("_Code reviews, issue triage, and community engagement_\n\n")

	b.WriteString("### Pull Requests Reviewed\n")
	if len(data.MaintainerWork.PRsReviewed) > 0 {
		for _, pr := range data.MaintainerWork.PRsReviewed {
			fmt.Fprintf(&b, "- [#%d](%s) - %s _(%s)_\n", pr.Number, pr.URL, pr.Title, pr.Status)
		}
	} else {
		b.WriteString("- No pull requests reviewed during this period.\n")
	}

	b.WriteString("\n### Pull Requests Closed/Merged\n")
	if len(data.MaintainerWork.PRsClosedMerged) > 0 {
		for _, pr := range data.MaintainerWork.PRsClosedMerged {
			fmt.Fprintf(&b, "- [#%d](%s) - %s _(%s)_\n", pr.Number, pr.URL, pr.Title, pr.Status)
		}
	} else {
		b.WriteString("- No pull requests closed/merged during this period.\n")
	}

	b.WriteString("\n### Issue Engagement\n")
	if len(data.MaintainerWork.IssuesEngaged) > 0 {
		for _, issue := range data.MaintainerWork.IssuesEngaged {
			fmt.Fprintf(&b, "- [#%d](%s) - %s _(%s, %s)_\n",
				issue.Number, issue.URL, issue.Title, issue.Interactions, issue.State)
		}
	} else {
		b.WriteString("- No issue engagement during this period.\n")
	}

	b.WriteString("\n### Issues Closed\n")
	if len(data.MaintainerWork.IssuesClosed) > 0 {
		for _, issue := range data.MaintainerWork.IssuesClosed {
			fmt.Fprintf(&b, "- [#%d](%s) - %s _(%s)_\n", issue.Number, issue.URL, issue.Title, issue.Reason)
		}
	} else {
		b.WriteString("- No issues closed during this period.\n")
	}

	b.WriteString("\n---\n")
	fmt.Fprintf(&b, "_Report generated on %s_\n", time.Now().Format("2006-01-02"))

	return b.String()
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
