// Package report assembles activity items into the period report structure
// and renders it as markdown.
package report

import (
	"github.com/allenhutchison/github-activity-reporter/internal/log"
	"github.com/allenhutchison/github-activity-reporter/internal/model"
)

// Build assembles a report from the authored and maintainer strategy
// results. Items are deduplicated by number within each repository; the
// later copy wins so maintainer classification survives a collision.
func Build(username string, period model.Period, repos []string, authored, maintainer []model.Item) model.ReportData {
	data := model.ReportData{
		Username:     username,
		Period:       period,
		Repositories: repos,
	}

	for _, item := range dedupeByNumber(authored) {
		switch item.Kind {
		case model.KindPullRequest:
			data.Contributions.PullRequests = append(data.Contributions.PullRequests, model.ReportPR{
				Number:  item.Number,
				URL:     item.URL,
				Title:   item.Title,
				Status:  item.Status(),
				Commits: item.Commits,
			})
		case model.KindIssue:
			data.Contributions.Issues = append(data.Contributions.Issues, model.ReportIssue{
				Number: item.Number,
				URL:    item.URL,
				Title:  item.Title,
				Status: item.Status(),
			})
		default:
			log.Debug("unexpected authored item kind", "kind", item.Kind, "url", item.URL)
		}
	}

	for _, item := range dedupeByNumber(maintainer) {
		switch item.Kind {
		case model.KindPullRequest:
			entry := model.MaintainerPR{
				Number: item.Number,
				URL:    item.URL,
				Title:  item.Title,
				Status: item.Status(),
			}
			// Commenting on someone else's PR counts as review activity,
			// matching the commenter search the REST collector unions in.
			if item.Relations.Has(model.RelationReviewed) || item.Relations.Has(model.RelationCommented) {
				data.MaintainerWork.PRsReviewed = append(data.MaintainerWork.PRsReviewed, entry)
			}
			if item.Relations.Has(model.RelationClosed) {
				data.MaintainerWork.PRsClosedMerged = append(data.MaintainerWork.PRsClosedMerged, entry)
			}
		case model.KindIssue:
			if item.Relations.Has(model.RelationClosed) {
				data.MaintainerWork.IssuesClosed = append(data.MaintainerWork.IssuesClosed, model.ClosedIssue{
					Number: item.Number,
					URL:    item.URL,
					Title:  item.Title,
					Reason: item.Status(),
				})
			}
			engaged := item.Relations.Has(model.RelationCommented) ||
				item.Relations.Has(model.RelationMentioned) ||
				item.Relations.Has(model.RelationAssigned)
			if engaged {
				data.MaintainerWork.IssuesEngaged = append(data.MaintainerWork.IssuesEngaged, model.EngagedIssue{
					Number:       item.Number,
					URL:          item.URL,
					Title:        item.Title,
					State:        string(item.State),
					Interactions: item.Relations,
				})
			}
		}
	}

	return data
}

// dedupeByNumber collapses duplicate items that share a repository and
// number, keeping the later copy in the earlier slot.
func dedupeByNumber(items []model.Item) []model.Item {
	type key struct {
		repo   string
		number int
	}
	index := make(map[key]int)
	var out []model.Item
	for _, item := range items {
		k := key{item.Repository, item.Number}
		if pos, ok := index[k]; ok {
			out[pos] = item
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}
	return out
}
