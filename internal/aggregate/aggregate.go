// Package aggregate merges and orders the item lists produced by the fetch
// strategies.
package aggregate

import (
	"sort"

	"github.com/allenhutchison/github-activity-reporter/internal/model"
)

// Dedupe merges items from multiple strategies into one list keyed by URL.
// When the same URL appears more than once the later occurrence wins, so
// callers pass strategy results in ascending order of specificity. The
// surviving item keeps the position of the first occurrence.
func Dedupe(lists ...[]model.Item) []model.Item {
	index := make(map[string]int)
	var items []model.Item
	for _, list := range lists {
		for _, item := range list {
			if pos, ok := index[item.URL]; ok {
				items[pos] = item
				continue
			}
			index[item.URL] = len(items)
			items = append(items, item)
		}
	}
	return items
}

// SortInbox orders items by repository name, then by update time oldest
// first, so the most recent activity sits at the bottom of each group. The
// sort is stable: equal items keep their merge order.
func SortInbox(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Repository != items[j].Repository {
			return items[i].Repository < items[j].Repository
		}
		return items[i].UpdatedAt.Before(items[j].UpdatedAt)
	})
}
