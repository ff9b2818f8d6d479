package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allenhutchison/github-activity-reporter/internal/model"
)

func item(url, repo string, updated time.Time, rels ...model.Relation) model.Item {
	it := model.Item{URL: url, Repository: repo, UpdatedAt: updated}
	for _, r := range rels {
		it.Relations = it.Relations.With(r)
	}
	return it
}

func TestDedupeLastWriteWins(t *testing.T) {
	at := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

	watch := []model.Item{
		item("https://github.com/acme/widgets/issues/1", "acme/widgets", at),
		item("https://github.com/acme/widgets/issues/2", "acme/widgets", at),
	}
	mentions := []model.Item{
		item("https://github.com/acme/widgets/issues/1", "acme/widgets", at, model.RelationMentioned),
	}

	items := Dedupe(watch, mentions)
	require.Len(t, items, 2)

	// The mention copy replaces the watch copy but keeps its slot.
	assert.Equal(t, "https://github.com/acme/widgets/issues/1", items[0].URL)
	assert.True(t, items[0].Relations.Has(model.RelationMentioned))
	assert.Equal(t, "https://github.com/acme/widgets/issues/2", items[1].URL)
}

func TestDedupeURLsAreUnique(t *testing.T) {
	at := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	a := []model.Item{
		item("u1", "r", at),
		item("u2", "r", at),
		item("u1", "r", at),
	}
	b := []model.Item{
		item("u2", "r", at),
		item("u3", "r", at),
	}

	items := Dedupe(a, b)
	seen := make(map[string]bool)
	for _, it := range items {
		assert.False(t, seen[it.URL], "duplicate URL %q", it.URL)
		seen[it.URL] = true
	}
	assert.Len(t, items, 3)
}

func TestSortInboxGroupsByRepoOldestFirst(t *testing.T) {
	t1 := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

	items := []model.Item{
		item("u1", "zeta/zz", t1),
		item("u2", "acme/widgets", t3),
		item("u3", "acme/widgets", t1),
		item("u4", "acme/widgets", t2),
	}
	SortInbox(items)

	want := []string{"u3", "u4", "u2", "u1"}
	for i, url := range want {
		assert.Equal(t, url, items[i].URL)
	}
}

func TestSortInboxIsStable(t *testing.T) {
	at := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	items := []model.Item{
		item("first", "acme/widgets", at),
		item("second", "acme/widgets", at),
	}
	SortInbox(items)

	assert.Equal(t, "first", items[0].URL)
	assert.Equal(t, "second", items[1].URL)
}
