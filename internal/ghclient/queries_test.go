package ghclient

import (
	"strings"
	"testing"
)

func TestWatchQueryFields(t *testing.T) {
	query := WatchQuery()

	required := []string{
		"repository(owner: $owner, name: $name)",
		"issues(first: 20",
		"pullRequests(first: 20",
		"discussions(first: 20",
		"UPDATED_AT",
		"updatedAt",
		"comments(last: 1)",
		"reviews(last: 1)",
		"nameWithOwner",
	}
	for _, field := range required {
		if !strings.Contains(query, field) {
			t.Errorf("watch query should contain %q", field)
		}
	}
}

func TestMentionsQueryFields(t *testing.T) {
	query := MentionsQuery()

	required := []string{
		"search(query: $query, type: ISSUE, first: 50)",
		"... on Issue",
		"... on PullRequest",
		"reviews(last: 1)",
	}
	for _, field := range required {
		if !strings.Contains(query, field) {
			t.Errorf("mentions query should contain %q", field)
		}
	}
}

func TestAuthoredQueryFields(t *testing.T) {
	query := AuthoredQuery()

	required := []string{
		"filterBy: {since: $since, createdBy: $author}",
		"pullRequests(first: 50",
		"commits(last: 20)",
		"oid",
		"mergedAt",
	}
	for _, field := range required {
		if !strings.Contains(query, field) {
			t.Errorf("authored query should contain %q", field)
		}
	}
}

func TestMaintainerQueryFields(t *testing.T) {
	query := MaintainerQuery()

	required := []string{
		"issues(first: 50",
		"pullRequests(first: 50",
		"assignees(first: 10)",
		"comments(last: 20)",
		"reviews(last: 20)",
		"timelineItems(last: 20",
		"CLOSED_EVENT",
		"MERGED_EVENT",
		"actor",
	}
	for _, field := range required {
		if !strings.Contains(query, field) {
			t.Errorf("maintainer query should contain %q", field)
		}
	}
}
