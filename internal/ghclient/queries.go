package ghclient

import (
	"embed"
	"fmt"
)

//go:embed queries/*.graphql
var queryFiles embed.FS

// Query documents loaded at init time. Queries are parameterized with
// GraphQL variables and sent verbatim; no string splicing.
var (
	watchQuery      string
	mentionsQuery   string
	authoredQuery   string
	maintainerQuery string
	viewerQuery     string
)

func init() {
	watchQuery = mustLoadQuery("queries/watch.graphql")
	mentionsQuery = mustLoadQuery("queries/mentions.graphql")
	authoredQuery = mustLoadQuery("queries/authored.graphql")
	maintainerQuery = mustLoadQuery("queries/maintainer.graphql")
	viewerQuery = mustLoadQuery("queries/viewer.graphql")
}

func mustLoadQuery(name string) string {
	data, err := queryFiles.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to load %s: %v", name, err))
	}
	return string(data)
}

// WatchQuery returns the per-repository recent-activity query used by the
// full-watch strategy. Variables: owner, name.
func WatchQuery() string { return watchQuery }

// MentionsQuery returns the federated search query used by the mention-watch
// strategy. Variables: query (a GitHub search string).
func MentionsQuery() string { return mentionsQuery }

// AuthoredQuery returns the per-repository authored-activity query.
// Variables: owner, name, since, author.
func AuthoredQuery() string { return authoredQuery }

// MaintainerQuery returns the per-repository recently-updated query with
// review/comment/timeline sub-lists. Variables: owner, name.
func MaintainerQuery() string { return maintainerQuery }

// ViewerQuery returns the authenticated-user login query.
func ViewerQuery() string { return viewerQuery }
