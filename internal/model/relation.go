package model

import "strings"

// Relation tags how the requesting user is connected to an item. The set of
// variants is closed; ordering below is the canonical display order.
type Relation uint8

const (
	RelationCommented Relation = 1 << iota
	RelationMentioned
	RelationAssigned
	RelationReviewed
	RelationClosed
	RelationAuthored
)

// allRelations lists every relation in canonical order. Iteration over this
// slice is what keeps rendered tag lists stable across runs.
var allRelations = []struct {
	rel  Relation
	name string
}{
	{RelationCommented, "commented"},
	{RelationMentioned, "mentioned"},
	{RelationAssigned, "assigned"},
	{RelationReviewed, "reviewed"},
	{RelationClosed, "closed"},
	{RelationAuthored, "authored"},
}

// RelationSet is a small ordered set of relations stored as a bitmask.
// Insertion order never matters: Tags always returns canonical order.
type RelationSet uint8

// With returns a copy of the set with rel added.
func (s RelationSet) With(rel Relation) RelationSet {
	return s | RelationSet(rel)
}

// Has reports whether rel is in the set.
func (s RelationSet) Has(rel Relation) bool {
	return s&RelationSet(rel) != 0
}

// IsEmpty reports whether no relation is set.
func (s RelationSet) IsEmpty() bool {
	return s == 0
}

// Union merges two sets.
func (s RelationSet) Union(other RelationSet) RelationSet {
	return s | other
}

// Tags returns the relation names in canonical order.
func (s RelationSet) Tags() []string {
	var tags []string
	for _, r := range allRelations {
		if s.Has(r.rel) {
			tags = append(tags, r.name)
		}
	}
	return tags
}

// String renders the set as a comma-separated list, e.g. "commented, assigned".
func (s RelationSet) String() string {
	return strings.Join(s.Tags(), ", ")
}
