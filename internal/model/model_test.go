package model

import (
	"testing"
	"time"
)

func TestRelationSetCanonicalOrder(t *testing.T) {
	// Insertion order must not affect rendering
	a := RelationSet(0).With(RelationAssigned).With(RelationCommented).With(RelationMentioned)
	b := RelationSet(0).With(RelationMentioned).With(RelationAssigned).With(RelationCommented)

	want := "commented, mentioned, assigned"
	if a.String() != want {
		t.Errorf("a.String() = %q, want %q", a.String(), want)
	}
	if b.String() != a.String() {
		t.Errorf("order-dependent rendering: %q vs %q", a.String(), b.String())
	}
}

func TestRelationSetHas(t *testing.T) {
	s := RelationSet(0).With(RelationReviewed)
	if !s.Has(RelationReviewed) {
		t.Error("expected reviewed in set")
	}
	if s.Has(RelationClosed) {
		t.Error("did not expect closed in set")
	}
	if s.IsEmpty() {
		t.Error("set should not be empty")
	}
	if !RelationSet(0).IsEmpty() {
		t.Error("zero set should be empty")
	}
}

func TestPeriodContains(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("bad date %q: %v", s, err)
		}
		return d
	}
	stamp := func(s string) time.Time {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t.Fatalf("bad timestamp %q: %v", s, err)
		}
		return ts
	}

	tests := []struct {
		name  string
		start string
		end   string
		ts    string
		want  bool
	}{
		{"end of boundary day is inside", "2024-03-15", "2024-03-15", "2024-03-15T23:59:59Z", true},
		{"day after end is outside", "2024-03-14", "2024-03-14", "2024-03-15T23:59:59Z", false},
		{"start boundary midnight", "2024-03-15", "2024-03-20", "2024-03-15T00:00:00Z", true},
		{"before start", "2024-03-15", "2024-03-20", "2024-03-14T23:59:59Z", false},
		{"inside window", "2024-01-01", "2024-01-31", "2024-01-15T12:00:00Z", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Period{Start: day(tt.start), End: day(tt.end)}
			if got := p.Contains(stamp(tt.ts)); got != tt.want {
				t.Errorf("Contains(%s) in [%s, %s] = %v, want %v", tt.ts, tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestItemStatus(t *testing.T) {
	merged := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		item Item
		want string
	}{
		{"merged wins over state", Item{MergedAt: &merged, State: StateClosed}, "merged"},
		{"merged with open state", Item{MergedAt: &merged, State: StateOpen}, "merged"},
		{"closed without merge", Item{State: StateClosed}, "closed"},
		{"open", Item{State: StateOpen}, "open"},
		{"no state defaults to open", Item{}, "open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Status(); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}
