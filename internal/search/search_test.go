package search

import (
	"slices"
	"testing"
	"time"

	"github.com/kalambet/dolater/internal/content"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func fixture() []content.Item {
	return []content.Item{
		{ID: "1", Title: "Morning Yoga Flow", Category: content.Fitness, Platform: "YouTube", ActionType: content.Watch, DateAdded: now},
		{ID: "2", Title: "Index funds explained", Summary: "Low-cost investing", Category: content.Finance, Platform: "Instagram", ActionType: content.Read, DateAdded: now.Add(-3 * day)},
		{ID: "3", Title: "HIIT workout", Category: content.Fitness, Platform: "Instagram", ActionType: content.Try, DateAdded: now.Add(-20 * day), Tags: []string{"cardio"}},
		{ID: "4", Title: "Team rituals", Category: content.Work, ActionType: content.Read, DateAdded: now.Add(-45 * day), UserNotes: "ask about retro format"},
		{ID: "5", Title: "Podcast notes", Category: content.Knowledge, ActionType: content.Learn, DateAdded: now.Add(-6*day - time.Hour), Transcript: "we discuss stoicism"},
	}
}

func ids(items []content.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestSearchText(t *testing.T) {
	items := fixture()
	tests := []struct {
		query string
		want  []string
	}{
		{"yoga", []string{"1"}},
		{"YOGA flow", []string{"1"}},
		{"investing", []string{"2"}},
		{"cardio", []string{"3"}},
		{"retro", []string{"4"}},
		{"stoicism", []string{"5"}},
		{"fitness", []string{"1", "3"}},
		{"  ", []string{"1", "2", "3", "4", "5"}},
		{"nothing matches this", []string{}},
	}
	for _, tt := range tests {
		got := ids(Search(items, tt.query, DefaultFilters(), now))
		if !slices.Equal(got, tt.want) {
			t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestSearchTitleSubstringAlwaysFound(t *testing.T) {
	items := fixture()
	for _, it := range items {
		for _, sub := range []string{it.Title, it.Title[:3], it.Title[len(it.Title)-4:]} {
			got := ids(Search(items, sub, DefaultFilters(), now))
			if !slices.Contains(got, it.ID) {
				t.Errorf("Search(%q) = %v, missing %s", sub, got, it.ID)
			}
		}
	}
}

func TestSearchCategoryFilter(t *testing.T) {
	items := fixture()
	f := DefaultFilters()
	f.Category = "fitness"
	if got := ids(Search(items, "", f, now)); !slices.Equal(got, []string{"1", "3"}) {
		t.Errorf("category filter = %v", got)
	}

	f.DateRange = Week
	if got := ids(Search(items, "", f, now)); !slices.Equal(got, []string{"1"}) {
		t.Errorf("category+week filter = %v", got)
	}
}

func TestSearchFiltersConjunctive(t *testing.T) {
	items := fixture()
	f := DefaultFilters()
	f.Platform = "Instagram"
	if got := ids(Search(items, "", f, now)); !slices.Equal(got, []string{"2", "3"}) {
		t.Errorf("platform filter = %v", got)
	}
	f.ActionType = "try"
	if got := ids(Search(items, "", f, now)); !slices.Equal(got, []string{"3"}) {
		t.Errorf("platform+action filter = %v", got)
	}
	if got := ids(Search(items, "index", f, now)); len(got) != 0 {
		t.Errorf("text+filters = %v, want none", got)
	}
}

func TestSearchDateRanges(t *testing.T) {
	items := fixture()
	tests := []struct {
		rng  string
		want []string
	}{
		{Today, []string{"1"}},
		{Week, []string{"1", "2", "5"}},
		{Month, []string{"1", "2", "3", "5"}},
		{All, []string{"1", "2", "3", "4", "5"}},
	}
	for _, tt := range tests {
		f := DefaultFilters()
		f.DateRange = tt.rng
		if got := ids(Search(items, "", f, now)); !slices.Equal(got, tt.want) {
			t.Errorf("DateRange %q = %v, want %v", tt.rng, got, tt.want)
		}
	}
}

func TestSearchFutureStampedItems(t *testing.T) {
	items := []content.Item{
		{ID: "skew", DateAdded: now.Add(time.Hour)},
		{ID: "far", DateAdded: now.Add(10 * day)},
	}
	f := DefaultFilters()
	f.DateRange = Today
	if got := ids(Search(items, "", f, now)); !slices.Equal(got, []string{"skew"}) {
		t.Errorf("today = %v, want [skew]", got)
	}
	f.DateRange = Week
	if got := ids(Search(items, "", f, now)); !slices.Equal(got, []string{"skew", "far"}) {
		t.Errorf("week = %v, want both", got)
	}
}

func TestSearchQueryAsTyped(t *testing.T) {
	items := []content.Item{
		{ID: "word", Title: "Concatenate strings"},
		{ID: "mid", Title: "A cat cafe"},
	}
	if got := ids(Search(items, " cat", DefaultFilters(), now)); !slices.Equal(got, []string{"mid"}) {
		t.Errorf("Search(\" cat\") = %v, want [mid]", got)
	}
	if got := Search(items, "   ", DefaultFilters(), now); len(got) != 2 {
		t.Errorf("blank query filtered items: %v", ids(got))
	}
	if got := Highlight("Adopt a cat", "cat "); got != "Adopt a cat" {
		t.Errorf("Highlight with trailing space = %q", got)
	}
}

func TestSearchUnknownFilterValuesMeanAll(t *testing.T) {
	items := fixture()
	f := Filters{Platform: "ALL", Category: "pets", DateRange: "decade", ActionType: "dance"}
	if got := Search(items, "", f, now); len(got) != len(items) {
		t.Errorf("unknown filter values excluded items: %v", ids(got))
	}
	if got := Search(items, "", Filters{}, now); len(got) != len(items) {
		t.Errorf("zero Filters excluded items: %v", ids(got))
	}
}

func TestSearchDoesNotMutateInput(t *testing.T) {
	items := fixture()
	before := ids(items)
	out := Search(items, "fitness", DefaultFilters(), now)
	if len(out) > 0 {
		out[0].Title = "changed"
	}
	if !slices.Equal(ids(items), before) || items[0].Title != "Morning Yoga Flow" {
		t.Error("Search modified its input")
	}
}

func TestAgeInDays(t *testing.T) {
	tests := []struct {
		added time.Time
		want  int
	}{
		{now, 0},
		{now.Add(-time.Hour), 1},
		{now.Add(-day), 1},
		{now.Add(-day - time.Second), 2},
		{now.Add(time.Hour), 0},
		{now.Add(10 * day), -10},
	}
	for _, tt := range tests {
		if got := AgeInDays(tt.added, now); got != tt.want {
			t.Errorf("AgeInDays(%v) = %d, want %d", tt.added, got, tt.want)
		}
	}
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		text, query, want string
	}{
		{"I love cats and CATS", "cats", "I love <mark>cats</mark> and <mark>CATS</mark>"},
		{"aaaa", "aa", "<mark>aa</mark><mark>aa</mark>"},
		{"cost is $5.00 (approx)", "$5.00 (", "cost is <mark>$5.00 (</mark>approx)"},
		{"no match here", "zebra", "no match here"},
	}
	for _, tt := range tests {
		if got := Highlight(tt.text, tt.query); got != tt.want {
			t.Errorf("Highlight(%q, %q) = %q, want %q", tt.text, tt.query, got, tt.want)
		}
	}
}

func TestHighlightEmptyQuery(t *testing.T) {
	for _, text := range []string{"", "anything", "<b>markup</b>", "  spaced  "} {
		for _, q := range []string{"", "   "} {
			if got := Highlight(text, q); got != text {
				t.Errorf("Highlight(%q, %q) = %q, want unchanged", text, q, got)
			}
		}
	}
}

func TestHighlightFunc(t *testing.T) {
	got := HighlightFunc("Go go GO", "go", func(m string) string { return "[" + m + "]" })
	if got != "[Go] [go] [GO]" {
		t.Errorf("HighlightFunc = %q", got)
	}
}
