// Package search filters saved items by free text and structured filters,
// highlights matches and keeps the recent-search list.
package search

import (
	"regexp"
	"strings"
	"time"

	"github.com/kalambet/dolater/internal/content"
)

// All disables a filter.
const All = "all"

// Date range filter values.
const (
	Today = "today"
	Week  = "week"
	Month = "month"
)

const day = 24 * time.Hour

// Filters are the structured search constraints. Every field is either All
// or a concrete value; anything unrecognised behaves like All.
type Filters struct {
	Platform   string `json:"platform"`
	Category   string `json:"category"`
	DateRange  string `json:"date_range"`
	ActionType string `json:"action_type"`
}

// DefaultFilters returns filters that match everything.
func DefaultFilters() Filters {
	return Filters{Platform: All, Category: All, DateRange: All, ActionType: All}
}

// normalized maps unknown or empty filter values to All.
func (f Filters) normalized() Filters {
	out := DefaultFilters()
	if p := strings.TrimSpace(f.Platform); p != "" && !strings.EqualFold(p, All) {
		out.Platform = p
	}
	if c := content.Category(strings.ToLower(strings.TrimSpace(f.Category))); c.Valid() {
		out.Category = string(c)
	}
	switch d := strings.ToLower(strings.TrimSpace(f.DateRange)); d {
	case Today, Week, Month:
		out.DateRange = d
	}
	if a := strings.ToLower(strings.TrimSpace(f.ActionType)); a != "" && content.ParseActionType(a) == content.ActionType(a) {
		out.ActionType = a
	}
	return out
}

// Search returns the items matching query and filters, in input order. The
// text match is skipped for a blank query; the structured filters always
// apply. items is never modified.
func Search(items []content.Item, query string, filters Filters, now time.Time) []content.Item {
	q := strings.ToLower(query)
	if strings.TrimSpace(q) == "" {
		q = ""
	}
	f := filters.normalized()

	out := make([]content.Item, 0, len(items))
	for _, it := range items {
		if q != "" && !strings.Contains(corpus(it), q) {
			continue
		}
		if !f.match(it, now) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func corpus(it content.Item) string {
	parts := make([]string, 0, 5+len(it.Tags))
	parts = append(parts, it.Title, it.Summary, content.ParseCategory(string(it.Category)).Label(), it.UserNotes, it.Transcript)
	parts = append(parts, it.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

func (f Filters) match(it content.Item, now time.Time) bool {
	if f.Platform != All && it.Platform != f.Platform {
		return false
	}
	if f.Category != All && string(it.Category) != f.Category {
		return false
	}
	if f.ActionType != All && string(it.ActionType) != f.ActionType {
		return false
	}
	switch f.DateRange {
	case Today:
		return AgeInDays(it.DateAdded, now) == 0
	case Week:
		return AgeInDays(it.DateAdded, now) <= 7
	case Month:
		return AgeInDays(it.DateAdded, now) <= 30
	}
	return true
}

// AgeInDays returns now minus added in days, rounded up. Items stamped in
// the future have a zero or negative age.
func AgeInDays(added, now time.Time) int {
	d := now.Sub(added)
	days := int(d / day)
	if d%day > 0 {
		days++
	}
	return days
}

// Highlight wraps every case-insensitive occurrence of query in a <mark>
// element, preserving the original casing.
func Highlight(text, query string) string {
	return HighlightFunc(text, query, func(m string) string {
		return "<mark>" + m + "</mark>"
	})
}

// HighlightFunc is Highlight with a caller-supplied wrapper, for targets
// other than HTML.
func HighlightFunc(text, query string, wrap func(string) string) string {
	if strings.TrimSpace(query) == "" || text == "" {
		return text
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(query))
	return re.ReplaceAllStringFunc(text, wrap)
}
