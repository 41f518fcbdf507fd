package content

import (
	"strings"
	"time"
)

// PlaceholderURL marks an item that was saved without a source link.
const PlaceholderURL = "#"

// Category is the fixed set of buckets a saved item can live in.
type Category string

const (
	Fitness   Category = "fitness"
	Finance   Category = "finance"
	Knowledge Category = "knowledge"
	Personal  Category = "personal"
	Work      Category = "work"
)

var categoryLabels = map[Category]string{
	Fitness:   "Fitness",
	Finance:   "Finance",
	Knowledge: "Knowledge",
	Personal:  "Personal",
	Work:      "Work",
}

// Categories returns every category in canonical order.
func Categories() []Category {
	return []Category{Fitness, Finance, Knowledge, Personal, Work}
}

// ParseCategory maps s onto a known category. Unknown or empty input yields Knowledge.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categoryLabels[c]; ok {
		return c
	}
	return Knowledge
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display label for c.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return categoryLabels[Knowledge]
}

// Priority is how soon an item deserves attention.
type Priority string

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

// ParsePriority clamps s to a known priority, defaulting to Low.
func ParsePriority(s string) Priority {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case Low, Medium, High:
		return p
	}
	return Low
}

// ActionType describes what the user is expected to do with an item.
type ActionType string

const (
	Read  ActionType = "read"
	Watch ActionType = "watch"
	Try   ActionType = "try"
	Buy   ActionType = "buy"
	Learn ActionType = "learn"
)

// ParseActionType clamps s to a known action type, defaulting to Read.
func ParseActionType(s string) ActionType {
	switch a := ActionType(strings.ToLower(strings.TrimSpace(s))); a {
	case Read, Watch, Try, Buy, Learn:
		return a
	}
	return Read
}

// Item is a bookmarked piece of content together with its classification.
type Item struct {
	ID           string     `json:"id" yaml:"id"`
	UserID       string     `json:"user_id,omitempty" yaml:"user_id"`
	Title        string     `json:"title" yaml:"title"`
	Summary      string     `json:"summary" yaml:"summary"`
	URL          string     `json:"url" yaml:"url"`
	Category     Category   `json:"category" yaml:"category"`
	Tags         []string   `json:"tags" yaml:"tags"`
	DateAdded    time.Time  `json:"date_added" yaml:"date_added"`
	Priority     Priority   `json:"priority" yaml:"priority"`
	HasNotes     bool       `json:"has_notes" yaml:"has_notes"`
	HasChecklist bool       `json:"has_checklist" yaml:"has_checklist"`
	ReminderSet  bool       `json:"reminder_set" yaml:"reminder_set"`
	Platform     string     `json:"platform,omitempty" yaml:"platform"`
	ActionType   ActionType `json:"action_type" yaml:"action_type"`
	UserNotes    string     `json:"user_notes,omitempty" yaml:"user_notes"`
	Transcript   string     `json:"transcript,omitempty" yaml:"transcript"`
	IsCompleted  bool       `json:"is_completed" yaml:"is_completed"`
}

// HasURL reports whether the item points at a real link.
func (it Item) HasURL() bool {
	u := strings.TrimSpace(it.URL)
	return u != "" && u != PlaceholderURL
}

// Normalize clamps the enum fields and fills defaults. It is applied wherever
// item data crosses into the engine from outside.
func (it Item) Normalize() Item {
	it.Category = ParseCategory(string(it.Category))
	it.Priority = ParsePriority(string(it.Priority))
	it.ActionType = ParseActionType(string(it.ActionType))
	if strings.TrimSpace(it.URL) == "" {
		it.URL = PlaceholderURL
	}
	if it.Tags == nil {
		it.Tags = []string{}
	}
	it.HasNotes = it.HasNotes || strings.TrimSpace(it.UserNotes) != ""
	return it
}
