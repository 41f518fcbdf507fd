// Package classify derives a summary, category, tags, priority and action
// type for saved content using keyword heuristics. Everything here is pure
// and total; the only I/O lives behind the Fetcher interface.
package classify

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"

	"github.com/kalambet/dolater/internal/content"
)

const (
	// MaxTags caps the number of tags returned by ExtractTags.
	MaxTags = 5
	// SummaryBudget is the character budget used when no sentence boundary is found.
	SummaryBudget = 180
	// NoSummary is returned when there is nothing to summarise.
	NoSummary = "No summary available."

	minBodyLen  = 20
	minTokenLen = 4
)

// Page carries the fields extracted from a fetched URL.
type Page struct {
	Title       string
	Description string
	MainText    string
}

// Input is everything the classifier looks at.
type Input struct {
	Title string
	Body  string
	URL   string
	Page  Page
}

// Result is a complete classification. Every field is always populated.
type Result struct {
	Summary    string             `json:"summary"`
	Category   content.Category   `json:"category"`
	Tags       []string           `json:"tags"`
	Priority   content.Priority   `json:"priority"`
	ActionType content.ActionType `json:"action_type"`
}

// Classify runs all heuristics over in.
func Classify(in Input) Result {
	full := in.fullText()
	return Result{
		Summary:    Summarize(in),
		Category:   DetectCategory(full),
		Tags:       ExtractTags(in.tagText(), in.URL),
		Priority:   DetectPriority(full),
		ActionType: DetectActionType(full),
	}
}

func (in Input) fullText() string {
	return joinNonEmpty(in.Title, in.Body, in.URL, in.Page.Title, in.Page.Description, in.Page.MainText)
}

func (in Input) tagText() string {
	return joinNonEmpty(in.Title, in.Body, in.Page.Title, in.Page.Description, in.Page.MainText)
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Summarize picks the best available short description of in.
func Summarize(in Input) string {
	if body := strings.TrimSpace(in.Body); len(body) > minBodyLen {
		return FirstSentences(body, 2)
	}
	if d := strings.TrimSpace(in.Page.Description); d != "" {
		return d
	}
	if m := strings.TrimSpace(in.Page.MainText); m != "" {
		return FirstSentences(m, 2)
	}
	if t := strings.TrimSpace(in.Title); t != "" {
		return Truncate(t, SummaryBudget)
	}
	return NoSummary
}

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)

// FirstSentences returns up to n sentences of text. Without any terminal
// punctuation the text is truncated to SummaryBudget characters instead.
func FirstSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	sentences := sentenceRe.FindAllString(text, n)
	if len(sentences) == 0 {
		return Truncate(text, SummaryBudget)
	}
	for i, s := range sentences {
		sentences[i] = strings.TrimSpace(s)
	}
	return strings.Join(sentences, " ")
}

// Truncate shortens s to at most limit user-perceived characters and
// appends "..." when anything was cut.
func Truncate(s string, limit int) string {
	if uniseg.GraphemeClusterCount(s) <= limit {
		return s
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < limit && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace) + "..."
}

// ExtractTags returns up to MaxTags of the most frequent meaningful words in
// text and the path of rawURL. Ties keep first-occurrence order.
func ExtractTags(text, rawURL string) []string {
	tokens := tokenize(text)
	tokens = append(tokens, urlTokens(rawURL)...)

	counts := make(map[string]int)
	var order []string
	for _, tok := range tokens {
		if utf8Len(tok) < minTokenLen {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > MaxTags {
		order = order[:MaxTags]
	}
	if order == nil {
		return []string{}
	}
	return order
}

func tokenize(text string) []string {
	text = strings.ToLower(norm.NFKC.String(text))
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func urlTokens(rawURL string) []string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" || rawURL == content.PlaceholderURL {
		return nil
	}
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		path = u.Path
		if u.RawQuery != "" {
			path += "?" + u.RawQuery
		}
	}
	path = strings.ToLower(norm.NFKC.String(path))
	return strings.FieldsFunc(path, func(r rune) bool {
		switch r {
		case '/', '.', '?', '=', '&', '_', '-':
			return true
		}
		return unicode.IsSpace(r)
	})
}

func utf8Len(s string) int {
	return len([]rune(s))
}

// DetectCategory applies the domain keyword rules, then the platform
// shortcuts, defaulting to Knowledge.
func DetectCategory(text string) content.Category {
	if c, ok := firstMatch(categoryRules, text); ok {
		return c
	}
	if c, ok := firstMatch(platformRules, text); ok {
		return c
	}
	return content.Knowledge
}

// DetectPriority returns High for urgent wording, Medium for deferred
// wording and Low otherwise.
func DetectPriority(text string) content.Priority {
	if p, ok := firstMatch(priorityRules, text); ok {
		return p
	}
	return content.Low
}

// DetectActionType defaults to Read when no verb list matches.
func DetectActionType(text string) content.ActionType {
	if a, ok := firstMatch(actionRules, text); ok {
		return a
	}
	return content.Read
}
