package assistant

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/kalambet/dolater/internal/content"
	"github.com/kalambet/dolater/internal/intent"
)

func items(pairs ...any) []content.Item {
	// pairs alternates category and count.
	var out []content.Item
	for i := 0; i < len(pairs); i += 2 {
		c := pairs[i].(content.Category)
		n := pairs[i+1].(int)
		for j := range n {
			out = append(out, content.Item{
				ID:       fmt.Sprintf("%s-%d", c, j),
				Title:    fmt.Sprintf("%s item %d", c, j+1),
				Category: c,
			})
		}
	}
	return out
}

func TestGreeting(t *testing.T) {
	e := New(1)
	r := e.Respond("hi", nil)
	if r.Kind != intent.Greeting {
		t.Fatalf("Kind = %q", r.Kind)
	}
	if !slices.Contains(Pool(intent.Greeting), r.Response) {
		t.Errorf("response %q is not a greeting", r.Response)
	}
	if len(r.Suggestions) != 4 {
		t.Errorf("got %d suggestions, want 4", len(r.Suggestions))
	}
}

func TestHelp(t *testing.T) {
	r := New(1).Respond("what can you do?", nil)
	if r.Response != helpText {
		t.Errorf("unexpected help response %q", r.Response)
	}
	if !slices.Equal(r.Suggestions, GeneralSuggestions()) {
		t.Errorf("suggestions = %v", r.Suggestions)
	}
}

func TestPlanEmpty(t *testing.T) {
	r := New(1).Respond("create a plan from my saves", nil)
	if !strings.Contains(r.Response, "don't see any saved content") {
		t.Errorf("response should explain nothing is saved: %q", r.Response)
	}
	if !slices.Contains(r.Suggestions, "Save some content first") {
		t.Errorf("suggestions = %v", r.Suggestions)
	}
}

func TestPlanDominantCategory(t *testing.T) {
	r := New(1).Respond("create a plan", items(content.Fitness, 4, content.Finance, 1))
	if !strings.Contains(r.Response, "I notice you have a lot of fitness content") {
		t.Errorf("missing dominant note: %q", r.Response)
	}
	if !strings.Contains(r.Response, "Here's your fitness action plan") {
		t.Errorf("missing fitness template: %q", r.Response)
	}
	if !strings.Contains(r.Response, "fitness item 1, fitness item 2") {
		t.Errorf("template should name the first two titles: %q", r.Response)
	}
	if !slices.Equal(r.Suggestions, categorySuggestions[content.Fitness]) {
		t.Errorf("suggestions = %v", r.Suggestions)
	}
}

func TestPlanMixed(t *testing.T) {
	r := New(1).Respond("create a plan", items(content.Fitness, 2, content.Finance, 2))
	if !strings.Contains(r.Response, "diverse content across fitness, finance") {
		t.Errorf("expected mixed template: %q", r.Response)
	}
	if strings.Contains(r.Response, "I notice you have a lot of") {
		t.Error("no category should be dominant")
	}
	if !slices.Equal(r.Suggestions, defaultSuggestions) {
		t.Errorf("suggestions = %v", r.Suggestions)
	}
}

func TestPlanGenericTemplate(t *testing.T) {
	r := New(1).Respond("organize my stuff", items(content.Work, 3))
	if !strings.Contains(r.Response, "Here's an action plan for your work content") {
		t.Errorf("expected generic template: %q", r.Response)
	}
	if !strings.Contains(r.Response, "Go through your 3 saved items") {
		t.Errorf("generic template should count items: %q", r.Response)
	}
}

func TestDominantTieGoesToFirstSeen(t *testing.T) {
	g, ok := dominant(groupByCategory(items(content.Finance, 3, content.Fitness, 3)))
	if !ok || g.category != content.Finance {
		t.Errorf("dominant = %q (%v), want finance", g.category, ok)
	}
}

func TestSummary(t *testing.T) {
	saved := items(content.Fitness, 4, content.Finance, 2, content.Work, 1)
	r := New(1).Respond("Summarize my content", saved)

	if r.Kind != intent.Summary {
		t.Fatalf("Kind = %q", r.Kind)
	}
	for _, want := range []string{
		"Here's a summary of your 7 saved items",
		"**FITNESS** (4 items):",
		"**FINANCE** (2 items):",
		"**WORK** (1 items):",
		"• ...and 1 more",
	} {
		if !strings.Contains(r.Response, want) {
			t.Errorf("response missing %q:\n%s", want, r.Response)
		}
	}
	if strings.Contains(r.Response, "fitness item 4") {
		t.Error("at most three titles per category should be listed")
	}
	want := []string{"Create fitness plan", "Create finance plan", "Create work plan"}
	if !slices.Equal(r.Suggestions, want) {
		t.Errorf("suggestions = %v, want %v", r.Suggestions, want)
	}
}

func TestSummaryEmpty(t *testing.T) {
	r := New(1).Respond("give me a recap", nil)
	if !strings.Contains(r.Response, "don't see any saves yet") {
		t.Errorf("response = %q", r.Response)
	}
}

func TestCategoryByTag(t *testing.T) {
	saved := []content.Item{
		{Title: "Stretching guide", Category: content.Knowledge, Tags: []string{"Fitness-Tips"}},
		{Title: "Tax forms", Category: content.Finance},
	}
	r := New(1).Respond("build me a gym session", saved)
	if r.Kind != intent.Workout {
		t.Fatalf("Kind = %q", r.Kind)
	}
	if !strings.Contains(r.Response, "I found 1 fitness-related items!") {
		t.Errorf("response = %q", r.Response)
	}
	if !strings.Contains(r.Response, "Stretching guide") {
		t.Error("template should reference the matched title")
	}
}

func TestCategoryEmpty(t *testing.T) {
	r := New(1).Respond("I want to invest better", items(content.Fitness, 2))
	if !strings.Contains(r.Response, "I don't see any finance content") {
		t.Errorf("response = %q", r.Response)
	}
	if !slices.Contains(r.Suggestions, "Save finance content") {
		t.Errorf("suggestions = %v", r.Suggestions)
	}
}

func TestLearnUsesKnowledgeTemplate(t *testing.T) {
	r := New(1).Respond("I need to study for an exam", items(content.Knowledge, 1))
	if !strings.Contains(r.Response, "Here's your learning plan") {
		t.Errorf("response = %q", r.Response)
	}
}

func TestRecipe(t *testing.T) {
	saved := []content.Item{
		{Title: "Best lasagna RECIPE", Category: content.Personal},
		{Title: "Sunday brunch", Category: content.Personal, Tags: []string{"Food"}},
		{Title: "History of the recipe book", Category: content.Knowledge},
		{Title: "Morning journal", Category: content.Personal, Tags: []string{"habits"}},
	}
	r := New(1).Respond("dinner ideas please", saved)
	if r.Kind != intent.Recipe {
		t.Fatalf("Kind = %q", r.Kind)
	}
	if !strings.Contains(r.Response, "I found 2 recipe-related saves") {
		t.Errorf("response = %q", r.Response)
	}
	if strings.Contains(r.Response, "History of the recipe book") || strings.Contains(r.Response, "Morning journal") {
		t.Error("non-recipe items leaked into the reply")
	}
	if strings.Contains(r.Response, "more!") {
		t.Error("no overflow line expected for two recipes")
	}
}

func TestRecipeOverflowAndEmpty(t *testing.T) {
	var saved []content.Item
	for i := range 5 {
		saved = append(saved, content.Item{Title: fmt.Sprintf("Recipe %d", i), Category: content.Personal})
	}
	r := New(1).Respond("meal prep", saved)
	if !strings.Contains(r.Response, "• ...and 2 more!") {
		t.Errorf("response = %q", r.Response)
	}

	r = New(1).Respond("meal prep", items(content.Work, 2))
	if !strings.Contains(r.Response, "I don't see any recipe content") {
		t.Errorf("response = %q", r.Response)
	}
}

func TestTopicResponses(t *testing.T) {
	tests := []struct {
		utterance string
		kind      intent.Kind
	}{
		{"be more productive", intent.Productivity},
		{"my article backlog", intent.Reading},
		{"set an alarm", intent.Reminder},
		{"new year resolution", intent.Goals},
		{"I need some energy", intent.Motivation},
		{"self-improvement tips", intent.SelfImprovement},
		{"some words of wisdom", intent.Quote},
		{"add to my todo list", intent.Action},
	}
	e := New(7)
	for _, tt := range tests {
		r := e.Respond(tt.utterance, nil)
		if r.Kind != tt.kind {
			t.Errorf("Respond(%q).Kind = %q, want %q", tt.utterance, r.Kind, tt.kind)
			continue
		}
		if !slices.Contains(Pool(tt.kind), r.Response) {
			t.Errorf("Respond(%q) = %q, not from the %s pool", tt.utterance, r.Response, tt.kind)
		}
		if len(r.Suggestions) == 0 {
			t.Errorf("Respond(%q) returned no suggestions", tt.utterance)
		}
	}
}

func TestFallback(t *testing.T) {
	r := New(3).Respond("zzz", nil)
	if !slices.Contains(Pool(intent.Fallback), r.Response) {
		t.Errorf("response = %q", r.Response)
	}
	if len(r.Suggestions) != 4 {
		t.Errorf("suggestions = %v", r.Suggestions)
	}
}

func TestSeedOnlyAffectsPhrasing(t *testing.T) {
	for seed := range uint64(20) {
		r := New(seed).Respond("hello", nil)
		if r.Kind != intent.Greeting || !slices.Contains(Pool(intent.Greeting), r.Response) {
			t.Fatalf("seed %d produced %q", seed, r.Response)
		}
	}
}

func TestResponsesNeverEmpty(t *testing.T) {
	e := NewDefault()
	utterances := []string{"", "hi", "help", "plan", "summary", "gym", "budget", "recipe", "learn", "focus", "book", "remind", "goal", "quote", "task", "???"}
	for _, u := range utterances {
		for _, saved := range [][]content.Item{nil, items(content.Personal, 4)} {
			if r := e.Respond(u, saved); r.Response == "" || r.Suggestions == nil {
				t.Errorf("Respond(%q) returned an empty reply", u)
			}
		}
	}
}

func TestRespondDoesNotMutateItems(t *testing.T) {
	saved := items(content.Fitness, 3)
	saved[0].Tags = []string{"a"}
	before := fmt.Sprint(saved)
	New(1).Respond("create a plan", saved)
	New(1).Respond("summarize", saved)
	if fmt.Sprint(saved) != before {
		t.Error("Respond mutated its input")
	}
}
