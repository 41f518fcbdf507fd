// Package assistant implements Genie, the rule-based assistant that routes
// an utterance through the intent table and answers from the user's saves.
package assistant

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/kalambet/dolater/internal/content"
	"github.com/kalambet/dolater/internal/intent"
)

// Reply is the assistant's answer to one utterance.
type Reply struct {
	Kind        intent.Kind `json:"kind"`
	Response    string      `json:"response"`
	Suggestions []string    `json:"suggestions"`
}

// Engine answers utterances. The random source only picks between
// equivalent phrasings; it never changes which kind of reply is produced.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns an Engine seeded with seed.
func New(seed uint64) *Engine {
	return NewWithSource(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewWithSource returns an Engine drawing phrasing choices from src.
func NewWithSource(src rand.Source) *Engine {
	return &Engine{rng: rand.New(src)}
}

// NewDefault returns an Engine seeded from the wall clock.
func NewDefault() *Engine {
	return New(uint64(time.Now().UnixNano()))
}

// Respond dispatches utterance and builds a reply from items. It does no
// I/O and never returns an empty response.
func (e *Engine) Respond(utterance string, items []content.Item) Reply {
	kind := intent.Match(utterance)
	r := e.dispatch(kind, items)
	r.Kind = kind
	if r.Response == "" {
		r.Response = e.pick(intent.Fallback)
	}
	if r.Suggestions == nil {
		r.Suggestions = GeneralSuggestions()
	}
	return r
}

func (e *Engine) dispatch(kind intent.Kind, items []content.Item) Reply {
	switch kind {
	case intent.Greeting:
		return Reply{Response: e.pick(kind), Suggestions: GeneralSuggestions()}
	case intent.Help:
		return Reply{Response: helpText, Suggestions: GeneralSuggestions()}
	case intent.Plan:
		return planReply(items)
	case intent.Summary:
		return summaryReply(items)
	case intent.Workout:
		return categoryReply(content.Fitness, items)
	case intent.Finance:
		return categoryReply(content.Finance, items)
	case intent.Recipe:
		return recipeReply(items)
	case intent.Learn:
		return categoryReply(content.Knowledge, items)
	}
	if s, ok := topicSuggestions[kind]; ok {
		return Reply{Response: e.pick(kind), Suggestions: clone(s)}
	}
	return Reply{Response: e.pick(intent.Fallback), Suggestions: GeneralSuggestions()}
}

func (e *Engine) pick(kind intent.Kind) string {
	p, ok := pools[kind]
	if !ok || len(p) == 0 {
		p = pools[intent.Fallback]
	}
	e.mu.Lock()
	i := e.rng.IntN(len(p))
	e.mu.Unlock()
	return p[i]
}
