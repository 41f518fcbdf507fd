// Package chat keeps a Genie conversation and decides which backend answers
// each turn. The rule-based engine is always available; an LLM backend is
// used first when configured and falls back to the engine on failure.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/dolater/internal/assistant"
	"github.com/kalambet/dolater/internal/content"
	"github.com/kalambet/dolater/internal/llm"
)

// ErrEmptyMessage is returned by Send for blank input.
var ErrEmptyMessage = errors.New("chat: empty message")

// Role of a message author.
type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
)

const (
	Greeting = "Hi! I'm your DoLater AI Assistant. I can help you create action plans, build habits, and turn your saved content into achievable goals. What would you like to work on today?"

	// LoadFailure is shown when the user's saves could not be read.
	LoadFailure = "I'm experiencing technical difficulties. Please try again in a moment, or explore your saved content while I recover."

	configCause    = "API key configuration issue. Answering from your saves without the AI service for now."
	rateLimitCause = "Rate limit reached. Please try again in a moment."
	transientCause = "I'm having trouble connecting right now. Please try again in a moment, or explore your saved content while I recover."

	planFallback     = "I'd love to help you create a plan, but I'm having connection issues. Try browsing your saved content for inspiration, then ask me again in a moment."
	organizeFallback = "While I'm having technical difficulties, you can manually organize your content using the Boards feature. I'll be back to help with AI-powered organization soon!"
)

var (
	planWords     = regexp.MustCompile(`(?i)\b(?:plan|goal)`)
	organizeWords = regexp.MustCompile(`(?i)\b(?:organi[sz]e|categori[sz]e)`)
)

// FallbackSuggestions accompany every error reply.
func FallbackSuggestions() []string {
	return []string{
		"Show my saved content",
		"Summarize my content",
		"Help",
	}
}

// Message is one turn of the conversation.
type Message struct {
	ID          string    `json:"id"`
	Type        Role      `json:"type"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	Suggestions []string  `json:"suggestions,omitempty"`
	IsError     bool      `json:"is_error,omitempty"`
	IsRetrying  bool      `json:"is_retrying,omitempty"`
}

// ItemSource supplies the saves the assistant reasons over.
type ItemSource interface {
	Items(ctx context.Context) ([]content.Item, error)
}

// Backend produces a free-form reply. *llm.Client implements it.
type Backend interface {
	Complete(ctx context.Context, history []llm.Message, items []content.Item) (string, error)
}

// Option configures a Session.
type Option func(*Session)

// WithBackend routes turns through b before the rule-based engine.
func WithBackend(b Backend) Option {
	return func(s *Session) { s.backend = b }
}

// WithClock overrides the timestamp source.
func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// Session is a single conversation. It is safe for concurrent use; turns are
// serialized.
type Session struct {
	source  ItemSource
	engine  *assistant.Engine
	backend Backend
	clock   Clock

	mu      sync.Mutex
	history []Message
}

// New starts a conversation seeded with the greeting.
func New(source ItemSource, engine *assistant.Engine, opts ...Option) *Session {
	if engine == nil {
		engine = assistant.NewDefault()
	}
	s := &Session{source: source, engine: engine, clock: realClock{}}
	for _, opt := range opts {
		opt(s)
	}
	s.history = []Message{s.greeting()}
	return s
}

func (s *Session) greeting() Message {
	return Message{
		ID:          uuid.New().String(),
		Type:        Assistant,
		Content:     Greeting,
		Timestamp:   s.clock.Now(),
		Suggestions: assistant.GeneralSuggestions(),
	}
}

// Send records text as a user turn and returns the assistant's reply, which
// is also appended to the history. The reply content is never empty.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, Message{
		ID:        uuid.New().String(),
		Type:      User,
		Content:   text,
		Timestamp: s.clock.Now(),
	})

	reply := s.reply(ctx, text)
	reply.ID = uuid.New().String()
	reply.Type = Assistant
	reply.Timestamp = s.clock.Now()
	if strings.TrimSpace(reply.Content) == "" {
		reply.Content = LoadFailure
		reply.IsError = true
		reply.Suggestions = FallbackSuggestions()
	}
	s.history = append(s.history, reply)
	return reply, nil
}

func (s *Session) reply(ctx context.Context, text string) Message {
	var items []content.Item
	if s.source != nil {
		var err error
		items, err = s.source.Items(ctx)
		if err != nil {
			slog.Warn("chat: loading saved items", "error", err)
			return Message{Content: LoadFailure, IsError: true, Suggestions: FallbackSuggestions()}
		}
	}

	if s.backend == nil {
		r := s.engine.Respond(text, items)
		return Message{Content: r.Response, Suggestions: r.Suggestions}
	}

	out, err := s.backend.Complete(ctx, s.llmHistory(), items)
	if err == nil && strings.TrimSpace(out) != "" {
		return Message{Content: out}
	}
	if err == nil {
		err = llm.ErrEmptyReply
	}
	return s.fallback(text, items, err)
}

// fallback answers from the rule-based engine after a backend failure and
// prefixes the short cause so the user knows the AI service was skipped.
func (s *Session) fallback(text string, items []content.Item, err error) Message {
	kind := llm.Classify(err)
	slog.Warn("chat: backend failed, using rules", "kind", string(kind), "error", err)

	m := Message{IsError: true}
	var cause string
	switch kind {
	case llm.FailureConfig:
		cause = configCause
	case llm.FailureRateLimit:
		cause = rateLimitCause
		m.IsRetrying = true
	default:
		switch {
		case planWords.MatchString(text):
			cause = planFallback
		case organizeWords.MatchString(text):
			cause = organizeFallback
		default:
			cause = transientCause
		}
	}

	r := s.engine.Respond(text, items)
	m.Content = cause + "\n\n" + r.Response
	m.Suggestions = r.Suggestions
	if len(m.Suggestions) == 0 {
		m.Suggestions = FallbackSuggestions()
	}
	return m
}

// llmHistory converts the conversation for the backend. Error replies are
// left out so the model does not imitate them.
func (s *Session) llmHistory() []llm.Message {
	out := make([]llm.Message, 0, len(s.history))
	for _, m := range s.history {
		if m.IsError {
			continue
		}
		out = append(out, llm.Message{Role: string(m.Type), Content: m.Content})
	}
	return out
}

// History returns a copy of the conversation so far.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// Clear resets the conversation to the greeting.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = []Message{s.greeting()}
}
