package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/dolater/internal/assistant"
	"github.com/kalambet/dolater/internal/chat"
	"github.com/kalambet/dolater/internal/classify"
	"github.com/kalambet/dolater/internal/content"
	"github.com/kalambet/dolater/internal/ingest"
	"github.com/kalambet/dolater/internal/search"
	"github.com/kalambet/dolater/internal/storage"
)

// ErrInvalidItem is returned when an item has neither a title nor a URL.
var ErrInvalidItem = errors.New("item needs a title or a url")

// ServiceDeps wires a Service. Backend and Engine are optional.
type ServiceDeps struct {
	Store    *storage.Store
	Analyzer *classify.Analyzer
	Backend  chat.Backend
	Engine   *assistant.Engine
	UserID   string
	Now      func() time.Time
}

// Service is the application layer shared by the HTTP and MCP surfaces.
type Service struct {
	store    *storage.Store
	analyzer *classify.Analyzer
	cache    *chat.CachedSource
	chat     *chat.Session
	recent   *search.Recent
	userID   string
	now      func() time.Time
}

func NewService(deps ServiceDeps) *Service {
	s := &Service{
		store:    deps.Store,
		analyzer: deps.Analyzer,
		userID:   deps.UserID,
		now:      deps.Now,
	}
	if s.userID == "" {
		s.userID = "local"
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.analyzer == nil {
		s.analyzer = classify.NewAnalyzer(nil)
	}

	s.cache = chat.NewCachedSource(chat.SourceFunc(func(context.Context) ([]content.Item, error) {
		return s.store.ListItems(s.userID)
	}))
	var opts []chat.Option
	if deps.Backend != nil {
		opts = append(opts, chat.WithBackend(deps.Backend))
	}
	s.chat = chat.New(s.cache, deps.Engine, opts...)
	s.recent = search.LoadRecent(s.store)
	return s
}

// SaveItem stores it and queues classification. A category chosen by the
// caller survives classification.
func (s *Service) SaveItem(it content.Item) (content.Item, error) {
	it.Title = strings.TrimSpace(it.Title)
	it.URL = strings.TrimSpace(it.URL)
	if it.Title == "" && it.URL == "" {
		return content.Item{}, ErrInvalidItem
	}
	if it.Title == "" {
		it.Title = it.URL
	}
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	if it.UserID == "" {
		it.UserID = s.userID
	}
	if it.DateAdded.IsZero() {
		it.DateAdded = s.now()
	}
	keepCategory := content.Category(strings.ToLower(strings.TrimSpace(string(it.Category)))).Valid()
	it = it.Normalize()

	if err := s.store.SaveItem(it); err != nil {
		return content.Item{}, err
	}
	s.cache.Invalidate()
	if err := s.store.EnqueueJob(ingest.NewClassifyJob(it.ID, keepCategory)); err != nil {
		return it, fmt.Errorf("item saved but classification not queued: %w", err)
	}
	return it, nil
}

// Items lists the user's saves, newest first.
func (s *Service) Items() ([]content.Item, error) {
	return s.store.ListItems(s.userID)
}

// ItemsChanged drops the assistant's snapshot of the saves. The background
// worker calls it after writing a classification.
func (s *Service) ItemsChanged() {
	s.cache.Invalidate()
}

func (s *Service) DeleteItem(id string) error {
	if err := s.store.DeleteItem(id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// Search runs query and filters over the user's saves. Non-blank queries are
// remembered in the recent-search list.
func (s *Service) Search(query string, f search.Filters) ([]content.Item, error) {
	items, err := s.store.ListItems(s.userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) != "" {
		if err := s.recent.Add(query); err != nil {
			return nil, fmt.Errorf("recording search: %w", err)
		}
	}
	return search.Search(items, query, f, s.now()), nil
}

func (s *Service) RecentSearches() []string {
	return s.recent.List()
}

// SuggestSearches returns recent searches resembling prefix.
func (s *Service) SuggestSearches(prefix string) []string {
	return s.recent.Suggest(prefix)
}

// Analyze classifies content without saving it.
func (s *Service) Analyze(ctx context.Context, title, body, url string) classify.Result {
	return s.analyzer.Analyze(ctx, title, body, url)
}

// Ask sends text to the assistant conversation.
func (s *Service) Ask(ctx context.Context, text string) (chat.Message, error) {
	return s.chat.Send(ctx, text)
}

func (s *Service) Conversation() []chat.Message {
	return s.chat.History()
}

func (s *Service) ClearConversation() {
	s.chat.Clear()
}
