package search

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
)

const (
	// RecentKey is the storage slot holding the recent-search list.
	RecentKey = "dolater-recent-searches"
	// MaxRecent bounds the recent-search list.
	MaxRecent = 5
)

// KV is a string-keyed slot store.
type KV interface {
	GetKV(key string) (string, bool, error)
	SetKV(key, value string) error
}

// Recent is the most-recent-first list of past queries.
type Recent struct {
	mu      sync.Mutex
	kv      KV
	queries []string
}

// LoadRecent rehydrates the list from kv. A nil kv keeps the list in memory
// only. Unreadable or corrupt data starts an empty list.
func LoadRecent(kv KV) *Recent {
	r := &Recent{kv: kv}
	if kv == nil {
		return r
	}

	raw, ok, err := kv.GetKV(RecentKey)
	if err != nil {
		slog.Warn("loading recent searches", "error", err)
		return r
	}
	if !ok || raw == "" {
		return r
	}

	var stored []string
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		slog.Warn("discarding corrupt recent searches", "error", err)
		return r
	}
	for _, q := range stored {
		if len(r.queries) == MaxRecent {
			break
		}
		if strings.TrimSpace(q) != "" {
			r.queries = append(r.queries, q)
		}
	}
	return r
}

// Add moves query to the front of the list, dropping anything beyond
// MaxRecent, and persists the result. Queries are kept as typed; blank
// ones are ignored.
func (r *Recent) Add(query string) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]string, 0, MaxRecent)
	next = append(next, query)
	for _, existing := range r.queries {
		if existing != query && len(next) < MaxRecent {
			next = append(next, existing)
		}
	}
	r.queries = next

	if r.kv == nil {
		return nil
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encoding recent searches: %w", err)
	}
	if err := r.kv.SetKV(RecentKey, string(data)); err != nil {
		return fmt.Errorf("saving recent searches: %w", err)
	}
	return nil
}

// List returns a copy of the recent queries, most recent first.
func (r *Recent) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.queries))
	copy(out, r.queries)
	return out
}

// Suggest ranks recent queries against a partially typed one. A blank
// prefix returns the whole list.
func (r *Recent) Suggest(prefix string) []string {
	list := r.List()
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return list
	}
	matches := fuzzy.Find(prefix, list)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}
