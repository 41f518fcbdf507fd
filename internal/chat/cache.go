package chat

import (
	"context"
	"sync"
	"time"

	"github.com/kalambet/dolater/internal/content"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// DefaultCacheTTL is how long CachedSource serves a snapshot.
const DefaultCacheTTL = 30 * time.Second

// CachedSource serves a snapshot of another ItemSource for a short TTL so a
// burst of chat turns does not reload every save each time.
type CachedSource struct {
	src   ItemSource
	clock Clock
	ttl   time.Duration

	mu       sync.RWMutex
	cached   []content.Item
	valid    bool
	cachedAt time.Time
}

// NewCachedSource wraps src with DefaultCacheTTL.
func NewCachedSource(src ItemSource) *CachedSource {
	return NewCachedSourceWithClock(src, realClock{}, DefaultCacheTTL)
}

// NewCachedSourceWithClock wraps src with a custom clock and TTL.
func NewCachedSourceWithClock(src ItemSource, clock Clock, ttl time.Duration) *CachedSource {
	return &CachedSource{src: src, clock: clock, ttl: ttl}
}

// Items returns the cached snapshot, reloading it once the TTL has passed.
// Errors are not cached.
func (c *CachedSource) Items(ctx context.Context) ([]content.Item, error) {
	c.mu.RLock()
	if c.fresh() {
		items := copyItems(c.cached)
		c.mu.RUnlock()
		return items, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have refreshed while we waited.
	if c.fresh() {
		return copyItems(c.cached), nil
	}

	items, err := c.src.Items(ctx)
	if err != nil {
		return nil, err
	}
	c.cached = copyItems(items)
	c.valid = true
	c.cachedAt = c.clock.Now()
	return items, nil
}

// Invalidate drops the snapshot. Call it after saves change.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.cached = nil
	c.mu.Unlock()
}

func (c *CachedSource) fresh() bool {
	return c.valid && c.clock.Now().Before(c.cachedAt.Add(c.ttl))
}

func copyItems(items []content.Item) []content.Item {
	out := make([]content.Item, len(items))
	copy(out, items)
	return out
}

// SourceFunc adapts a function to ItemSource.
type SourceFunc func(ctx context.Context) ([]content.Item, error)

func (f SourceFunc) Items(ctx context.Context) ([]content.Item, error) { return f(ctx) }
