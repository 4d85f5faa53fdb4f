// ABOUTME: Feed cache holding what the client currently believes the feed contains
// ABOUTME: Supports snapshot/restore, fetch cancellation with generation fencing, and invalidation

package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/harper/thoughts/internal/models"
)

// Key is the fixed cache key of the single feed.
const Key = "/api/messages"

// ErrFetchCancelled is returned for a fetch whose result was discarded because
// it was cancelled or superseded. It is never surfaced to users.
var ErrFetchCancelled = errors.New("feed fetch cancelled")

// Lister fetches the canonical list of persisted messages.
type Lister interface {
	List(ctx context.Context) ([]models.Message, error)
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Snapshot is a captured cache value used as a rollback basis.
type Snapshot struct {
	items   []Item
	present bool
}

// Items returns a copy of the captured value and whether the cache was populated.
func (s Snapshot) Items() ([]Item, bool) {
	return cloneItems(s.items), s.present
}

// View is the read-side state consumed by presentation code.
type View struct {
	Items    []Item // newest first
	Present  bool
	Loading  bool // a fetch is outstanding and nothing has been cached yet
	Fetching bool
	Stale    bool
	Err      error
}

// Cache is the single keyed cache entry for the feed. The zero value is not
// usable; create one with NewCache.
type Cache struct {
	lister Lister
	logger *slog.Logger

	mu       sync.Mutex
	items    []Item
	present  bool
	stale    bool
	err      error
	gen      uint64
	cancel   context.CancelFunc
	fetching bool

	listenMu  sync.Mutex
	listeners map[int]func()
	nextID    int
}

// NewCache creates an empty cache that fetches through lister.
func NewCache(lister Lister, options ...Option) *Cache {
	c := &Cache{
		lister:    lister,
		logger:    slog.Default(),
		listeners: make(map[int]func()),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Key returns the cache key.
func (c *Cache) Key() string {
	return Key
}

// Read returns the current value, or false if the cache was never populated.
func (c *Cache) Read() ([]Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneItems(c.items), c.present
}

// Replace overwrites the cached value.
func (c *Cache) Replace(items []Item) {
	c.mu.Lock()
	c.items = cloneItems(items)
	c.present = true
	c.mu.Unlock()
	c.notify()
}

// Prepend inserts item at the front, creating a one-item value if absent.
func (c *Cache) Prepend(item Item) {
	c.mu.Lock()
	items := make([]Item, 0, len(c.items)+1)
	items = append(items, item)
	items = append(items, c.items...)
	c.items = items
	c.present = true
	c.mu.Unlock()
	c.notify()
}

// Snapshot captures the current value. Callers must Cancel in-flight fetches first.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{items: cloneItems(c.items), present: c.present}
}

// Restore overwrites the cached value with snap.
func (c *Cache) Restore(snap Snapshot) {
	c.mu.Lock()
	c.items = cloneItems(snap.items)
	c.present = snap.present
	c.mu.Unlock()
	c.notify()
}

// Cancel cancels any in-flight fetch. A result that still arrives is discarded.
func (c *Cache) Cancel() {
	c.mu.Lock()
	c.gen++
	wasFetching := c.fetching
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.fetching = false
	c.mu.Unlock()

	if wasFetching {
		c.logger.Debug("cancelled in-flight fetch", "key", Key)
		c.notify()
	}
}

// Invalidate marks the value stale so the next Load refetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
	c.notify()
}

// Fetch retrieves the canonical list and replaces the cached value with it.
// A newer Fetch or a Cancel makes this one return ErrFetchCancelled without
// touching the cache. Other failures are recorded for View and leave the
// cached value as it was.
func (c *Cache) Fetch(ctx context.Context) error {
	fctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	c.cancel = cancel
	c.fetching = true
	c.mu.Unlock()
	c.notify()

	messages, err := c.lister.List(fctx)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Debug("discarding cancelled fetch result", "key", Key, "generation", gen)
		return ErrFetchCancelled
	}
	c.cancel = nil
	c.fetching = false
	if err != nil {
		if ctx.Err() != nil {
			c.mu.Unlock()
			c.notify()
			return fmt.Errorf("%w: %w", ErrFetchCancelled, ctx.Err())
		}
		c.err = fmt.Errorf("fetch %s: %w", Key, err)
		fetchErr := c.err
		c.mu.Unlock()
		c.logger.Warn("feed fetch failed", "key", Key, "error", err)
		c.notify()
		return fetchErr
	}
	c.items = FromMessages(messages)
	c.present = true
	c.stale = false
	c.err = nil
	c.mu.Unlock()

	c.logger.Debug("feed fetched", "key", Key, "count", len(messages))
	c.notify()
	return nil
}

// Load returns the newest-first feed, fetching first when the value is absent
// or stale. If a mutation cancels that fetch, the current value is returned.
func (c *Cache) Load(ctx context.Context) ([]Item, error) {
	c.mu.Lock()
	fresh := c.present && !c.stale
	c.mu.Unlock()

	if !fresh {
		if err := c.Fetch(ctx); err != nil {
			if !errors.Is(err, ErrFetchCancelled) {
				return nil, err
			}
			items, ok := c.Read()
			if !ok {
				return nil, err
			}
			return Project(items), nil
		}
	}

	items, _ := c.Read()
	return Project(items), nil
}

// View returns the presentation state.
func (c *Cache) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		Items:    Project(c.items),
		Present:  c.present,
		Loading:  c.fetching && !c.present,
		Fetching: c.fetching,
		Stale:    c.stale,
		Err:      c.err,
	}
}

// Subscribe registers fn to run after every state change. fn runs outside the
// cache lock and may call back into the cache.
func (c *Cache) Subscribe(fn func()) (unsubscribe func()) {
	c.listenMu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.listenMu.Unlock()

	return func() {
		c.listenMu.Lock()
		delete(c.listeners, id)
		c.listenMu.Unlock()
	}
}

func (c *Cache) notify() {
	c.listenMu.Lock()
	fns := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.listenMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
