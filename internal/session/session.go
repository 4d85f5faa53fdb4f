// ABOUTME: Client session owning the feed cache, gateway and mutation coordinator
// ABOUTME: Replaces a process-wide query client with an explicit handle passed to presentation code

package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/harper/thoughts/internal/feed"
	"github.com/harper/thoughts/internal/gateway"
	"github.com/harper/thoughts/internal/models"
	"github.com/harper/thoughts/internal/mutation"
)

// Options configures a Session.
type Options struct {
	ServerURL string
	Timeout   time.Duration
	Logger    *slog.Logger
	Notifier  mutation.Notifier
}

// Session is one client's view of the feed. All presentation surfaces in a
// process share the same Session so they observe the same cache.
type Session struct {
	gateway     *gateway.Client
	cache       *feed.Cache
	coordinator *mutation.Coordinator
	logger      *slog.Logger
}

// New wires a gateway, cache and coordinator for the server at opts.ServerURL.
func New(opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var gwOpts []gateway.Option
	if opts.Timeout > 0 {
		gwOpts = append(gwOpts, gateway.WithTimeout(opts.Timeout))
	}
	gw, err := gateway.New(opts.ServerURL, gwOpts...)
	if err != nil {
		return nil, fmt.Errorf("create gateway: %w", err)
	}

	cache := feed.NewCache(gw, feed.WithLogger(logger))
	coordinator := mutation.New(cache, gw,
		mutation.WithNotifier(opts.Notifier),
		mutation.WithLogger(logger),
	)

	return &Session{
		gateway:     gw,
		cache:       cache,
		coordinator: coordinator,
		logger:      logger,
	}, nil
}

// ServerURL returns the base URL the session talks to.
func (s *Session) ServerURL() string {
	return s.gateway.BaseURL()
}

// Cache returns the session's feed cache.
func (s *Session) Cache() *feed.Cache {
	return s.cache
}

// Coordinator returns the session's mutation coordinator.
func (s *Session) Coordinator() *mutation.Coordinator {
	return s.coordinator
}

// Load returns the newest-first feed, fetching when needed.
func (s *Session) Load(ctx context.Context) ([]feed.Item, error) {
	return s.cache.Load(ctx)
}

// Refresh forces a refetch of the feed.
func (s *Session) Refresh(ctx context.Context) error {
	return s.cache.Fetch(ctx)
}

// Post creates a message optimistically.
func (s *Session) Post(ctx context.Context, content string) (models.Message, error) {
	return s.coordinator.Create(ctx, models.NewDraft(content))
}

// View returns the current presentation state of the feed.
func (s *Session) View() feed.View {
	return s.cache.View()
}

// Pending reports whether any post has not settled yet.
func (s *Session) Pending() bool {
	return s.coordinator.Pending()
}
