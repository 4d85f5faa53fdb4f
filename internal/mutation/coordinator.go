// ABOUTME: Optimistic mutation coordinator for creating feed messages
// ABOUTME: Applies a speculative entry, calls the server, then confirms or rolls back and invalidates

package mutation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/harper/thoughts/internal/feed"
	"github.com/harper/thoughts/internal/models"
)

// Creator performs the remote create operation.
type Creator interface {
	Create(ctx context.Context, draft models.Draft) (models.Message, error)
}

// Cache is the subset of feed.Cache the coordinator writes through.
type Cache interface {
	Cancel()
	Snapshot() feed.Snapshot
	Prepend(item feed.Item)
	Restore(snap feed.Snapshot)
	Invalidate()
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithNotifier sets where settlement notifications go.
func WithNotifier(notifier Notifier) Option {
	return func(c *Coordinator) {
		if notifier != nil {
			c.notifier = notifier
		}
	}
}

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source for speculative entries.
func WithClock(clock func() time.Time) Option {
	return func(c *Coordinator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithTokenSource overrides how speculative entry tokens are generated.
func WithTokenSource(tokens func() uuid.UUID) Option {
	return func(c *Coordinator) {
		if tokens != nil {
			c.tokens = tokens
		}
	}
}

// Coordinator runs create mutations against a Creator while keeping a feed
// cache coherent. It is safe for concurrent use; concurrent mutations are not
// serialized with each other.
type Coordinator struct {
	cache    Cache
	creator  Creator
	notifier Notifier
	logger   *slog.Logger
	clock    func() time.Time
	tokens   func() uuid.UUID

	inflight atomic.Int32
}

// New creates a coordinator writing to cache and creating through creator.
func New(cache Cache, creator Creator, options ...Option) *Coordinator {
	c := &Coordinator{
		cache:    cache,
		creator:  creator,
		notifier: discardNotifier{},
		logger:   slog.Default(),
		clock:    time.Now,
		tokens:   uuid.New,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Pending reports whether any mutation has not settled yet.
func (c *Coordinator) Pending() bool {
	return c.inflight.Load() > 0
}

// InFlight returns the number of unsettled mutations.
func (c *Coordinator) InFlight() int {
	return int(c.inflight.Load())
}

// Create submits draft optimistically. The speculative entry is visible in the
// cache before the server responds. On failure the cache is restored to the
// snapshot this call took, and the returned error unwraps to
// *models.ValidationError or the creator's error. The cache is invalidated on
// every exit path and exactly one notification is sent.
func (c *Coordinator) Create(ctx context.Context, draft models.Draft) (models.Message, error) {
	c.inflight.Add(1)
	token := c.tokens()
	logger := c.logger.With("mutation", token.String())

	c.cache.Cancel()
	snap := c.cache.Snapshot()
	c.cache.Prepend(feed.Speculative{Token: token, Text: draft.Content, LocalTime: c.clock()})
	logger.Debug("applied speculative entry")

	defer func() {
		c.cache.Invalidate()
		c.inflight.Add(-1)
		logger.Debug("mutation settled")
	}()

	created, err := c.remote(ctx, draft)
	if err != nil {
		c.cache.Restore(snap)

		message := MsgCreateError
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			message = verr.Message
			logger.Info("message rejected", "reason", verr.Message)
		} else {
			logger.Warn("message create failed", "error", err)
		}
		c.notifier.Notify(Notification{Severity: SeverityError, Title: TitleError, Message: message})
		return models.Message{}, fmt.Errorf("create message: %w", err)
	}

	logger.Info("message created", "id", created.ID)
	c.notifier.Notify(Notification{Severity: SeveritySuccess, Title: TitleSuccess, Message: MsgShared})
	return created, nil
}

// remote validates draft and calls the creator, converting a panic into an
// error so the rollback path still runs.
func (c *Coordinator) remote(ctx context.Context, draft models.Draft) (created models.Message, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic recovered: %v", recovered)
		}
	}()

	if err := draft.Validate(); err != nil {
		return models.Message{}, err
	}
	return c.creator.Create(ctx, draft)
}
