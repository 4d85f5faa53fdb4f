// ABOUTME: Storage interface for persisted feed messages
// ABOUTME: Defines the contract shared by the SQLite and PostgreSQL backends

package storage

import (
	"context"
	"errors"

	"github.com/harper/thoughts/internal/models"
)

// ErrNotFound is returned when a message does not exist.
var ErrNotFound = errors.New("message not found")

// Store defines the storage interface for the append-only feed.
type Store interface {
	// Close closes the store and releases resources.
	Close() error

	// Backend returns the backend name ("sqlite" or "postgres").
	Backend() string

	// CreateMessage validates draft and appends it, returning the persisted message.
	CreateMessage(ctx context.Context, draft models.Draft) (models.Message, error)

	// GetMessage retrieves a message by ID.
	GetMessage(ctx context.Context, id int64) (models.Message, error)

	// ListMessages returns every message in arrival order (ascending ID).
	ListMessages(ctx context.Context) ([]models.Message, error)
}
