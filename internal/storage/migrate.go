// ABOUTME: Data migration between thoughts storage backends
// ABOUTME: Copies every message in arrival order, keeping original timestamps

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/harper/thoughts/internal/models"
)

// ErrTargetNotEmpty is returned when a migration target already holds messages.
var ErrTargetNotEmpty = errors.New("target store is not empty")

// Appender is a store that can append an existing message as-is. The target
// assigns a new ID but keeps content and creation time.
type Appender interface {
	Store
	AppendMessage(ctx context.Context, m models.Message) (models.Message, error)
}

// MigrateSummary holds counts of migrated messages.
type MigrateSummary struct {
	Messages int
}

// MigrateData copies all messages from src to dst. dst must be empty so that
// arrival order and ID order stay the same after the copy.
func MigrateData(ctx context.Context, src Store, dst Appender) (*MigrateSummary, error) {
	existing, err := dst.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list target messages: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: %d messages", ErrTargetNotEmpty, len(existing))
	}

	messages, err := src.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source messages: %w", err)
	}

	summary := &MigrateSummary{}
	for _, m := range messages {
		if _, err := dst.AppendMessage(ctx, m); err != nil {
			return summary, fmt.Errorf("append message %d: %w", m.ID, err)
		}
		summary.Messages++
	}
	return summary, nil
}
