// ABOUTME: Feed items as a closed union of confirmed and speculative entries
// ABOUTME: Provides the newest-first read projection used by every presentation surface

package feed

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/harper/thoughts/internal/models"
)

// Item is one entry in the cached feed. It is either Confirmed or Speculative.
type Item interface {
	Content() string
	Time() time.Time
	isItem()
}

// Confirmed is an entry the server has persisted.
type Confirmed struct {
	Message models.Message
}

// Content returns the message text.
func (c Confirmed) Content() string { return c.Message.Content }

// Time returns the server creation time.
func (c Confirmed) Time() time.Time { return c.Message.CreatedAt }

func (Confirmed) isItem() {}

// Speculative is a locally fabricated entry shown before the server confirms it.
// Token identifies the mutation that applied it.
type Speculative struct {
	Token     uuid.UUID
	Text      string
	LocalTime time.Time
}

// Content returns the draft text.
func (s Speculative) Content() string { return s.Text }

// Time returns the local time the entry was applied.
func (s Speculative) Time() time.Time { return s.LocalTime }

func (Speculative) isItem() {}

// IsSpeculative reports whether item has not been confirmed by the server.
func IsSpeculative(item Item) bool {
	_, ok := item.(Speculative)
	return ok
}

// CountSpeculative returns how many speculative entries items contains.
func CountSpeculative(items []Item) int {
	n := 0
	for _, item := range items {
		if IsSpeculative(item) {
			n++
		}
	}
	return n
}

// FromMessages wraps server messages as confirmed items, preserving order.
func FromMessages(messages []models.Message) []Item {
	items := make([]Item, 0, len(messages))
	for _, m := range messages {
		items = append(items, Confirmed{Message: m})
	}
	return items
}

// Project returns a newest-first copy of items. Ties keep arrival order and
// entries without a timestamp sort last.
func Project(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].Time(), out[j].Time()
		if ti.IsZero() || tj.IsZero() {
			return !ti.IsZero() && tj.IsZero()
		}
		return ti.After(tj)
	})
	return out
}
