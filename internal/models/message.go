// ABOUTME: Message model representing one persisted thought in the shared feed
// ABOUTME: Defines the insertable Draft and validates content at the trust boundary

package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxContentLength is the upper bound on message content, counted in code points.
const MaxContentLength = 280

// Validation messages surfaced verbatim to users.
const (
	MsgContentRequired = "Content is required"
	MsgContentTooLong  = "Content must be at most 280 characters"
)

// Message is a persisted feed entry. IDs are assigned by the server and start at 1.
type Message struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Draft is the user-submitted insertable value.
type Draft struct {
	Content string `json:"content"`
}

// NewDraft creates a Draft from raw user input.
func NewDraft(content string) Draft {
	return Draft{Content: content}
}

// ValidationError reports content that fails shape or length checks.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateContent checks that content is non-blank and within MaxContentLength.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "content", Message: MsgContentRequired}
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return &ValidationError{Field: "content", Message: MsgContentTooLong}
	}
	return nil
}

// Validate checks the draft before it is sent to or accepted by the server.
func (d Draft) Validate() error {
	return ValidateContent(d.Content)
}

// Validate checks that a message received from the server is fully populated.
func (m Message) Validate() error {
	if m.ID < 1 {
		return fmt.Errorf("invalid message id %d", m.ID)
	}
	if err := ValidateContent(m.Content); err != nil {
		return fmt.Errorf("message %d: %w", m.ID, err)
	}
	if m.CreatedAt.IsZero() {
		return fmt.Errorf("message %d: missing createdAt", m.ID)
	}
	return nil
}

// Truncate shortens s to at most n code points, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n == 1 {
		return string(runes[:1])
	}
	return string(runes[:n-1]) + "…"
}
