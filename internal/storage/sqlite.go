// ABOUTME: SQLite storage implementation using modernc.org/sqlite (pure Go)
// ABOUTME: Persists the append-only message feed in a single table

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/harper/thoughts/internal/models"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore implements Appender.
var _ Appender = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite storage instance.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database tables if they don't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Backend returns "sqlite".
func (s *SQLiteStore) Backend() string {
	return "sqlite"
}

// CreateMessage validates draft and appends it to the feed.
func (s *SQLiteStore) CreateMessage(ctx context.Context, draft models.Draft) (models.Message, error) {
	if err := draft.Validate(); err != nil {
		return models.Message{}, err
	}

	createdAt := time.Now().UTC().Truncate(time.Microsecond)
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (content, created_at) VALUES (?, ?)",
		draft.Content, createdAt,
	)
	if err != nil {
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Message{}, fmt.Errorf("read message id: %w", err)
	}

	return models.Message{ID: id, Content: draft.Content, CreatedAt: createdAt}, nil
}

// AppendMessage stores m with its original creation time under a new ID.
func (s *SQLiteStore) AppendMessage(ctx context.Context, m models.Message) (models.Message, error) {
	if err := m.Validate(); err != nil {
		return models.Message{}, err
	}

	createdAt := m.CreatedAt.UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (content, created_at) VALUES (?, ?)",
		m.Content, createdAt,
	)
	if err != nil {
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Message{}, fmt.Errorf("read message id: %w", err)
	}
	return models.Message{ID: id, Content: m.Content, CreatedAt: createdAt}, nil
}

// GetMessage retrieves a message by ID.
func (s *SQLiteStore) GetMessage(ctx context.Context, id int64) (models.Message, error) {
	var m models.Message
	err := s.db.QueryRowContext(ctx,
		"SELECT id, content, created_at FROM messages WHERE id = ?", id,
	).Scan(&m.ID, &m.Content, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return models.Message{}, fmt.Errorf("query message: %w", err)
	}
	m.CreatedAt = m.CreatedAt.UTC()
	return m, nil
}

// ListMessages returns every message in arrival order.
func (s *SQLiteStore) ListMessages(ctx context.Context) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, content, created_at FROM messages ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]models.Message, error) {
	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.CreatedAt = m.CreatedAt.UTC()
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
