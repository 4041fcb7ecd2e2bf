package announcement

import (
	"context"
	"fmt"
	"time"

	"receitas/internal/adapters/storage"
	domain "receitas/internal/domain/announcement"
)

// timeLayout is fixed-width so created_at sorts lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts or updates an announcement.
// PRE: a has been validated
// POST: a is persisted
func (s *SQLiteStore) Save(ctx context.Context, a domain.Announcement) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO announcement (id, title, content, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title=excluded.title, content=excluded.content, created_at=excluded.created_at`,
		a.ID, a.Title, a.Content, a.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save announcement %s: %w", a.ID, err)
	}
	return nil
}

// Delete removes an announcement. Deleting a missing ID is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM announcement WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete announcement %s: %w", id, err)
	}
	return nil
}

// List returns every announcement, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Announcement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, created_at FROM announcement ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()

	var out []domain.Announcement
	for rows.Next() {
		var a domain.Announcement
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan announcement: %w", err)
		}
		a.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for %s: %w", a.ID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Count returns the number of stored announcements.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM announcement`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count announcements: %w", err)
	}
	return n, nil
}
