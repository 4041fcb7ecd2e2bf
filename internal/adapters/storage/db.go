// Package storage holds the local SQLite database used for data the remote
// service does not own (the announcement board).
package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens the SQLite database at path and applies the schema.
// PRE: path is a file path or ":memory:"
// POST: Returns an initialized connection; the caller closes it
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables exist, WAL mode enabled
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS announcement (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_announcement_created_at ON announcement(created_at);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
