package storage

import (
	"database/sql"
	"testing"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestInitDB_CreatesAnnouncementTable verifies the schema is applied.
func TestInitDB_CreatesAnnouncementTable(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}

	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='announcement'").Scan(&name)
	if err != nil {
		t.Fatalf("announcement table missing: %v", err)
	}
}

// TestInitDB_Idempotent verifies InitDB can run on an existing database.
func TestInitDB_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("first InitDB: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO announcement (id, title, content, created_at) VALUES ('a', 't', 'c', '2024-01-01T00:00:00Z')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM announcement").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 (data must survive)", count)
	}
}

// TestOpen_MemoryDB opens and initializes in one step.
func TestOpen_MemoryDB(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`SELECT id FROM announcement`); err != nil {
		t.Errorf("announcement not queryable: %v", err)
	}
}
