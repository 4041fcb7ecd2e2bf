package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"receitas/internal/adapters/http/perf"
)

func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := openTestDB(t)
	if _, err := db.Exec("CREATE TABLE test (id TEXT PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

// TestTimedDB_RecordsEachCall verifies every wrapped call lands in the collector.
func TestTimedDB_RecordsEachCall(t *testing.T) {
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(openTimedTestDB(t), collector, 0)
	ctx := context.Background()

	if _, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	rows, err := tdb.QueryContext(ctx, "SELECT id, val FROM test")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	rows.Close()

	var val string
	if err := tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "1").Scan(&val); err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}
	if val != "hello" {
		t.Errorf("val = %q, want hello", val)
	}
	if collector.TotalRecorded() != 3 {
		t.Errorf("TotalRecorded = %d, want 3", collector.TotalRecorded())
	}
}

// TestTimedDB_NilCollector works without a collector.
func TestTimedDB_NilCollector(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), nil, 0)
	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES (?, ?)", "1", "x"); err != nil {
		t.Fatalf("ExecContext with nil collector: %v", err)
	}
}

// TestTimedDB_ErrorPassthrough returns SQL errors unchanged and still records timing.
func TestTimedDB_ErrorPassthrough(t *testing.T) {
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(openTimedTestDB(t), collector, 0)

	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO nonexistent_table VALUES (?)", 1); err == nil {
		t.Fatal("expected error from invalid SQL")
	}
	var val string
	err := tdb.QueryRowContext(context.Background(), "SELECT val FROM test WHERE id = ?", "missing").Scan(&val)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
	if collector.TotalRecorded() != 2 {
		t.Errorf("TotalRecorded = %d, want 2", collector.TotalRecorded())
	}
}

// TestTimedDB_CancelledContext fails fast and still records timing.
func TestTimedDB_CancelledContext(t *testing.T) {
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(openTimedTestDB(t), collector, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "x"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}
