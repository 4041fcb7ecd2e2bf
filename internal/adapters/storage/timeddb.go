package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"receitas/internal/adapters/http/perf"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy it.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var (
	_ SQLDB = (*sql.DB)(nil)
	_ SQLDB = (*TimedDB)(nil)
)

// DefaultSlowQuery is the threshold above which queries log at WARN.
const DefaultSlowQuery = 50 * time.Millisecond

// TimedDB wraps a *sql.DB, logging slow queries and recording timings to a collector.
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	slow      time.Duration
}

// NewTimedDB wraps db with timing instrumentation.
// PRE: db is a valid connection; collector may be nil
// POST: Queries slower than slow log slow_query; non-positive slow uses DefaultSlowQuery
func NewTimedDB(db *sql.DB, collector *perf.Collector, slow time.Duration) *TimedDB {
	if slow <= 0 {
		slow = DefaultSlowQuery
	}
	return &TimedDB{db: db, collector: collector, slow: slow}
}

// RawDB returns the underlying *sql.DB.
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

func (t *TimedDB) observe(op string, start time.Time) {
	elapsed := time.Since(start)
	durationMs := float64(elapsed.Microseconds()) / 1000.0

	if elapsed >= t.slow {
		slog.Warn("slow_query", "op", op, "duration_ms", durationMs)
	} else {
		slog.Debug("query", "op", op, "duration_ms", durationMs)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Path:       op,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
}

// ExecContext runs a statement and records its timing, errors included.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	defer t.observe("ExecContext", time.Now())
	return t.db.ExecContext(ctx, query, args...)
}

// QueryContext runs a query and records its timing, errors included.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	defer t.observe("QueryContext", time.Now())
	return t.db.QueryContext(ctx, query, args...)
}

// QueryRowContext runs a single-row query and records its timing.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	defer t.observe("QueryRowContext", time.Now())
	return t.db.QueryRowContext(ctx, query, args...)
}

// BeginTx starts a transaction and records its timing.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	defer t.observe("BeginTx", time.Now())
	return t.db.BeginTx(ctx, opts)
}

// Close closes the underlying connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

// Ping verifies the connection is alive.
func (t *TimedDB) Ping(ctx context.Context) error {
	return t.db.PingContext(ctx)
}
