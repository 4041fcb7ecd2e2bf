package announcement_test

import (
	"context"
	"testing"
	"time"

	"receitas/internal/adapters/storage"
	store "receitas/internal/adapters/storage/announcement"
	domain "receitas/internal/domain/announcement"
)

func newStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.NewSQLiteStore(db)
}

// TestSQLiteStore_ListNewestFirst orders by creation time descending.
func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, title := range []string{"old", "new", "mid"} {
		offset := map[string]time.Duration{"old": 0, "new": 2 * time.Hour, "mid": time.Hour}[title]
		a := domain.Announcement{ID: domain.IDPrefix + title, Title: title, Content: "c", CreatedAt: base.Add(offset)}
		if err := s.Save(ctx, a); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"new", "mid", "old"} {
		if got[i].Title != want {
			t.Errorf("got[%d] = %q, want %q", i, got[i].Title, want)
		}
	}
	if !got[0].CreatedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("CreatedAt = %v, round trip lost precision", got[0].CreatedAt)
	}
}

// TestSQLiteStore_SaveUpserts updates an existing row.
func TestSQLiteStore_SaveUpserts(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := domain.Announcement{ID: "sample-1", Title: "v1", Content: "c", CreatedAt: time.Now()}
	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("save: %v", err)
	}
	a.Title = "v2"
	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("save again: %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
	got, _ := s.List(ctx)
	if got[0].Title != "v2" {
		t.Errorf("Title = %q, want v2", got[0].Title)
	}
}

// TestSQLiteStore_Delete removes by ID and ignores missing IDs.
func TestSQLiteStore_Delete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	if err := s.Save(ctx, domain.Announcement{ID: "x", Title: "t", Content: "c", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Delete(ctx, "x"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	n, _ := s.Count(ctx)
	if n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
}
