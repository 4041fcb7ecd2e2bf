package announcement_test

import (
	"testing"
	"time"

	"receitas/internal/domain/announcement"
)

// TestAnnouncement_Validate tests validation after normalization.
func TestAnnouncement_Validate(t *testing.T) {
	tests := []struct {
		name    string
		a       announcement.Announcement
		wantErr bool
	}{
		{"valid", announcement.Announcement{ID: "announcement_1", Title: "Live", Content: "Sexta 20h"}, false},
		{"blank title", announcement.Announcement{ID: "announcement_1", Title: "   ", Content: "c"}, true},
		{"blank content", announcement.Announcement{ID: "announcement_1", Title: "t", Content: "\n"}, true},
		{"missing id", announcement.Announcement{Title: "t", Content: "c"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.a
			a.Normalize()
			err := a.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestAnnouncement_Normalize trims surrounding whitespace.
func TestAnnouncement_Normalize(t *testing.T) {
	a := announcement.Announcement{Title: "  Oi ", Content: "\tconteudo\n"}
	a.Normalize()
	if a.Title != "Oi" || a.Content != "conteudo" {
		t.Errorf("got %q / %q", a.Title, a.Content)
	}
}

// TestDefaults verifies the two sample entries, newest first.
func TestDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := announcement.Defaults(now)
	if len(d) != 2 {
		t.Fatalf("expected 2 defaults, got %d", len(d))
	}
	if d[0].ID != "sample-1" || d[1].ID != "sample-2" {
		t.Errorf("unexpected ids %q, %q", d[0].ID, d[1].ID)
	}
	if !d[1].CreatedAt.Equal(now.Add(-24 * time.Hour)) {
		t.Errorf("second default created at %v", d[1].CreatedAt)
	}
}
