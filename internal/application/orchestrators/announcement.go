package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"receitas/internal/domain/announcement"
)

// AnnouncementStoreForOrchestrator defines the store interface needed by announcement orchestrators.
type AnnouncementStoreForOrchestrator interface {
	Save(ctx context.Context, a announcement.Announcement) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// seedDefaultsIfEmpty stores the default board so it can be edited like any other entry.
func seedDefaultsIfEmpty(ctx context.Context, store AnnouncementStoreForOrchestrator, now time.Time) error {
	n, err := store.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	for _, a := range announcement.Defaults(now) {
		if err := store.Save(ctx, a); err != nil {
			return err
		}
	}
	slog.Info("announcement_event", "event", "defaults_seeded")
	return nil
}

// --- Add Announcement ---

// AddAnnouncementInput carries input for the add announcement orchestrator.
type AddAnnouncementInput struct {
	Title   string
	Content string
}

// AddAnnouncementDeps holds dependencies for AddAnnouncement.
type AddAnnouncementDeps struct {
	Store      AnnouncementStoreForOrchestrator
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteAddAnnouncement publishes a new entry on the board.
// PRE: Title and Content are non-blank after trimming
// POST: Entry stored with ID announcement_<uuid>; an empty board is seeded with the defaults first
func ExecuteAddAnnouncement(ctx context.Context, input AddAnnouncementInput, deps AddAnnouncementDeps) (announcement.Announcement, error) {
	now := deps.Now()
	a := announcement.Announcement{
		ID:        announcement.IDPrefix + deps.GenerateID(),
		Title:     input.Title,
		Content:   input.Content,
		CreatedAt: now,
	}
	a.Normalize()
	if err := a.Validate(); err != nil {
		return announcement.Announcement{}, err
	}

	if err := seedDefaultsIfEmpty(ctx, deps.Store, now); err != nil {
		return announcement.Announcement{}, err
	}
	if err := deps.Store.Save(ctx, a); err != nil {
		return announcement.Announcement{}, err
	}

	slog.Info("announcement_event", "event", "announcement_added", "announcement_id", a.ID)
	return a, nil
}

// --- Delete Announcement ---

// DeleteAnnouncementInput carries input for the delete announcement orchestrator.
type DeleteAnnouncementInput struct {
	ID string
}

// DeleteAnnouncementDeps holds dependencies for DeleteAnnouncement.
type DeleteAnnouncementDeps struct {
	Store AnnouncementStoreForOrchestrator
	Now   func() time.Time
}

// ExecuteDeleteAnnouncement removes an entry from the board.
// POST: Deleting one of the defaults from an empty board keeps the other default
func ExecuteDeleteAnnouncement(ctx context.Context, input DeleteAnnouncementInput, deps DeleteAnnouncementDeps) error {
	if err := seedDefaultsIfEmpty(ctx, deps.Store, deps.Now()); err != nil {
		return err
	}
	if err := deps.Store.Delete(ctx, input.ID); err != nil {
		return err
	}
	slog.Info("announcement_event", "event", "announcement_deleted", "announcement_id", input.ID)
	return nil
}
