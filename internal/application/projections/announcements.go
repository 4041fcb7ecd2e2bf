package projections

import (
	"context"
	"log/slog"
	"time"

	"receitas/internal/domain/announcement"
)

// AnnouncementLister reads the stored board.
type AnnouncementLister interface {
	List(ctx context.Context) ([]announcement.Announcement, error)
}

// AnnouncementsDeps holds dependencies for QueryAnnouncements.
type AnnouncementsDeps struct {
	Store AnnouncementLister
	Now   func() time.Time
}

// QueryAnnouncements returns the stored announcements, newest first.
// An empty or unreadable board shows the default announcements instead.
func QueryAnnouncements(ctx context.Context, deps AnnouncementsDeps) []announcement.Announcement {
	items, err := deps.Store.List(ctx)
	if err != nil {
		slog.Warn("announcement_event", "event", "list_failed", "error", err)
		return announcement.Defaults(deps.Now())
	}
	if len(items) == 0 {
		return announcement.Defaults(deps.Now())
	}
	return items
}
