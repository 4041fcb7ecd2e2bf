package announcement

import (
	"context"

	domain "receitas/internal/domain/announcement"
)

// Store persists the announcement board.
type Store interface {
	Save(ctx context.Context, a domain.Announcement) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Announcement, error)
	Count(ctx context.Context) (int, error)
}
