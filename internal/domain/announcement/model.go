package announcement

import (
	"errors"
	"strings"
	"time"
)

// IDPrefix is prepended to every generated announcement ID.
const IDPrefix = "announcement_"

// ErrTitleAndContentRequired is returned when either field is blank after trimming.
var ErrTitleAndContentRequired = errors.New("Titulo e conteudo sao obrigatorios")

// Announcement is an entry on the local notice board.
// Content supports Markdown formatting.
type Announcement struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
}

// Normalize trims title and content in place.
func (a *Announcement) Normalize() {
	a.Title = strings.TrimSpace(a.Title)
	a.Content = strings.TrimSpace(a.Content)
}

// Validate checks if the Announcement has valid data.
// PRE: Announcement has been normalized
// POST: Returns nil if valid, error otherwise
func (a *Announcement) Validate() error {
	if a.Title == "" || a.Content == "" {
		return ErrTitleAndContentRequired
	}
	if a.ID == "" {
		return errors.New("announcement ID is required")
	}
	return nil
}

// Defaults returns the board shown when nothing has been stored yet.
// The second entry is dated one day before now.
func Defaults(now time.Time) []Announcement {
	return []Announcement{
		{
			ID:        "sample-1",
			Title:     "Desafio da semana",
			Content:   "Explore o ritual de 10 minutos focado em reconhecimento mutuo. Ideal para reaproximar depois de um dia corrido.",
			CreatedAt: now,
		},
		{
			ID:        "sample-2",
			Title:     "Atualizacao do ebook",
			Content:   "Receitas de reconexao rapida foram aprimoradas com novos prompts de conversa.",
			CreatedAt: now.Add(-24 * time.Hour),
		},
	}
}
