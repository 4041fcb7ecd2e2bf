// Package session stores per-browser session records keyed by an opaque cookie token.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"receitas/internal/domain/account"
)

// TTL is how long a session lives after it was created.
const TTL = 24 * time.Hour

// Store persists account.Session values by token.
// Get returns false for unknown or expired tokens.
type Store interface {
	Get(ctx context.Context, token string) (account.Session, bool, error)
	Save(ctx context.Context, token string, s account.Session) error
	Delete(ctx context.Context, token string) error
	// Update applies fn to the stored record as one step. fn is skipped for unknown
	// tokens and reports whether it changed anything; a record left empty is deleted.
	Update(ctx context.Context, token string, fn func(*account.Session) bool) (bool, error)
}

// NewToken returns a random 256-bit token, hex encoded.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func expired(s account.Session, now time.Time) bool {
	return now.Sub(s.CreatedAt) > TTL
}
