package session

import (
	"context"
	"sync"
	"time"

	"receitas/internal/domain/account"
)

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]account.Session
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]account.Session),
		now:      time.Now,
	}
}

// Get returns the session for token, dropping it when expired.
func (m *MemoryStore) Get(_ context.Context, token string) (account.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return account.Session{}, false, nil
	}
	if expired(s, m.now()) {
		delete(m.sessions, token)
		return account.Session{}, false, nil
	}
	return cloneSession(s), true, nil
}

// Save stores s under token. CreatedAt is set when zero.
func (m *MemoryStore) Save(_ context.Context, token string, s account.Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = m.now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = cloneSession(s)
	return nil
}

// Delete removes the session for token.
func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// Update runs fn under the store lock.
func (m *MemoryStore) Update(_ context.Context, token string, fn func(*account.Session) bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok || expired(s, m.now()) {
		return false, nil
	}
	s = cloneSession(s)
	if !fn(&s) {
		return false, nil
	}
	if s.IsEmpty() {
		delete(m.sessions, token)
	} else {
		m.sessions[token] = cloneSession(s)
	}
	return true, nil
}

// Sweep removes expired sessions and returns how many were dropped.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for token, s := range m.sessions {
		if expired(s, now) {
			delete(m.sessions, token)
			n++
		}
	}
	return n
}

// cloneSession copies the pointed-to parts so callers cannot mutate stored state.
func cloneSession(s account.Session) account.Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	if s.Admin != nil {
		a := *s.Admin
		s.Admin = &a
	}
	return s
}
