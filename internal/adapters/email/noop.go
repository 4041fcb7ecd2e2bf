package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// NoopSender logs messages instead of delivering them. Used when no API key is configured.
type NoopSender struct {
	seq  atomic.Int64
	mu   sync.Mutex
	sent []Message
}

// NewNoopSender creates a NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send records and logs msg.
func (s *NoopSender) Send(_ context.Context, msg Message) (string, error) {
	if len(msg.To) == 0 {
		return "", ErrNoRecipients
	}
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()

	id := fmt.Sprintf("noop-%d", s.seq.Add(1))
	slog.Info("noop_email_send", "message_id", id, "to", msg.To, "subject", msg.Subject)
	return id, nil
}

// Sent returns a copy of every message recorded so far.
func (s *NoopSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}
