package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// ErrNoRecipients is returned when a message has no To address.
var ErrNoRecipients = errors.New("email has no recipients")

// ResendSender sends email through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a ResendSender.
// PRE: apiKey is a Resend API key; from is a verified sender address
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

// Send queues msg for delivery.
// POST: Returns the Resend message ID
func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	if len(msg.To) == 0 {
		return "", ErrNoRecipients
	}
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		slog.Error("resend_send_failed", "error", err, "subject", msg.Subject)
		return "", fmt.Errorf("resend send: %w", err)
	}
	slog.Info("resend_sent", "message_id", sent.Id, "subject", msg.Subject)
	return sent.Id, nil
}
