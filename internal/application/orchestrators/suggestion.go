package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"receitas/internal/adapters/email"
)

// ErrEmptySuggestion is returned when the suggestion text is blank.
var ErrEmptySuggestion = errors.New("Escreva sua sugestao antes de enviar.")

// ErrSuggestionsDisabled is returned when no editorial address is configured.
var ErrSuggestionsDisabled = errors.New("Envio de sugestoes indisponivel no momento.")

// SendSuggestionInput carries input for the suggestion orchestrator.
type SendSuggestionInput struct {
	From string // member email
	Text string
}

// SendSuggestionDeps holds dependencies for SendSuggestion.
type SendSuggestionDeps struct {
	Sender email.Sender
	To     string
}

// ExecuteSendSuggestion emails a member's experience suggestion to the editorial address.
// PRE: From is the signed-in member
// POST: One message sent with the member as reply-to
func ExecuteSendSuggestion(ctx context.Context, input SendSuggestionInput, deps SendSuggestionDeps) error {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return ErrEmptySuggestion
	}
	if deps.To == "" {
		return ErrSuggestionsDisabled
	}

	msg := email.Message{
		To:      []string{deps.To},
		Subject: fmt.Sprintf("Nova sugestao de experiencia de %s", input.From),
		Text:    text,
		HTML:    "<p>" + strings.ReplaceAll(html.EscapeString(text), "\n", "<br>") + "</p>",
		ReplyTo: input.From,
	}
	id, err := deps.Sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("send suggestion: %w", err)
	}
	slog.Info("suggestion_event", "event", "suggestion_sent", "from", input.From, "message_id", id)
	return nil
}
