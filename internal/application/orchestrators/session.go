package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"receitas/internal/adapters/api"
	"receitas/internal/domain/account"
)

// User-facing failure messages.
const (
	MsgLoginFailed     = "Falha ao realizar login."
	MsgAccountExists   = "Conta ja existe. Faca login para continuar."
	MsgRegisterFailed  = "Falha ao registrar conta."
	MsgRefreshFailed   = "Falha ao atualizar status do usuario."
	MsgAdminFailed     = "Falha ao acessar painel admin."
	MsgCheckoutFailed  = "Não foi possível iniciar o checkout agora."
	MsgSessionUnstored = "Nao foi possivel salvar sua sessao. Tente novamente."
)

// SessionStore persists per-browser session records.
type SessionStore interface {
	Get(ctx context.Context, token string) (account.Session, bool, error)
	Save(ctx context.Context, token string, s account.Session) error
	Delete(ctx context.Context, token string) error
	Update(ctx context.Context, token string, fn func(*account.Session) bool) (bool, error)
}

// UserMessage converts an error into text safe to show next to the failed action.
// API errors carry the server's message; anything else gets fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// rotateSession moves the record stored under oldToken (if any) to a fresh token
// after applying mutate. Privilege changes always get a new token.
// An unreadable old record is dropped: the old token is discarded either way.
func rotateSession(ctx context.Context, sessions SessionStore, newToken func() (string, error), oldToken string, mutate func(*account.Session)) (string, error) {
	var current account.Session
	if oldToken != "" {
		s, ok, err := sessions.Get(ctx, oldToken)
		switch {
		case err != nil:
			slog.Warn("auth_event", "event", "stale_session_dropped", "error", err)
		case ok:
			current = s
		}
	}
	mutate(&current)

	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err := sessions.Save(ctx, token, current); err != nil {
		return "", err
	}
	if oldToken != "" {
		if err := sessions.Delete(ctx, oldToken); err != nil {
			return "", err
		}
	}
	return token, nil
}
