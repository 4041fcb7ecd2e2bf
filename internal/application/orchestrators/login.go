package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"receitas/internal/adapters/api"
	"receitas/internal/domain/account"
)

// LoginAPI is the remote call used to sign a member in.
type LoginAPI interface {
	Login(ctx context.Context, email, password string) (api.LoginResponse, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Token    string // current session token, may be empty
	Email    string
	Password string
}

// LoginResult is the outcome of a login attempt.
type LoginResult struct {
	Success bool
	HasPaid bool
	Message string
	Error   string
	Token   string // new session token on success
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	API      LoginAPI
	Sessions SessionStore
	NewToken func() (string, error)
	Now      func() time.Time
}

// ExecuteLogin signs a member in against the remote service.
// PRE: Email and Password come from the login form
// POST: On success the session holds the member with the server-reported HasPaid,
// any admin session is kept, and the session moves to a new token.
// On failure the session is untouched.
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) LoginResult {
	email := strings.TrimSpace(input.Email)
	resp, err := deps.API.Login(ctx, email, input.Password)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "status", api.StatusOf(err))
		return LoginResult{Error: UserMessage(err, MsgLoginFailed)}
	}

	now := deps.Now()
	token, err := rotateSession(ctx, deps.Sessions, deps.NewToken, input.Token, func(s *account.Session) {
		s.User = &account.User{
			Email:          email,
			Password:       input.Password,
			HasPaid:        resp.HasPaid,
			LastVerifiedAt: now,
		}
		s.CreatedAt = now
	})
	if err != nil {
		slog.Error("auth_event", "event", "session_save_failed", "email", email, "error", err)
		return LoginResult{Error: MsgSessionUnstored}
	}

	slog.Info("auth_event", "event", "login_success", "email", email, "has_paid", resp.HasPaid)
	return LoginResult{Success: true, HasPaid: resp.HasPaid, Message: resp.Message, Token: token}
}
