package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"receitas/internal/adapters/api"
	"receitas/internal/domain/account"
)

// RefreshUserInput carries input for the refresh orchestrator.
type RefreshUserInput struct {
	Token string
}

// RefreshUserDeps holds dependencies for RefreshUser.
type RefreshUserDeps struct {
	API      LoginAPI
	Sessions SessionStore
	Now      func() time.Time
}

// ExecuteRefreshUser re-derives the member's payment status by replaying login
// with the credentials held in the session.
// PRE: none
// POST: Returns nil when no member is signed in, including one who signed out
// while the call was in flight. On success only HasPaid and LastVerifiedAt
// change; on failure the session is unchanged.
func ExecuteRefreshUser(ctx context.Context, input RefreshUserInput, deps RefreshUserDeps) *LoginResult {
	if input.Token == "" {
		return nil
	}
	sess, ok, err := deps.Sessions.Get(ctx, input.Token)
	if err != nil {
		slog.Error("auth_event", "event", "session_load_failed", "error", err)
		return &LoginResult{Error: MsgRefreshFailed}
	}
	if !ok || sess.User == nil {
		return nil
	}

	user := *sess.User
	resp, err := deps.API.Login(ctx, user.Email, user.Password)
	if err != nil {
		slog.Info("auth_event", "event", "refresh_failed", "email", user.Email, "status", api.StatusOf(err))
		return &LoginResult{Error: UserMessage(err, MsgRefreshFailed)}
	}

	// Only the payment fields change; anything else may have moved during the call.
	now := deps.Now()
	applied, err := deps.Sessions.Update(ctx, input.Token, func(s *account.Session) bool {
		if s.User == nil || s.User.Email != user.Email {
			return false
		}
		s.User.HasPaid = resp.HasPaid
		s.User.LastVerifiedAt = now
		return true
	})
	if err != nil {
		slog.Error("auth_event", "event", "session_save_failed", "email", user.Email, "error", err)
		return &LoginResult{Error: MsgRefreshFailed}
	}
	if !applied {
		slog.Info("auth_event", "event", "refresh_discarded", "email", user.Email)
		return nil
	}

	slog.Info("auth_event", "event", "refresh_success", "email", user.Email, "has_paid", resp.HasPaid)
	return &LoginResult{Success: true, HasPaid: resp.HasPaid, Message: resp.Message, Token: input.Token}
}
