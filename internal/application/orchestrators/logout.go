package orchestrators

import (
	"context"
	"log/slog"
)

// LogoutInput carries input for the logout orchestrator.
type LogoutInput struct {
	Token string
}

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	Sessions SessionStore
}

// ExecuteLogout ends both the member and the admin session.
// POST: No record remains under Token
func ExecuteLogout(ctx context.Context, input LogoutInput, deps LogoutDeps) error {
	if input.Token == "" {
		return nil
	}
	if err := deps.Sessions.Delete(ctx, input.Token); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "logout")
	return nil
}
