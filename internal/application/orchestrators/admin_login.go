package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"receitas/internal/adapters/api"
	"receitas/internal/application/projections"
	"receitas/internal/domain/account"
)

// AdminLoginInput carries input for the admin login orchestrator.
type AdminLoginInput struct {
	Token    string
	Username string
	Password string
}

// AdminLoginResult is the outcome of an admin login attempt.
type AdminLoginResult struct {
	Success bool
	Error   string
	Token   string
	Data    projections.AdminDashboard
}

// AdminLoginDeps holds dependencies for AdminLogin.
type AdminLoginDeps struct {
	API      projections.AdminDashboardAPI
	Sessions SessionStore
	NewToken func() (string, error)
	Now      func() time.Time
}

// ExecuteAdminLogin verifies admin credentials by loading the whole admin panel with them.
// PRE: Username and Password come from the admin login form
// POST: The admin session is stored only when all four reads succeed; any failure
// leaves no admin state. The member session, if any, is kept.
func ExecuteAdminLogin(ctx context.Context, input AdminLoginInput, deps AdminLoginDeps) AdminLoginResult {
	username := strings.TrimSpace(input.Username)
	header := account.BasicAuthHeader(username, input.Password)

	data, err := projections.QueryAdminDashboard(ctx, projections.AdminDashboardQuery{AuthHeader: header},
		projections.AdminDashboardDeps{API: deps.API})
	if err != nil {
		slog.Info("admin_event", "event", "admin_login_failed", "username", username, "status", api.StatusOf(err))
		return AdminLoginResult{Error: UserMessage(err, MsgAdminFailed)}
	}

	token, err := rotateSession(ctx, deps.Sessions, deps.NewToken, input.Token, func(s *account.Session) {
		s.Admin = &account.Admin{Username: username, Password: input.Password, AuthHeader: header}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = deps.Now()
		}
	})
	if err != nil {
		slog.Error("admin_event", "event", "session_save_failed", "username", username, "error", err)
		return AdminLoginResult{Error: MsgSessionUnstored}
	}

	slog.Info("admin_event", "event", "admin_login_success", "username", username)
	return AdminLoginResult{Success: true, Token: token, Data: data}
}

// ClearAdminInput carries input for ExecuteClearAdmin.
type ClearAdminInput struct {
	Token string
}

// ClearAdminDeps holds dependencies for ClearAdmin.
type ClearAdminDeps struct {
	Sessions SessionStore
}

// ExecuteClearAdmin ends the admin session and keeps the member session.
// POST: The stored record has no Admin; an empty record is deleted
func ExecuteClearAdmin(ctx context.Context, input ClearAdminInput, deps ClearAdminDeps) error {
	if input.Token == "" {
		return nil
	}
	var username string
	applied, err := deps.Sessions.Update(ctx, input.Token, func(s *account.Session) bool {
		if s.Admin == nil {
			return false
		}
		username = s.Admin.Username
		s.Admin = nil
		return true
	})
	if err != nil || !applied {
		return err
	}
	slog.Info("admin_event", "event", "admin_logout", "username", username)
	return nil
}
