package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"receitas/internal/adapters/api"
)

// RegisterAPI is the remote call used to create an account.
type RegisterAPI interface {
	Register(ctx context.Context, email, password string) (int, error)
}

// RegisterInput carries input for the register orchestrator.
type RegisterInput struct {
	Email    string
	Password string
}

// RegisterResult is the outcome of a registration attempt.
type RegisterResult struct {
	Success bool
	Status  int
	Error   string
}

// RegisterDeps holds dependencies for Register.
type RegisterDeps struct {
	API RegisterAPI
}

// ExecuteRegister creates an account on the remote service. It does not sign in.
// PRE: Email and Password come from the signup form
// POST: Success only for 201; 409 is reported with MsgAccountExists, never as a failure
// of the call itself; transport failures report status 500
func ExecuteRegister(ctx context.Context, input RegisterInput, deps RegisterDeps) RegisterResult {
	email := strings.TrimSpace(input.Email)
	status, err := deps.API.Register(ctx, email, input.Password)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			slog.Info("auth_event", "event", "register_failed", "email", email, "status", apiErr.Status)
			return RegisterResult{Status: apiErr.Status, Error: apiErr.Message}
		}
		slog.Warn("auth_event", "event", "register_failed", "email", email, "error", err)
		return RegisterResult{Status: http.StatusInternalServerError, Error: MsgRegisterFailed}
	}

	switch status {
	case http.StatusCreated:
		slog.Info("auth_event", "event", "register_success", "email", email)
		return RegisterResult{Success: true, Status: status}
	case http.StatusConflict:
		slog.Info("auth_event", "event", "register_conflict", "email", email)
		return RegisterResult{Status: status, Error: MsgAccountExists}
	default:
		return RegisterResult{Status: status, Error: MsgRegisterFailed}
	}
}
