package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"receitas/internal/adapters/storage/session"
	"receitas/internal/domain/account"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const (
	sessionContextKey contextKey = "session"
	tokenContextKey   contextKey = "session_token"
)

// SessionCookieName is the cookie holding the opaque session token.
const SessionCookieName = "receitas_session"

// SecureCookies marks session cookies Secure. Set from config in production.
var SecureCookies bool

// SessionLoader is the read side of the session store.
type SessionLoader interface {
	Get(ctx context.Context, token string) (account.Session, bool, error)
}

// Auth returns middleware that loads the session named by the cookie into the context.
// It does NOT block anonymous requests; use RequireUser or RequireAdmin for that.
func Auth(sessions SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				ctx := context.WithValue(r.Context(), tokenContextKey, cookie.Value)
				sess, ok, err := sessions.Get(ctx, cookie.Value)
				if err != nil {
					slog.Error("session_load_failed", "error", err)
				} else if ok {
					ctx = context.WithValue(ctx, sessionContextKey, sess)
				}
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser redirects requests without a member session to /login.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin redirects requests without an admin session to /admin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := AdminFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (account.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(account.Session)
	return sess, ok
}

// UserFromContext returns the signed-in member, if any.
func UserFromContext(ctx context.Context) (account.User, bool) {
	sess, ok := GetSessionFromContext(ctx)
	if !ok || sess.User == nil {
		return account.User{}, false
	}
	return *sess.User, true
}

// AdminFromContext returns the signed-in admin, if any.
func AdminFromContext(ctx context.Context) (account.Admin, bool) {
	sess, ok := GetSessionFromContext(ctx)
	if !ok || sess.Admin == nil {
		return account.Admin{}, false
	}
	return *sess.Admin, true
}

// TokenFromContext returns the cookie token sent with the request, or "".
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// EnsureSessionToken returns the request's token, issuing a cookie with a new one when absent.
// The token keys per-browser state such as the checkout guard before anyone signs in.
func EnsureSessionToken(w http.ResponseWriter, r *http.Request) (string, error) {
	if token := TokenFromContext(r.Context()); token != "" {
		return token, nil
	}
	token, err := session.NewToken()
	if err != nil {
		return "", err
	}
	SetSessionCookie(w, token)
	return token, nil
}

// ContextWithSession returns a context with the given session and token set.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, token string, sess account.Session) context.Context {
	ctx = context.WithValue(ctx, tokenContextKey, token)
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode, // survives the redirect back from hosted checkout
		Path:     "/",
		MaxAge:   int(session.TTL.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
