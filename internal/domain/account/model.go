package account

import (
	"encoding/base64"
	"strings"
	"time"
)

// User is the end-user part of a session.
// Password is kept so the payment status can be re-derived by replaying login.
type User struct {
	Email          string
	Password       string
	HasPaid        bool
	LastVerifiedAt time.Time
}

// Handle returns the part of the email before the "@", used as a greeting.
func (u User) Handle() string {
	if i := strings.Index(u.Email, "@"); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}

// Admin is the administrative part of a session.
// It is independent of User: holding one never grants the other.
type Admin struct {
	Username   string
	Password   string
	AuthHeader string
}

// Session is the state held for one browser, keyed by its cookie token.
type Session struct {
	User      *User
	Admin     *Admin
	CreatedAt time.Time
}

// IsEmpty reports whether neither an end-user nor an admin is signed in.
func (s Session) IsEmpty() bool {
	return s.User == nil && s.Admin == nil
}

// BasicAuthHeader builds the Authorization header value for admin endpoints.
// PRE: username and password are the raw credentials
// POST: Returns "Basic " followed by base64(username:password) of the UTF-8 bytes
func BasicAuthHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
