package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error is returned for non-2xx responses from the remote service.
type Error struct {
	Status  int
	Message string
	// Payload is the decoded JSON body, or nil when the body was absent or not JSON.
	Payload any
}

// Error returns the server message or the generic status message.
func (e *Error) Error() string {
	return e.Message
}

// newError builds an *Error from a raw response body.
// The server's "message" field wins; otherwise the message names the path and status.
func newError(path string, status int, raw []byte) *Error {
	var payload any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			payload = nil
		}
	}

	message := fmt.Sprintf("Request to %s failed with status %d", path, status)
	if obj, ok := payload.(map[string]any); ok {
		if m, ok := obj["message"].(string); ok && m != "" {
			message = m
		}
	}

	return &Error{Status: status, Message: message, Payload: payload}
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an *Error.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
