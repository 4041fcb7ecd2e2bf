// Package email delivers outbound messages such as member suggestions.
package email

import "context"

// Message is one outbound email.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

// Sender delivers a message and returns the provider's message ID.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}
