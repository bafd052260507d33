package sms

import (
	"context"
)

// Message is a single outbound SMS
type Message struct {
	From string
	To   string
	Body string
}

// Sender delivers one message and returns the provider's message id.
// Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}
