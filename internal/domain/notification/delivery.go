package notification

import (
	"context"
	"errors"
)

// ErrNoRecipient is returned by senders when the message has no address
// for their channel
var ErrNoRecipient = errors.New("notification: no recipient for channel")

// Message is what a channel sender delivers
type Message struct {
	Title     string
	Body      string
	ActionURL string
	Email     string
	Phone     string
	ChatID    string
}

// Sender delivers a message over one channel
type Sender interface {
	Channel() Channel
	Send(ctx context.Context, msg Message) error
}

// DeliveryResult is the outcome of one channel attempt
type DeliveryResult struct {
	Channel Channel
	Skipped bool
	Err     error
}

// Dispatcher fans a notification out to its channels
type Dispatcher interface {
	Dispatch(ctx context.Context, n *Notification, msg Message) []DeliveryResult
}
