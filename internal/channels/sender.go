// Package channels holds the outbound delivery providers (SMS, email) used
// by the notification dispatcher. Providers are optional: when credentials
// are absent a Noop sender is wired instead, so dispatch code never branches
// on configuration.
package channels

import "context"

// Sender delivers one message to one recipient. SMS implementations ignore
// the subject.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Noop is the sender selected when a channel has no configured provider.
// It accepts everything and delivers nothing.
type Noop struct{}

func (Noop) Send(ctx context.Context, to, subject, body string) error {
	return nil
}
