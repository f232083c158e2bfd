// Package events publishes account security events (signups, logins,
// lockouts, password changes) for downstream consumers.
package events

import (
	"context"
	"time"
)

type Type string

const (
	SignedUp         Type = "account.signed_up"
	LoginSucceeded   Type = "account.login_succeeded"
	LoginFailed      Type = "account.login_failed"
	LockedOut        Type = "account.locked_out"
	IdentityVerified Type = "account.identity_verified"
	IdentityRejected Type = "account.identity_rejected"
	PasswordReset    Type = "account.password_reset"
	PasswordChanged  Type = "account.password_changed"
)

type Event struct {
	Type     Type      `json:"type"`
	Username string    `json:"username"`
	Session  string    `json:"session,omitempty"`
	At       time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
