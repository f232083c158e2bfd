// Package lockout tracks failed login attempts per client session and
// username, and locks the pair out after too many consecutive failures.
package lockout

import (
	"context"
	"fmt"
	"math"
	"time"
)

const (
	MaxAttempts = 5
	Duration    = 300 * time.Second
)

// Key scopes lockout state to one client session and one username.
type Key struct {
	Session  string
	Username string
}

// State is the attempt counter of a Key. A zero LockoutUntil means not locked.
type State struct {
	Attempts     int
	LockoutUntil time.Time
}

// Remaining reports how long the lockout still lasts at now. Zero means
// the state is not locked.
func (s State) Remaining(now time.Time) time.Duration {
	if s.LockoutUntil.IsZero() || !now.Before(s.LockoutUntil) {
		return 0
	}
	return s.LockoutUntil.Sub(now)
}

// Expired is true when the state carries a lockout that has run out.
func (s State) Expired(now time.Time) bool {
	return !s.LockoutUntil.IsZero() && !now.Before(s.LockoutUntil)
}

// Fail counts one more failed attempt at now. A lockout that has run out
// is forgotten first; a running one is never extended. The lockout starts
// once the counter reaches MaxAttempts.
func (s State) Fail(now time.Time) State {
	if s.Expired(now) {
		s = State{}
	}
	s.Attempts++
	if s.Attempts >= MaxAttempts && s.LockoutUntil.IsZero() {
		s.LockoutUntil = now.Add(Duration)
	}
	return s
}

// Store keeps State per Key. Fail must be atomic per key: concurrent
// failures for one key are all counted.
type Store interface {
	// Load returns the zero State for unknown keys.
	Load(ctx context.Context, key Key) (State, error)
	// Fail records a failed attempt at now and returns the resulting State.
	Fail(ctx context.Context, key Key, now time.Time) (State, error)
	Clear(ctx context.Context, key Key) error
}

type LockedError struct {
	Remaining time.Duration
}

func (e *LockedError) Seconds() int {
	return int(math.Ceil(e.Remaining.Seconds()))
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("Too many failed login attempts. Please try again in %d seconds.", e.Seconds())
}
