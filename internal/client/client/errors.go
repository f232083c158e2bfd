package client

import (
	"errors"

	"google.golang.org/grpc/codes"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrLocked       = errors.New("locked out")
)

// RejectedError is a request the server turned down. Message is the text
// the server meant for the user.
type RejectedError struct {
	Code    codes.Code
	Message string
	// RetryAfter is the lockout time left in seconds, 0 when not locked.
	RetryAfter int
}

func (e *RejectedError) Error() string {
	return e.Message
}

func (e *RejectedError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Code == codes.Unauthenticated
	case ErrLocked:
		return e.Code == codes.ResourceExhausted
	}
	return false
}
