// Package passwords holds the password policy, the bcrypt credential hasher
// and the fixed catalogue of security questions.
package passwords

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	DefaultMinLength = 9
	// LegacyMinLength is the rule the profile page enforced before the
	// policy was unified.
	LegacyMinLength = 12

	Symbols = "@$!%*?&"

	// MaxBytes is the longest input bcrypt accepts.
	MaxBytes = 72
)

const (
	CodeMinLength = "min_length"
	CodeMaxLength = "max_length"
	CodeLowercase = "lowercase"
	CodeUppercase = "uppercase"
	CodeDigit     = "digit"
	CodeSymbol    = "symbol"
)

// ValidationError reports the first rule a password failed.
type ValidationError struct {
	Code   string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

type Policy struct {
	MinLength int
}

func NewPolicy(minLength int) Policy {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return Policy{MinLength: minLength}
}

// Reason is the user-facing description of the rule.
func (p Policy) Reason() string {
	return fmt.Sprintf("Password must be at least %d characters long, and include uppercase, lowercase, a number, and a special character (%s).", p.min(), Symbols)
}

// Validate returns nil or a *ValidationError for the first failed rule:
// min_length, max_length, lowercase, uppercase, digit, symbol.
func (p Policy) Validate(password string) error {
	if utf8.RuneCountInString(password) < p.min() {
		return p.fail(CodeMinLength)
	}
	if len(password) > MaxBytes {
		return &ValidationError{
			Code:   CodeMaxLength,
			Reason: fmt.Sprintf("Password must be at most %d bytes long.", MaxBytes),
		}
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(Symbols, r):
			symbol = true
		}
	}

	switch {
	case !lower:
		return p.fail(CodeLowercase)
	case !upper:
		return p.fail(CodeUppercase)
	case !digit:
		return p.fail(CodeDigit)
	case !symbol:
		return p.fail(CodeSymbol)
	}

	return nil
}

func (p Policy) min() int {
	if p.MinLength <= 0 {
		return DefaultMinLength
	}
	return p.MinLength
}

func (p Policy) fail(code string) error {
	return &ValidationError{Code: code, Reason: p.Reason()}
}
