package services

import (
	"errors"

	"github.com/dmitrijs2005/storefront/internal/common"
)

// User-facing messages. These are the only texts a failed flow reports;
// store and transport errors are logged, never shown.
const (
	MsgUnexpected = "An unexpected error occurred."

	MsgIdentityRequired   = "Username and email are required."
	MsgPasswordsMismatch  = "Passwords do not match."
	MsgQuestionRequired   = "Please select a security question and provide an answer."
	MsgQuestionInvalid    = "Please select a valid security question."
	MsgAnswerTooLong      = "Security answer is too long."
	MsgSaveFailed         = "Error saving user data. Please try again."
	MsgSignedUp           = "Account created successfully. Please log in."
	MsgInvalidCredentials = "Invalid username and/or password."
	MsgWelcomeFirst       = "Welcome! This is your first login."
	MsgWelcomeBackFormat  = "Welcome back! Your last login was %s."

	MsgNoAccount          = "No account found with this username."
	MsgEmailMismatch      = "Email does not match the account associated with this username."
	MsgAnswerIncorrect    = "Security question answer is incorrect."
	MsgVerificationFailed = "Identity verification failed."
	MsgResetLinkInvalid   = "This password reset link is invalid or has expired."
	MsgUpdateFailed       = "Failed to update the password. Please try again."
	MsgPasswordReset      = "Password updated successfully."

	MsgOldPasswordIncorrect = "Old password is incorrect."
	MsgPasswordChanged      = "Password updated successfully!"
)

// Views a client navigates to after a successful flow.
const (
	ViewHome          = "/"
	ViewLogin         = "/login"
	ViewResetPassword = "/reset-password"
)

// FlowError is a failed flow step. Kind is one of the common sentinel
// errors and decides the transport status; Message is safe to show.
type FlowError struct {
	Kind    error
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	return e.Message
}

func (e *FlowError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newFlowError(kind error, msg string, cause error) *FlowError {
	return &FlowError{Kind: kind, Message: msg, Err: cause}
}

func unexpected(cause error) *FlowError {
	return newFlowError(common.ErrorInternal, MsgUnexpected, cause)
}

// Message returns the text to show for err. Errors that did not come out
// of a flow collapse to MsgUnexpected.
func Message(err error) string {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Message
	}
	return MsgUnexpected
}
