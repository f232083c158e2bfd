package cli

import (
	"context"
	"errors"
	"net/url"
	"os"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/client"
	"github.com/dmitrijs2005/storefront/internal/common"
)

var errNoToken = errors.New("no reset token")

// Forgot verifies the user's identity and, once verified, asks for the new
// password right away.
func (a *App) Forgot(ctx context.Context) error {
	var form client.IdentityForm
	var err error

	if form.Username, err = getSimpleText(a.reader, "Enter username", os.Stdout); err != nil {
		return err
	}
	if form.Email, err = getSimpleText(a.reader, "Enter email", os.Stdout); err != nil {
		return err
	}
	if form.SecurityQuestion, form.SecurityAnswer, err = a.askSecurityQuestion(ctx); err != nil {
		return err
	}

	callCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	reply, err := a.client.VerifyIdentity(callCtx, form)
	if err != nil {
		a.report(err)
		return err
	}

	printlnFn(reply.Message)
	return a.resetWith(ctx, reply.ResetTicket)
}

// Reset sets a new password with a token obtained earlier. The whole reset
// link is accepted as well.
func (a *App) Reset(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "Enter reset token or link", os.Stdout)
	if err != nil {
		return err
	}

	token := parseResetToken(raw)
	if token == "" {
		printlnFn("This password reset link is invalid or has expired.")
		return errNoToken
	}

	return a.resetWith(ctx, token)
}

func (a *App) resetWith(ctx context.Context, token string) error {
	password, err := getPassword("Enter new password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Confirm new password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	callCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	reply, err := a.client.ResetPassword(callCtx, token, string(password), string(confirm))
	if err != nil {
		a.report(err)
		return err
	}

	printlnFn(reply.Message)
	return nil
}

// parseResetToken extracts the token from a bare token or from a reset view
// such as "/reset-password?token=...".
func parseResetToken(raw string) string {
	raw = strings.TrimSpace(raw)
	_, query, found := strings.Cut(raw, "?")
	if !found {
		return raw
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return ""
	}
	return values.Get("token")
}
