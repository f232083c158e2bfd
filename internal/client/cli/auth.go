package cli

import (
	"context"
	"errors"
	"os"

	"github.com/dmitrijs2005/storefront/internal/client/client"
	"github.com/dmitrijs2005/storefront/internal/common"
)

// Signup walks the user through the signup form and submits it. The server
// validates the form and reports the first problem it finds.
func (a *App) Signup(ctx context.Context) error {
	var form client.SignupForm
	var err error

	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Enter username", &form.Username},
		{"Enter email", &form.Email},
		{"Enter first name", &form.FirstName},
		{"Enter last name", &form.LastName},
	} {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, os.Stdout); err != nil {
			return err
		}
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Confirm password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	form.Password, form.ConfirmPassword = string(password), string(confirm)

	if form.SecurityQuestion, form.SecurityAnswer, err = a.askSecurityQuestion(ctx); err != nil {
		return err
	}

	callCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	reply, err := a.client.Signup(callCtx, form)
	if err != nil {
		a.report(err)
		return err
	}

	printlnFn(reply.Message)
	return nil
}

// Login prompts for credentials and authenticates. Repeated failures lock
// the account for this terminal session; the server says for how long.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	callCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	reply, err := a.client.Login(callCtx, userName, string(password))
	if err != nil {
		a.report(err)
		return err
	}

	a.userName = userName
	printlnFn(reply.Message)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.userName = ""
	printlnFn("Logged out.")
	return nil
}

// askSecurityQuestion lets the user pick one of the server's questions and
// answer it.
func (a *App) askSecurityQuestion(ctx context.Context) (string, string, error) {
	callCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	questions, err := a.client.SecurityQuestions(callCtx)
	if err != nil {
		a.report(err)
		return "", "", err
	}

	question, err := chooseOption(a.reader, "Choose a security question", questions, os.Stdout)
	if err != nil {
		return "", "", err
	}

	answer, err := getSimpleText(a.reader, "Enter your answer", os.Stdout)
	if err != nil {
		return "", "", err
	}

	return question, answer, nil
}

// requireLogin reports and returns true when nobody is logged in.
func (a *App) requireLogin() bool {
	if a.isLoggedIn() {
		return false
	}
	printlnFn("Please log in first.")
	return true
}

// expireSession drops a login the server no longer accepts.
func (a *App) expireSession(err error) {
	if errors.Is(err, client.ErrUnauthorized) {
		a.client.Logout()
		a.userName = ""
	}
}
