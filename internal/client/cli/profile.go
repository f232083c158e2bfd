package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
)

func (a *App) Profile(ctx context.Context) error {
	if a.requireLogin() {
		return nil
	}

	callCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	p, err := a.client.Profile(callCtx)
	if err != nil {
		a.report(err)
		a.expireSession(err)
		return err
	}

	printlnFn(fmt.Sprintf("Username:   %s", p.Username))
	printlnFn(fmt.Sprintf("Email:      %s", p.Email))
	printlnFn(fmt.Sprintf("Name:       %s %s", p.FirstName, p.LastName))
	if p.LastLogin != nil {
		printlnFn(fmt.Sprintf("Last login: %s", p.LastLogin.Local().Format(time.RFC1123)))
	}
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	if a.requireLogin() {
		return nil
	}

	old, err := getPassword("Enter current password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(old)

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

	reply, err := a.client.ChangePassword(callCtx, string(old), string(password), string(confirm))
	if err != nil {
		a.report(err)
		return err
	}

	printlnFn(reply.Message)
	return nil
}
