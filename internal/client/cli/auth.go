package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/confessio/confessio/internal/client/models"
	"github.com/confessio/confessio/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and attempts to create a new
// account. No token is stored on success — the user logs in afterwards.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose a username", os.Stdout)
	if err != nil {
		return err
	}

	displayName, err := getSimpleText(a.reader, "Choose a display name", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	info := models.RegisterInfo{
		Username:    username,
		DisplayName: displayName,
		Password:    string(password),
		UserType:    "student",
	}

	if err := a.session.Register(ctx, info); err != nil {
		return err
	}

	fmt.Println("Registered! Use 'login' to sign in.")
	return nil
}

// Login prompts for credentials and authenticates. On success the profile is
// already cached and the notification feed is primed.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, username, string(password)); err != nil {
		if errors.Is(err, common.ErrOperationInProgress) {
			fmt.Println("A login is already in progress.")
			return nil
		}
		return err
	}

	fmt.Println("Success!")

	// prime the notification badge; failures only log
	if err := a.notify.FetchUnreadCount(ctx); err != nil {
		a.log.Warn(ctx, "initial unread fetch failed", "error", err)
	}
	return nil
}

// Logout runs the cascade and reports the final state.
func (a *App) Logout(ctx context.Context) {
	a.session.Logout(ctx)
	fmt.Println("Logged out.")
}
