package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/confessio/confessio/internal/client/models"
)

// WhoAmI prints the cached profile, fetching it first if needed.
func (a *App) WhoAmI(ctx context.Context) error {
	if err := a.session.FetchProfile(ctx); err != nil {
		return err
	}

	p := a.session.Profile()
	if p == nil {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("User:         %s (%s)\n", p.Username, p.UserID)
	fmt.Printf("Display name: %s\n", p.DisplayName)
	fmt.Printf("Type:         %s\n", p.UserType)
	if p.AvatarURL != "" {
		fmt.Printf("Avatar:       %s\n", p.AvatarURL)
	}
	if exp, ok := a.tokens.AccessExpiry(); ok {
		fmt.Printf("Session until %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}

// SetDisplayName sends a partial profile patch with the new display name.
func (a *App) SetDisplayName(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "New display name", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.UpdateProfile(ctx, models.ProfileUpdate{DisplayName: &name}); err != nil {
		return err
	}

	fmt.Println("Profile updated.")
	return nil
}

// SetAvatar sends a partial profile patch with the new avatar URL.
func (a *App) SetAvatar(ctx context.Context) error {
	url, err := getSimpleText(a.reader, "New avatar URL", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.UpdateProfile(ctx, models.ProfileUpdate{AvatarURL: &url}); err != nil {
		return err
	}

	fmt.Println("Profile updated.")
	return nil
}
