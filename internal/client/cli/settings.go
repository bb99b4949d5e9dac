package cli

import (
	"context"
	"fmt"

	"github.com/confessio/confessio/internal/client/prefs"
)

// Theme shows or updates the theme color.
func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Printf("Theme color: %s\n", a.prefs.ThemeColor())
		return nil
	}
	if err := a.prefs.SetThemeColor(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Theme color set to %s\n", args[0])
	return nil
}

// FontSizeCmd shows or updates the font size.
func (a *App) FontSizeCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Printf("Font size: %s\n", a.prefs.Size())
		return nil
	}
	if err := a.prefs.SetSize(ctx, prefs.FontSize(args[0])); err != nil {
		return err
	}
	fmt.Printf("Font size set to %s\n", args[0])
	return nil
}
