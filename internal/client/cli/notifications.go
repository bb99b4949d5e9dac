package cli

import (
	"context"
	"fmt"
)

// Notifications refreshes and prints the notification feed.
func (a *App) Notifications(ctx context.Context) error {
	if err := a.notify.FetchNotifications(ctx); err != nil {
		return err
	}

	list := a.notify.Notifications()
	if len(list) == 0 {
		fmt.Println("No notifications.")
		return nil
	}

	for _, n := range list {
		marker := "•"
		if n.IsRead {
			marker = " "
		}
		fmt.Printf("%s %s from %s on %s %s", marker, n.Kind, n.Actor.Name, n.Related.Kind, n.Related.ID)
		if n.Related.Snippet != "" {
			fmt.Printf(": %q", n.Related.Snippet)
		}
		fmt.Printf(" (%s)\n", n.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Printf("%d unread\n", a.notify.UnreadCount())
	return nil
}

// Unread refreshes and prints just the unread counter.
func (a *App) Unread(ctx context.Context) error {
	if err := a.notify.FetchUnreadCount(ctx); err != nil {
		return err
	}
	fmt.Printf("%d unread\n", a.notify.UnreadCount())
	return nil
}

// ReadAll marks every notification as read.
func (a *App) ReadAll(ctx context.Context) error {
	if err := a.notify.MarkAllAsRead(ctx); err != nil {
		return err
	}
	fmt.Println("All read.")
	return nil
}
