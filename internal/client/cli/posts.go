package cli

import (
	"context"
	"fmt"
)

// Posts refreshes and prints the user's own confessions.
func (a *App) Posts(ctx context.Context) error {
	if err := a.feed.FetchMine(ctx); err != nil {
		return err
	}

	posts := a.feed.Confessions()
	if len(posts) == 0 {
		fmt.Println("No posts yet.")
		return nil
	}

	for _, p := range posts {
		liked := " "
		if p.Liked {
			liked = "*"
		}
		fmt.Printf("[%d]%s %s — %d views, %d likes (%s)\n",
			p.ID, liked, p.Title, p.Views, p.Likes, p.CreatedAt.Format("2006-01-02"))
		if p.Content != "" {
			fmt.Printf("     %s\n", p.Content)
		}
	}
	return nil
}
