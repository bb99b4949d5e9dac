package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if p := a.session.Profile(); p != nil {
		s = p.Username
	}
	if n := a.notify.UnreadCount(); n > 0 {
		if s != "" {
			s += ", "
		}
		s += fmt.Sprintf("%d unread", n)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs the interactive command loop.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to Confessio (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("confessio %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: whoami, setname, setavatar, posts, notifications, unread, readall, theme, fontsize, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, theme, fontsize, exit")
			}
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "setname":
			err = a.SetDisplayName(ctx)
		case "setavatar":
			err = a.SetAvatar(ctx)
		case "posts":
			err = a.Posts(ctx)
		case "notifications":
			err = a.Notifications(ctx)
		case "unread":
			err = a.Unread(ctx)
		case "readall":
			err = a.ReadAll(ctx)
		case "theme":
			err = a.Theme(ctx, args)
		case "fontsize":
			err = a.FontSizeCmd(ctx, args)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}

		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}
