package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/okulov/chatter/internal/client/api"
)

// Users lists all registered users, newest first as the server returns them.
func (a *App) Users(ctx context.Context) error {
	users, err := a.api.Users(ctx)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrUnauthorized):
			a.reconciler.Revalidate(ctx)
			printlnFn("Sign in to list users")
		case errors.Is(err, api.ErrUnavailable):
			printlnFn("Server unavailable, try again later")
		default:
			printlnFn("Listing users failed:", err.Error())
		}
		return err
	}

	printlnFn(fmt.Sprintf("%d user(s):", len(users)))
	for _, u := range users {
		printlnFn(fmt.Sprintf("  %-20s %s (joined %s)", u.Username, u.DisplayName(), u.CreatedAt.Format("2006-01-02")))
	}
	return nil
}
