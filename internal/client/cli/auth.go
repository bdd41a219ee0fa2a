package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/okulov/chatter/internal/client/api"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the registration form fields and creates an account.
// The server signs the new account in right away, so on success the session
// is adopted and the prompt switches to the new user.
func (a *App) Register(ctx context.Context) error {
	firstName, err := getSimpleText(a.reader, "Enter first name", os.Stdout)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Enter last name", os.Stdout)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	confirmation, err := getPassword("Confirm password", os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.api.Register(ctx, api.RegisterParams{
		FirstName:            firstName,
		LastName:             lastName,
		Username:             username,
		Email:                email,
		Password:             password,
		PasswordConfirmation: confirmation,
	})
	if err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}

	a.reconciler.SetUser(ctx, user)
	printlnFn(fmt.Sprintf("Welcome, %s!", user.DisplayName()))
	return nil
}

// Login prompts for credentials and authenticates. The identifier may be a
// username or an email; the server accepts either.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter username or email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.api.Login(ctx, identifier, password)
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			printlnFn("Server unavailable, try again later")
		} else {
			printlnFn("Login failed:", err.Error())
		}
		return err
	}

	a.reconciler.SetUser(ctx, user)
	printlnFn(fmt.Sprintf("Welcome, %s!", user.DisplayName()))
	return nil
}

// Logout ends the server session and drops the local identity. The local
// drop happens even when the server cannot be reached: the user asked to be
// signed out on this device.
func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil && !errors.Is(err, api.ErrUnavailable) {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	a.reconciler.Drop(ctx)
	printlnFn("Logged out")
	return nil
}

// Whoami shows the server-confirmed profile. Falls back to the locally
// cached identity when the server is unreachable.
func (a *App) Whoami(ctx context.Context) error {
	user, err := a.api.Profile(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			if snap := a.reconciler.Current(); snap.User != nil {
				printlnFn(fmt.Sprintf("%s (%s) [cached]", snap.User.DisplayName(), snap.User.Email))
				return nil
			}
			printlnFn("Server unavailable")
			return err
		}
		a.reconciler.Revalidate(ctx)
		printlnFn("Not signed in")
		return err
	}

	a.reconciler.SetUser(ctx, user)
	printlnFn(fmt.Sprintf("%s (%s), member since %s", user.DisplayName(), user.Email, user.CreatedAt.Format("2006-01-02")))
	return nil
}
