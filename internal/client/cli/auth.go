package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tradejournal/internal/client/auth"
	"github.com/dmitrijs2005/tradejournal/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) credentials() (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(password)

	return email, string(password), nil
}

// Register creates an account. The session bridge takes over once the
// provider announces the new session.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	if _, err := a.Accounts.SignUp(ctx, email, password); err != nil {
		printlnFn("Registration failed:", authMessage(err))
		return err
	}

	printlnFn("Account created, you are signed in.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	s, err := a.Accounts.SignIn(ctx, email, password)
	if err != nil {
		printlnFn("Login failed:", authMessage(err))
		return err
	}

	printlnFn("Signed in as", s.User.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.Session.Logout(ctx)
	return nil
}

// Profile shows the profile, or renames the user with "profile name <new name>".
func (a *App) Profile(ctx context.Context, args []string) error {
	if len(args) > 1 && args[0] == "name" {
		name := strings.Join(args[1:], " ")
		if err := a.Accounts.UpdateProfile(ctx, name); err != nil {
			printlnFn("Could not update profile:", err)
			return err
		}
		a.term.SetUserDisplayName(strings.TrimSpace(name))
		printlnFn("Profile updated")
		return nil
	}

	p, err := a.Accounts.Profile(ctx)
	if err != nil {
		printlnFn("Could not load profile:", err)
		return err
	}
	printlnFn(fmt.Sprintf("Name:  %s\nEmail: %s", p.Name, p.Email))
	return nil
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, auth.ErrAccountExists):
		return "an account with this email already exists"
	default:
		return err.Error()
	}
}
