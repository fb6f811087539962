package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/typematch/typematch/internal/client/api"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates. The last-used username
// is offered as a default. Server rejections are returned unchanged for the
// REPL to display.
func (a *App) Login(ctx context.Context) error {
	prompt := "Enter username"
	if hint := a.session.UsernameHint(ctx); hint != "" {
		prompt = fmt.Sprintf("Enter username [%s]", hint)
	}

	username, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if username == "" {
		username = a.session.UsernameHint(ctx)
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, username, string(password)); err != nil {
		return err
	}

	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Logged in.")
		a.poller.Check(ctx)
	}
	return nil
}

// Signup collects the registration form, including an optional profile
// picture file, and creates the account. On success the user is logged in
// immediately.
func (a *App) Signup(ctx context.Context) error {
	form := api.NewForm()

	fields := []struct {
		key, prompt string
	}{
		{"username", "Choose a username"},
		{"firstName", "First name"},
		{"lastName", "Last name"},
		{"email", "Email"},
		{"birthDate", "Birth date (YYYY-MM-DD)"},
		{"location", "Location (City, State)"},
		{"bio", "Bio (optional)"},
	}
	for _, f := range fields {
		value, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		form.Set(f.key, value)
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	form.Set("password", string(password))

	picPath, err := getSimpleText(a.reader, "Profile picture path (optional)", a.out)
	if err != nil {
		return err
	}
	if picPath != "" {
		content, err := os.ReadFile(picPath)
		if err != nil {
			return fmt.Errorf("read profile picture: %w", err)
		}
		form.AddFile("profilePic", picPath, content)
	}

	if err := a.session.Signup(ctx, form); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Welcome to TypeMatch! Type 'quiz' to discover your personality type.")
	return nil
}

// Logout clears the session and all derived state.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.poller.Reset()
	a.messages.Close()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Whoami prints the current user's own profile card.
func (a *App) Whoami(ctx context.Context) error {
	user := a.session.CurrentUser()
	if user == nil {
		return nil
	}
	a.printUserCard(user)
	return nil
}
