package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/typematch/typematch/internal/client/api"
	"github.com/typematch/typematch/internal/client/connections"
	"github.com/typematch/typematch/internal/client/models"
)

func (a *App) printUserCard(user *models.User) {
	fmt.Fprintf(a.out, "%s %s (@%s)\n", user.FirstName, user.LastName, user.Username)
	if user.MBTI != "" {
		fmt.Fprintf(a.out, "  MBTI:     %s\n", user.MBTI)
	} else {
		fmt.Fprintln(a.out, "  MBTI:     not determined yet. Type 'quiz'!")
	}
	if user.BirthDate != "" {
		fmt.Fprintf(a.out, "  Born:     %s\n", user.BirthDate)
	}
	if user.Location != "" {
		fmt.Fprintf(a.out, "  Location: %s\n", user.Location)
	}
	if user.Email != "" {
		fmt.Fprintf(a.out, "  Email:    %s\n", user.Email)
	}
	if user.Bio != "" {
		fmt.Fprintf(a.out, "  Bio:      %s\n", user.Bio)
	}
	if user.MBTIDetails != nil {
		fmt.Fprintf(a.out, "  %s: %s\n", user.MBTIDetails.Title, user.MBTIDetails.Description)
	}
}

// Profile shows a user's profile card together with the relationship to
// them. Without an argument it shows the current user's own profile.
func (a *App) Profile(ctx context.Context, args []string) error {
	current := a.session.CurrentUser()

	username := ""
	if len(args) > 0 {
		username = args[0]
	} else if current != nil {
		username = current.Username
	}
	if username == "" {
		fmt.Fprintln(a.out, "Usage: profile [user]")
		return nil
	}

	user, status, err := a.conns.Resolve(ctx, username)
	if err != nil {
		return err
	}

	a.printUserCard(user)

	if current != nil && current.Username != user.Username {
		switch status.Kind {
		case connections.KindConnected:
			fmt.Fprintf(a.out, "You are connected. Type 'messages %s' to chat.\n", user.Username)
		case connections.KindReceived:
			fmt.Fprintf(a.out, "%s wants to connect with you. Type 'connect %s' to accept.\n", user.FirstName, user.Username)
		case connections.KindSent:
			fmt.Fprintf(a.out, "Connection request pending. Type 'connect %s' to cancel it.\n", user.Username)
		default:
			fmt.Fprintf(a.out, "Type 'connect %s' to send a connection request.\n", user.Username)
		}
	}
	return nil
}

// EditProfile collects changed profile fields (empty input keeps the
// current value) and patches the account. The cached current user is
// replaced with the server's updated record.
func (a *App) EditProfile(ctx context.Context) error {
	current := a.session.CurrentUser()
	if current == nil {
		return nil
	}

	form := api.NewForm()

	fields := []struct {
		key, prompt, existing string
	}{
		{"firstName", "First name", current.FirstName},
		{"lastName", "Last name", current.LastName},
		{"email", "Email", current.Email},
		{"location", "Location", current.Location},
		{"bio", "Bio", current.Bio},
	}
	for _, f := range fields {
		value, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", f.prompt, f.existing), a.out)
		if err != nil {
			return err
		}
		if value == "" {
			value = f.existing
		}
		form.Set(f.key, value)
	}

	picPath, err := getSimpleText(a.reader, "New profile picture path (optional)", a.out)
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

	updated, err := a.api.UpdateUser(ctx, current.Username, form)
	if err != nil {
		return err
	}
	if updated != nil {
		a.session.UpdateCurrentUser(func(u *models.User) {
			*u = *updated
		})
	}

	fmt.Fprintln(a.out, "Profile updated.")
	return nil
}

// DeleteAccount removes the account after an explicit confirmation and
// logs out.
func (a *App) DeleteAccount(ctx context.Context) error {
	current := a.session.CurrentUser()
	if current == nil {
		return nil
	}

	confirm, err := getSimpleText(a.reader, "Type your username to confirm account deletion", a.out)
	if err != nil {
		return err
	}
	if confirm != current.Username {
		fmt.Fprintln(a.out, "Aborted.")
		return nil
	}

	if err := a.api.DeleteUser(ctx, current.Username); err != nil {
		return err
	}

	a.session.Logout(ctx)
	a.poller.Reset()
	a.messages.Close()
	fmt.Fprintln(a.out, "Account deleted.")
	return nil
}
