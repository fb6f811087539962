package cli

import (
	"context"
	"fmt"
)

// Matches lists the current user's compatibility suggestions.
func (a *App) Matches(ctx context.Context) error {
	current := a.session.CurrentUser()
	if current == nil {
		return nil
	}

	matches, err := a.api.Matches(ctx, current.Username)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Fprintln(a.out, "No matches yet. Take the quiz and check back later!")
		return nil
	}

	fmt.Fprintf(a.out, "Your matches (%d):\n", len(matches))
	for _, m := range matches {
		fmt.Fprintf(a.out, "  @%-16s %s %s  %s  %s (%.0f mi)\n",
			m.Username, m.FirstName, m.LastName, m.MBTI, m.Location, m.Distance)
	}
	fmt.Fprintln(a.out, "Type 'profile <user>' for details.")
	return nil
}
