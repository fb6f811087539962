package cli

import (
	"context"
	"fmt"
	"strings"
)

// Notifications refreshes and prints the notification state on demand.
func (a *App) Notifications(ctx context.Context) error {
	a.poller.Check(ctx)

	if a.poller.HasNotifications() {
		fmt.Fprintln(a.out, "You have pending connection requests. Type 'requests'.")
	}

	if senders := a.poller.NewMessageSenders(); len(senders) > 0 {
		fmt.Fprintf(a.out, "New messages from: %s\n", strings.Join(senders, ", "))
	} else if !a.poller.HasNotifications() {
		fmt.Fprintln(a.out, "Nothing new.")
	}
	return nil
}
