package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/typematch/typematch/internal/client/connections"
)

// Connect resolves the relationship with a user and applies the natural
// transition: send a request when there is none, cancel a sent one, accept
// a received one.
func (a *App) Connect(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: connect <user>")
		return nil
	}
	username := args[0]

	current := a.session.CurrentUser()
	if current != nil && current.Username == username {
		fmt.Fprintln(a.out, "That's you!")
		return nil
	}

	user, status, err := a.conns.Resolve(ctx, username)
	if err != nil {
		return err
	}

	switch status.Kind {
	case connections.KindNone:
		if err := a.conns.Send(ctx); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Connection request sent to %s.\n", user.Username)

	case connections.KindSent:
		if err := a.conns.Cancel(ctx); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Connection request to %s cancelled.\n", user.Username)

	case connections.KindReceived:
		if err := a.conns.Accept(ctx); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "You are now connected with %s! Type 'connections' to see everyone.\n", user.FirstName)
		a.poller.Check(ctx)

	case connections.KindConnected:
		fmt.Fprintf(a.out, "You are already connected with %s.\n", user.Username)
	}
	return nil
}

// Requests lists received connection requests and runs a small
// accept/decline loop over them. Viewing the list marks the requests as
// seen.
func (a *App) Requests(ctx context.Context) error {
	pending, err := a.conns.Pending(ctx)
	if err != nil {
		return err
	}

	if err := a.conns.MarkRequestsRead(ctx); err != nil {
		// Seen-state is cosmetic; the list itself is what matters.
		a.log.Debug(ctx, "failed to mark requests read", "err", err)
	}

	if len(pending) == 0 {
		fmt.Fprintln(a.out, "No connection requests.")
		return nil
	}

	fmt.Fprintf(a.out, "Connection requests (%d):\n", len(pending))
	for _, req := range pending {
		fmt.Fprintf(a.out, "  #%-5d %s %s (@%s) wants to connect with you\n",
			req.ConnectionID, req.FirstName, req.LastName, req.Username)
	}

	for {
		input, err := getSimpleText(a.reader, "Type 'accept <id>' or 'decline <id>', or press Enter to go back", a.out)
		if err != nil {
			return err
		}
		if input == "" {
			return nil
		}

		parts := strings.Fields(input)
		if len(parts) != 2 {
			fmt.Fprintln(a.out, "Usage: accept <id> | decline <id>")
			continue
		}
		id, convErr := strconv.ParseInt(parts[1], 10, 64)
		if convErr != nil {
			fmt.Fprintln(a.out, "Not a request id:", parts[1])
			continue
		}

		switch parts[0] {
		case "accept":
			if err := a.conns.AcceptPending(ctx, id); err != nil {
				fmt.Fprintln(a.out, "Error:", err.Error())
				continue
			}
			fmt.Fprintln(a.out, "Accepted. Type 'connections' to see everyone.")
			a.poller.Check(ctx)

		case "decline":
			if err := a.conns.Decline(ctx, id); err != nil {
				fmt.Fprintln(a.out, "Error:", err.Error())
				continue
			}
			fmt.Fprintln(a.out, "Declined.")

		default:
			fmt.Fprintln(a.out, "Usage: accept <id> | decline <id>")
		}

		if len(a.conns.PendingList()) == 0 {
			return nil
		}
	}
}

// Connections lists confirmed connections and optionally removes one.
func (a *App) Connections(ctx context.Context) error {
	conns, err := a.conns.Connected(ctx)
	if err != nil {
		return err
	}

	if len(conns) == 0 {
		fmt.Fprintln(a.out, "No connections yet. Check 'matches' to find people!")
		return nil
	}

	fmt.Fprintf(a.out, "Your connections (%d):\n", len(conns))
	for _, c := range conns {
		marker := " "
		if a.poller.HasNewMessagesFrom(c.Username) {
			marker = "*"
		}
		fmt.Fprintf(a.out, " %s #%-5d %s %s (@%s) %s\n",
			marker, c.ConnectionID, c.FirstName, c.LastName, c.Username, c.MBTI)
	}

	input, err := getSimpleText(a.reader, "Type 'remove <id>' to disconnect, or press Enter to go back", a.out)
	if err != nil {
		return err
	}
	parts := strings.Fields(input)
	if len(parts) == 2 && parts[0] == "remove" {
		id, convErr := strconv.ParseInt(parts[1], 10, 64)
		if convErr != nil {
			fmt.Fprintln(a.out, "Not a connection id:", parts[1])
			return nil
		}
		if err := a.conns.Disconnect(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Disconnected.")
	}
	return nil
}
