package cli

import (
	"context"
	"fmt"

	"github.com/typematch/typematch/internal/client/models"
)

func (a *App) printMessage(current *models.User, msg models.Message) {
	direction := "<"
	if current != nil && msg.SenderID == current.ID {
		direction = ">"
	}
	fmt.Fprintf(a.out, "  %s %s  %s\n", direction, msg.CreatedAt.Local().Format("Jan 2 15:04"), msg.Content)
}

// Messages opens the conversation with a user and enters a send loop.
// Opening marks unread incoming messages as read; an empty line leaves the
// conversation.
func (a *App) Messages(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: messages <user>")
		return nil
	}
	peer := args[0]
	current := a.session.CurrentUser()

	history, err := a.messages.Open(ctx, peer)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Chat with %s (%d messages, empty line to leave):\n", peer, len(history))
	for _, msg := range history {
		a.printMessage(current, msg)
	}

	for {
		input, err := getSimpleText(a.reader, "", a.out)
		if err != nil {
			return err
		}
		if input == "" {
			return nil
		}

		msg, err := a.messages.Send(ctx, input)
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err.Error())
			continue
		}
		if msg != nil {
			a.printMessage(current, *msg)
		}
	}
}
