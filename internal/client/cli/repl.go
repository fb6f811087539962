package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Profile(ctx context.Context, args []string) error
	EditProfile(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	Quiz(ctx context.Context) error
	Result(ctx context.Context) error
	Matches(ctx context.Context) error
	Requests(ctx context.Context) error
	Connections(ctx context.Context) error
	Connect(ctx context.Context, args []string) error
	Messages(ctx context.Context, args []string) error
	Notifications(ctx context.Context) error
}

// authedCommands require an authenticated session; the REPL is the route
// guard and refuses them otherwise.
var authedCommands = map[string]struct{}{
	"whoami":         {},
	"profile":        {},
	"edit":           {},
	"delete-account": {},
	"quiz":           {},
	"result":         {},
	"matches":        {},
	"requests":       {},
	"connections":    {},
	"connect":        {},
	"messages":       {},
	"notifications":  {},
	"logout":         {},
}

// runREPL starts a read–eval–print loop for the TypeMatch CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are printed here and otherwise
// ignored, keeping the loop resilient.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tm %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		if _, needsAuth := authedCommands[cmd]; needsAuth && !a.isLoggedIn() {
			printlnFn("Please log in first (type 'login' or 'signup').")
			continue
		}

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, profile [user], edit, matches, quiz, result, requests, connections, connect <user>, messages <user>, notifications, delete-account, logout, exit")
			} else {
				printlnFn("Available commands: login, signup, exit")
			}

		case "login":
			err = a.Login(ctx)

		case "signup":
			err = a.Signup(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.Whoami(ctx)

		case "profile":
			err = a.Profile(ctx, args)

		case "edit":
			err = a.EditProfile(ctx)

		case "delete-account":
			err = a.DeleteAccount(ctx)

		case "quiz":
			err = a.Quiz(ctx)

		case "result":
			err = a.Result(ctx)

		case "matches":
			err = a.Matches(ctx)

		case "requests":
			err = a.Requests(ctx)

		case "connections":
			err = a.Connections(ctx)

		case "connect":
			err = a.Connect(ctx, args)

		case "messages":
			err = a.Messages(ctx, args)

		case "notifications":
			err = a.Notifications(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
