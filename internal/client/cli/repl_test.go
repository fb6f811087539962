package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	loggedIn bool
	calls    []string
	errs     map[string]error
}

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	if s.errs != nil {
		return s.errs[name]
	}
	return nil
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }
func (s *stubExec) Login(ctx context.Context) error { return s.record("login") }
func (s *stubExec) Signup(ctx context.Context) error { return s.record("signup") }
func (s *stubExec) Logout(ctx context.Context) error { return s.record("logout") }
func (s *stubExec) Whoami(ctx context.Context) error { return s.record("whoami") }
func (s *stubExec) Profile(ctx context.Context, args []string) error {
	return s.record("profile " + strings.Join(args, " "))
}
func (s *stubExec) EditProfile(ctx context.Context) error { return s.record("edit") }
func (s *stubExec) DeleteAccount(ctx context.Context) error { return s.record("delete-account") }
func (s *stubExec) Quiz(ctx context.Context) error { return s.record("quiz") }
func (s *stubExec) Result(ctx context.Context) error { return s.record("result") }
func (s *stubExec) Matches(ctx context.Context) error { return s.record("matches") }
func (s *stubExec) Requests(ctx context.Context) error { return s.record("requests") }
func (s *stubExec) Connections(ctx context.Context) error { return s.record("connections") }
func (s *stubExec) Connect(ctx context.Context, args []string) error {
	return s.record("connect " + strings.Join(args, " "))
}
func (s *stubExec) Messages(ctx context.Context, args []string) error {
	return s.record("messages " + strings.Join(args, " "))
}
func (s *stubExec) Notifications(ctx context.Context) error { return s.record("notifications") }

// captureOutput swaps the println seam and returns collected lines.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func runWithInput(t *testing.T, exec *stubExec, input string) []string {
	t.Helper()
	lines := captureOutput(t)
	scanner := bufio.NewScanner(strings.NewReader(input))
	runREPL(context.Background(), exec, func() string { return "" }, scanner)
	return *lines
}

func TestREPL_DispatchesCommands(t *testing.T) {
	exec := &stubExec{loggedIn: true}
	runWithInput(t, exec, "whoami\nmatches\nconnect bob\nmessages bob\nexit\n")

	require.Equal(t, []string{"whoami", "matches", "connect bob", "messages bob"}, exec.calls)
}

func TestREPL_RouteGuardBlocksAuthedCommands(t *testing.T) {
	exec := &stubExec{loggedIn: false}
	out := runWithInput(t, exec, "whoami\nquiz\nexit\n")

	require.Empty(t, exec.calls, "authed commands must not reach handlers while logged out")
	joined := strings.Join(out, "")
	require.Contains(t, joined, "Please log in first")
}

func TestREPL_LoginAllowedWhileLoggedOut(t *testing.T) {
	exec := &stubExec{loggedIn: false}
	runWithInput(t, exec, "login\nsignup\nexit\n")

	require.Equal(t, []string{"login", "signup"}, exec.calls)
}

func TestREPL_UnknownCommandReported(t *testing.T) {
	exec := &stubExec{loggedIn: true}
	out := runWithInput(t, exec, "frobnicate\nexit\n")

	require.Empty(t, exec.calls)
	require.Contains(t, strings.Join(out, ""), "Unknown command: frobnicate")
}

func TestREPL_HandlerErrorPrintedLoopContinues(t *testing.T) {
	exec := &stubExec{
		loggedIn: true,
		errs:     map[string]error{"matches": errors.New("backend unavailable")},
	}
	out := runWithInput(t, exec, "matches\nwhoami\nexit\n")

	require.Equal(t, []string{"matches", "whoami"}, exec.calls)
	require.Contains(t, strings.Join(out, ""), "Error: backend unavailable")
}

func TestREPL_BlankLineIgnored(t *testing.T) {
	exec := &stubExec{loggedIn: true}
	runWithInput(t, exec, "\n   \nwhoami\nexit\n")
	require.Equal(t, []string{"whoami"}, exec.calls)
}

func TestREPL_EOFExits(t *testing.T) {
	exec := &stubExec{loggedIn: true}
	runWithInput(t, exec, "whoami\n")
	require.Equal(t, []string{"whoami"}, exec.calls)
}

func TestREPL_HelpReflectsAuthState(t *testing.T) {
	out := runWithInput(t, &stubExec{loggedIn: false}, "help\nexit\n")
	require.Contains(t, strings.Join(out, ""), "login, signup, exit")

	out = runWithInput(t, &stubExec{loggedIn: true}, "help\nexit\n")
	require.Contains(t, strings.Join(out, ""), "whoami")
}
