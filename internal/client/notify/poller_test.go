package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/typematch/typematch/internal/client/models"
	"github.com/typematch/typematch/internal/logging"
)

type fakeGateway struct {
	mu      sync.Mutex
	pending []models.Connection
	unread  []models.Message

	pendingErr error
	unreadErr  error

	expired bool
	calls   int
}

func (f *fakeGateway) PendingRequests(ctx context.Context) ([]models.Connection, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.pending, f.pendingErr
}

func (f *fakeGateway) UnreadMessages(ctx context.Context) ([]models.Message, error) {
	return f.unread, f.unreadErr
}

func (f *fakeGateway) IsTokenExpired() bool { return f.expired }

type fakeSession struct {
	user *models.User
}

func (f *fakeSession) CurrentUser() *models.User { return f.user }

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCheck_NoUserIsNoOp(t *testing.T) {
	gw := &fakeGateway{pending: []models.Connection{{ConnectionID: 1}}}
	p := NewPoller(gw, &fakeSession{}, testLogger())

	p.Check(context.Background())

	require.Zero(t, gw.calls, "logged out: no queries issued")
	require.False(t, p.HasNotifications())
}

func TestCheck_ExpiredTokenIsNoOp(t *testing.T) {
	gw := &fakeGateway{expired: true, pending: []models.Connection{{ConnectionID: 1}}}
	p := NewPoller(gw, &fakeSession{user: &models.User{Username: "alice"}}, testLogger())

	p.Check(context.Background())

	require.Zero(t, gw.calls)
	require.False(t, p.HasNotifications())
}

func TestCheck_UpdatesDerivedState(t *testing.T) {
	gw := &fakeGateway{
		pending: []models.Connection{{ConnectionID: 7}},
		unread: []models.Message{
			{ID: 1, SenderUsername: "bob"},
			{ID: 2, SenderUsername: "carol"},
			{ID: 3, SenderUsername: "bob"},
		},
	}
	p := NewPoller(gw, &fakeSession{user: &models.User{Username: "alice"}}, testLogger())

	p.Check(context.Background())

	require.True(t, p.HasNotifications())
	require.Equal(t, []string{"bob", "carol"}, p.NewMessageSenders())
	require.True(t, p.HasNewMessagesFrom("bob"))
	require.False(t, p.HasNewMessagesFrom("dave"))
}

func TestCheck_NoPendingClearsBadge(t *testing.T) {
	gw := &fakeGateway{pending: []models.Connection{{ConnectionID: 7}}}
	p := NewPoller(gw, &fakeSession{user: &models.User{Username: "alice"}}, testLogger())

	p.Check(context.Background())
	require.True(t, p.HasNotifications())

	gw.pending = nil
	p.Check(context.Background())
	require.False(t, p.HasNotifications())
}

func TestCheck_FailureKeepsPreviousState(t *testing.T) {
	gw := &fakeGateway{
		pending: []models.Connection{{ConnectionID: 7}},
		unread:  []models.Message{{ID: 1, SenderUsername: "bob"}},
	}
	p := NewPoller(gw, &fakeSession{user: &models.User{Username: "alice"}}, testLogger())

	p.Check(context.Background())
	require.True(t, p.HasNotifications())
	require.True(t, p.HasNewMessagesFrom("bob"))

	gw.pending = nil
	gw.unreadErr = errors.New("boom")
	p.Check(context.Background())

	require.True(t, p.HasNotifications(), "a failed check leaves the stale state standing")
	require.True(t, p.HasNewMessagesFrom("bob"))
}

func TestReset(t *testing.T) {
	gw := &fakeGateway{
		pending: []models.Connection{{ConnectionID: 7}},
		unread:  []models.Message{{ID: 1, SenderUsername: "bob"}},
	}
	p := NewPoller(gw, &fakeSession{user: &models.User{Username: "alice"}}, testLogger())

	p.Check(context.Background())
	p.Reset()

	require.False(t, p.HasNotifications())
	require.Empty(t, p.NewMessageSenders())
}
