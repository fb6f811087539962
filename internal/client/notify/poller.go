// Package notify derives the notification badge state: whether any
// connection requests are pending and which peers have unread messages. The
// state is a non-authoritative cache, recomputed on demand and safe to
// discard at any time.
package notify

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/typematch/typematch/internal/client/models"
	"github.com/typematch/typematch/internal/logging"
)

// Gateway is the slice of the API client the poller queries.
type Gateway interface {
	PendingRequests(ctx context.Context) ([]models.Connection, error)
	UnreadMessages(ctx context.Context) ([]models.Message, error)
	IsTokenExpired() bool
}

// Session exposes who is currently logged in.
type Session interface {
	CurrentUser() *models.User
}

// Poller recomputes notification state from the server. Check may be called
// repeatedly from independent views; a mutex keeps overlapping calls from
// interleaving partial writes.
type Poller struct {
	api     Gateway
	session Session
	log     logging.Logger

	mu               sync.Mutex
	hasNotifications bool
	senders          map[string]struct{}
}

func NewPoller(gw Gateway, session Session, log logging.Logger) *Poller {
	return &Poller{
		api:     gw,
		session: session,
		log:     log,
		senders: map[string]struct{}{},
	}
}

// Check queries pending requests and unread messages concurrently and
// updates the derived state once both have settled. It is a no-op without a
// current user or with an expired token. On any failure the previous state
// stands; staleness is an acceptable degradation, so errors are logged and
// never returned.
func (p *Poller) Check(ctx context.Context) {
	if p.session.CurrentUser() == nil || p.api.IsTokenExpired() {
		return
	}

	var (
		pending []models.Connection
		unread  []models.Message
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pending, err = p.api.PendingRequests(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		unread, err = p.api.UnreadMessages(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		p.log.Warn(ctx, "notification check failed", "err", err)
		return
	}

	senders := make(map[string]struct{}, len(unread))
	for _, m := range unread {
		if m.SenderUsername != "" {
			senders[m.SenderUsername] = struct{}{}
		}
	}

	p.mu.Lock()
	p.hasNotifications = len(pending) > 0
	p.senders = senders
	p.mu.Unlock()
}

// HasNotifications reports whether any connection requests are pending.
func (p *Poller) HasNotifications() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasNotifications
}

// NewMessageSenders returns the usernames with unread messages, sorted.
func (p *Poller) NewMessageSenders() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.senders))
	for u := range p.senders {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// HasNewMessagesFrom reports whether username has unread messages.
func (p *Poller) HasNewMessagesFrom(username string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.senders[username]
	return ok
}

// Reset empties the derived state. Called whenever the current user goes
// away.
func (p *Poller) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hasNotifications = false
	p.senders = map[string]struct{}{}
}
