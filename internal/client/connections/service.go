package connections

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/typematch/typematch/internal/client/models"
)

// ErrNoProfile is returned by transition actions before Resolve has run.
var ErrNoProfile = errors.New("no profile resolved")

// ErrInvalidTransition is returned when an action does not apply to the
// current classification, e.g. cancelling a request that was never sent.
var ErrInvalidTransition = errors.New("invalid connection transition")

// Gateway is the slice of the API client the service needs.
type Gateway interface {
	UserProfile(ctx context.Context, username string) (*models.User, error)
	SentRequests(ctx context.Context) ([]models.Connection, error)
	PendingRequests(ctx context.Context) ([]models.Connection, error)
	Connections(ctx context.Context) ([]models.Connection, error)
	SendConnectionRequest(ctx context.Context, username string) (int64, error)
	AcceptConnectionRequest(ctx context.Context, connectionID int64) error
	CancelConnectionRequest(ctx context.Context, connectionID int64) error
	DeclineConnectionRequest(ctx context.Context, connectionID int64) error
	Disconnect(ctx context.Context, connectionID int64) error
	MarkRequestsRead(ctx context.Context) error
}

// Notifier is poked after actions that change the pending-request count.
type Notifier interface {
	Check(ctx context.Context)
}

// Service resolves a viewed profile's relationship classification and
// applies transitions to it. Successful actions mutate the held Status
// locally, with the shape the corresponding server action is known to
// produce, so no refetch round-trip is needed.
type Service struct {
	api      Gateway
	notifier Notifier

	mu      sync.Mutex
	profile *models.User
	status  Status
	pending []models.Connection
}

func NewService(gw Gateway, notifier Notifier) *Service {
	return &Service{api: gw, notifier: notifier}
}

// Resolve fetches the profile plus the three relationship collections
// (concurrently, as one settled batch) and classifies the relationship.
func (s *Service) Resolve(ctx context.Context, username string) (*models.User, Status, error) {
	user, err := s.api.UserProfile(ctx, username)
	if err != nil {
		return nil, Status{}, fmt.Errorf("fetch profile: %w", err)
	}
	if user == nil {
		return nil, Status{}, fmt.Errorf("fetch profile: user %q not found", username)
	}

	var sent, received, confirmed []models.Connection
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sent, err = s.api.SentRequests(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		received, err = s.api.PendingRequests(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		confirmed, err = s.api.Connections(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, Status{}, fmt.Errorf("fetch connection state: %w", err)
	}

	status := Classify(user.Username, sent, received, confirmed)

	s.mu.Lock()
	s.profile = user
	s.status = status
	s.mu.Unlock()

	return user, status, nil
}

// Status returns the classification from the last Resolve, as mutated by
// any actions since.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Send sends a connection request to the resolved profile. On success the
// classification moves none → sent, adopting the created request's ID.
func (s *Service) Send(ctx context.Context) error {
	s.mu.Lock()
	profile := s.profile
	status := s.status
	s.mu.Unlock()

	if profile == nil {
		return ErrNoProfile
	}
	if status.Kind != KindNone {
		return fmt.Errorf("%w: send from %s", ErrInvalidTransition, status.Kind)
	}

	id, err := s.api.SendConnectionRequest(ctx, profile.Username)
	if err != nil {
		return fmt.Errorf("send connection request: %w", err)
	}

	s.mu.Lock()
	s.status = Status{Kind: KindSent, ConnectionID: id}
	s.mu.Unlock()
	return nil
}

// Cancel withdraws the sent request. On success the classification moves
// sent → none.
func (s *Service) Cancel(ctx context.Context) error {
	s.mu.Lock()
	status := s.status
	s.mu.Unlock()

	if status.Kind != KindSent {
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, status.Kind)
	}

	if err := s.api.CancelConnectionRequest(ctx, status.ConnectionID); err != nil {
		return fmt.Errorf("cancel connection request: %w", err)
	}

	s.mu.Lock()
	s.status = Status{Kind: KindNone}
	s.mu.Unlock()
	return nil
}

// Accept confirms the received request. On success the classification moves
// received → connected; the connection ID is not tracked locally past this
// point (callers typically navigate to the connections view next).
func (s *Service) Accept(ctx context.Context) error {
	s.mu.Lock()
	status := s.status
	s.mu.Unlock()

	if status.Kind != KindReceived {
		return fmt.Errorf("%w: accept from %s", ErrInvalidTransition, status.Kind)
	}

	if err := s.api.AcceptConnectionRequest(ctx, status.ConnectionID); err != nil {
		return fmt.Errorf("accept connection request: %w", err)
	}

	s.mu.Lock()
	s.status = Status{Kind: KindConnected}
	s.mu.Unlock()
	return nil
}

// Pending fetches the received-requests list and caches it for the
// list-level accept/decline flow.
func (s *Service) Pending(ctx context.Context) ([]models.Connection, error) {
	requests, err := s.api.PendingRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch pending requests: %w", err)
	}

	s.mu.Lock()
	s.pending = requests
	s.mu.Unlock()
	return requests, nil
}

// PendingList returns the cached pending requests.
func (s *Service) PendingList() []models.Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Connection, len(s.pending))
	copy(out, s.pending)
	return out
}

// AcceptPending accepts a request from the pending list and removes it
// locally.
func (s *Service) AcceptPending(ctx context.Context, connectionID int64) error {
	if err := s.api.AcceptConnectionRequest(ctx, connectionID); err != nil {
		return fmt.Errorf("accept connection request: %w", err)
	}
	s.removePending(connectionID)
	return nil
}

// Decline rejects a request from the pending list, removes it locally, and
// refreshes the notification state immediately.
func (s *Service) Decline(ctx context.Context, connectionID int64) error {
	if err := s.api.DeclineConnectionRequest(ctx, connectionID); err != nil {
		return fmt.Errorf("decline connection request: %w", err)
	}
	s.removePending(connectionID)
	if s.notifier != nil {
		s.notifier.Check(ctx)
	}
	return nil
}

func (s *Service) removePending(connectionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.pending[:0]
	for _, req := range s.pending {
		if req.ConnectionID != connectionID {
			kept = append(kept, req)
		}
	}
	s.pending = kept
}

// Connected fetches the confirmed connections.
func (s *Service) Connected(ctx context.Context) ([]models.Connection, error) {
	conns, err := s.api.Connections(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch connections: %w", err)
	}
	return conns, nil
}

// Disconnect removes a confirmed connection.
func (s *Service) Disconnect(ctx context.Context, connectionID int64) error {
	if err := s.api.Disconnect(ctx, connectionID); err != nil {
		return fmt.Errorf("remove connection: %w", err)
	}
	return nil
}

// MarkRequestsRead flags all pending requests as seen and refreshes the
// notification state.
func (s *Service) MarkRequestsRead(ctx context.Context) error {
	if err := s.api.MarkRequestsRead(ctx); err != nil {
		return fmt.Errorf("mark requests read: %w", err)
	}
	if s.notifier != nil {
		s.notifier.Check(ctx)
	}
	return nil
}
