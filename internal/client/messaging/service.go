// Package messaging handles direct-message conversations: loading a
// conversation marks unread incoming messages as read, and sending appends
// the server-recorded message to the local history.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/typematch/typematch/internal/client/models"
	"github.com/typematch/typematch/internal/logging"
)

// ErrNoConversation is returned by Send before a conversation was opened.
var ErrNoConversation = errors.New("no open conversation")

// Gateway is the slice of the API client the service needs.
type Gateway interface {
	Messages(ctx context.Context, username string) ([]models.Message, error)
	SendMessage(ctx context.Context, username, content string) (*models.Message, error)
	MarkMessageRead(ctx context.Context, messageID int64) (*models.Message, error)
}

// Session exposes who is currently logged in.
type Session interface {
	CurrentUser() *models.User
}

// Notifier is poked after read flags change.
type Notifier interface {
	Check(ctx context.Context)
}

// Service holds one open conversation at a time.
type Service struct {
	api      Gateway
	session  Session
	notifier Notifier
	log      logging.Logger

	mu      sync.Mutex
	peer    string
	history []models.Message
}

func NewService(gw Gateway, session Session, notifier Notifier, log logging.Logger) *Service {
	return &Service{api: gw, session: session, notifier: notifier, log: log}
}

// Open fetches the conversation with peer, marks every unread message
// addressed to the current user as read, and refreshes the notification
// state. Messages sent by the current user, and messages already read, keep
// their flags untouched.
func (s *Service) Open(ctx context.Context, peer string) ([]models.Message, error) {
	msgs, err := s.api.Messages(ctx, peer)
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}

	if cur := s.session.CurrentUser(); cur != nil {
		for i := range msgs {
			if !msgs[i].IsRead && msgs[i].RecipientID == cur.ID {
				if _, err := s.api.MarkMessageRead(ctx, msgs[i].ID); err != nil {
					return nil, fmt.Errorf("mark message read: %w", err)
				}
				msgs[i].IsRead = true
			}
		}
	}

	if s.notifier != nil {
		s.notifier.Check(ctx)
	}

	s.mu.Lock()
	s.peer = peer
	s.history = msgs
	s.mu.Unlock()

	return s.History(), nil
}

// Send posts content to the open conversation and appends the stored
// message to the local history exactly once.
func (s *Service) Send(ctx context.Context, content string) (*models.Message, error) {
	s.mu.Lock()
	peer := s.peer
	s.mu.Unlock()

	if peer == "" {
		return nil, ErrNoConversation
	}

	msg, err := s.api.SendMessage(ctx, peer, content)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	if msg != nil {
		s.mu.Lock()
		s.history = append(s.history, *msg)
		s.mu.Unlock()
	}
	return msg, nil
}

// Peer returns the username of the open conversation, or "".
func (s *Service) Peer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peer
}

// History returns a copy of the open conversation.
func (s *Service) History() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Close forgets the open conversation.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peer = ""
	s.history = nil
}
