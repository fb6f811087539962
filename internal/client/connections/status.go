// Package connections resolves and mutates the relationship between the
// current user and another profile: none, sent, received, or connected.
package connections

import "github.com/typematch/typematch/internal/client/models"

// Kind classifies the relationship with a viewed profile.
type Kind int

const (
	KindNone Kind = iota
	KindSent
	KindReceived
	KindConnected
)

func (k Kind) String() string {
	switch k {
	case KindSent:
		return "sent"
	case KindReceived:
		return "received"
	case KindConnected:
		return "connected"
	default:
		return "none"
	}
}

// Status is the resolved relationship with a profile. ConnectionID is the
// row behind the classification, needed for cancel/accept calls; it is zero
// for KindNone and after a local accept.
type Status struct {
	Kind         Kind
	ConnectionID int64
}

// Classify resolves target's relationship from the three server-provided
// collections as an explicit ranked match: a confirmed connection always
// wins, then a received request, then a sent one. Stale rows in
// lower-ranked collections cannot mask a confirmed connection.
func Classify(target string, sent, received, confirmed []models.Connection) Status {
	ranked := []struct {
		kind Kind
		rows []models.Connection
	}{
		{KindConnected, confirmed},
		{KindReceived, received},
		{KindSent, sent},
	}

	for _, r := range ranked {
		for _, row := range r.rows {
			if row.Username == target {
				return Status{Kind: r.kind, ConnectionID: row.ConnectionID}
			}
		}
	}
	return Status{Kind: KindNone}
}
