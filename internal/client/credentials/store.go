// Package credentials persists the session token and the last-used username
// across program runs, in a small local SQLite database. It is the durable
// half of the session state; the in-memory half lives in the session
// controller, which keeps the two synchronized on every transition.
package credentials

import "context"

// Well-known keys.
const (
	KeyToken    = "token"
	KeyUsername = "username"
)

// Store is a durable key-value area for session credentials. SetMany
// writes its pairs atomically.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
