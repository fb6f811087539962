package api

import "errors"

var (
	// ErrUnauthorized matches any 401 response. Use errors.Is.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable indicates the server could not be reached at all.
	ErrUnavailable = errors.New("server unavailable")
)

// genericRequestError is the fallback message when the server body carries
// no usable "error" field.
const genericRequestError = "API request failed"

// Error is a failure reported by the server. Message is the server-provided
// error text, surfaced verbatim to the initiating caller.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *Error) Unwrap() error {
	if e.Status == 401 {
		return ErrUnauthorized
	}
	return nil
}
