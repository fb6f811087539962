package models

// Connection is a row from one of the three relationship collections the
// server exposes: sent requests, received (pending) requests, and confirmed
// connections. The same shape is used for all three.
type Connection struct {
	ConnectionID int64  `json:"connectionId"`
	Username     string `json:"username"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	MBTI         string `json:"mbti,omitempty"`
	Bio          string `json:"bio,omitempty"`
	ProfilePic   string `json:"profilePic,omitempty"`
	Status       string `json:"status,omitempty"`
}
