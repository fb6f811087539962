// Package models defines the data types exchanged with the TypeMatch API.
package models

// User is the profile record for the authenticated user or a viewed profile.
// MBTI is empty until the user has completed the quiz.
type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	BirthDate  string `json:"birthDate"`
	Location   string `json:"location"`
	Bio        string `json:"bio"`
	ProfilePic string `json:"profilePic"`
	MBTI       string `json:"mbti"`

	// Populated only on the profile endpoint.
	MBTIDetails *MBTIDetails `json:"mbtiDetails,omitempty"`
}

// MBTIDetails describes a personality type.
type MBTIDetails struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Site        string `json:"site"`
}

// Match is a compatibility suggestion for the current user.
type Match struct {
	Username   string  `json:"username"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	MBTI       string  `json:"mbti"`
	Location   string  `json:"location"`
	Distance   float64 `json:"distance"`
	Bio        string  `json:"bio"`
	ProfilePic string  `json:"profilePic"`
}
