package db

import "time"

// User is a Spotify user known to the application.
type User struct {
	ID          string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Session is an authenticated web session with its OAuth tokens.
type Session struct {
	ID           string
	UserID       string
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
	CreatedAt    time.Time
	ExpiresAt    time.Time
}
