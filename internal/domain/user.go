package domain

import "time"

// User is an account allowed to call the relay. Requests authenticate with
// the APIKey issued at registration.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	APIKey       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
