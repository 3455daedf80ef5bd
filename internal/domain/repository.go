package domain

import "context"

// UserRepository defines access methods for relay accounts.
type UserRepository interface {
	Register(ctx context.Context, email, password string) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*User, error)
}
