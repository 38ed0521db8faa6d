package ports

import "context"

// UserResult is the safe registration DTO: never carries the hash.
type UserResult struct {
	ID    string
	Email string
}

// AuthService exposes the session-lifecycle use cases.
type AuthService interface {
	Register(ctx context.Context, email, password string) (UserResult, error)
	Login(ctx context.Context, email, password string) (AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (AuthTokens, error)
	Logout(ctx context.Context, accessToken string) error
}
