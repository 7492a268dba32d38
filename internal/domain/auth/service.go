package auth

import "context"

// Service defines authentication business logic
type Service interface {
	// Signup registers a new account, or completes setup for a placeholder
	// account created by an admin (one that has no password yet)
	Signup(ctx context.Context, req SignupRequest) (LoginResponse, error)

	// Login verifies credentials and issues tokens
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
}
