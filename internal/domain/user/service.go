package user

import "context"

// Service defines user profile and account management logic
type Service interface {
	// GetProfile retrieves a user's profile
	GetProfile(ctx context.Context, userID string) (UserResponse, error)

	// UpdateProfile applies partial profile changes, including an optional
	// new profile picture
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (UserResponse, error)

	// Create provisions an account without a password (admin)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)

	// List retrieves all users (admin)
	List(ctx context.Context) ([]UserResponse, error)
}
