package user

import "context"

// Repository defines data access methods for user accounts.
type Repository interface {
	// Create creates a new user and returns it with generated fields set
	Create(ctx context.Context, u User) (User, error)

	// GetByID retrieves a user by ID; returns ErrUserNotFound when missing
	GetByID(ctx context.Context, id string) (User, error)

	// GetByEmail retrieves a user by email; returns ErrUserNotFound when missing
	GetByEmail(ctx context.Context, email string) (User, error)

	// EmailExists reports whether email is taken by a user other than excludeID
	EmailExists(ctx context.Context, email string, excludeID string) (bool, error)

	// Update persists profile changes
	Update(ctx context.Context, u User) error

	// List retrieves all users ordered by name
	List(ctx context.Context) ([]User, error)
}
