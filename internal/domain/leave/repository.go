package leave

import (
	"context"
	"time"
)

// Repository defines data access methods for leave applications.
type Repository interface {
	// Create creates a new leave application
	Create(ctx context.Context, l Leave) (Leave, error)

	// GetByID retrieves a leave by ID; returns ErrLeaveNotFound when missing
	GetByID(ctx context.Context, id string) (Leave, error)

	// ListByUser retrieves a user's leaves, newest first
	ListByUser(ctx context.Context, userID string) ([]Leave, error)

	// ListPending retrieves all pending leaves, newest first
	ListPending(ctx context.Context) ([]Leave, error)

	// Update persists status/remarks changes; only a pending application
	// transitions, otherwise ErrAlreadyProcessed
	Update(ctx context.Context, l Leave) error

	// HasApprovedLeaveOn reports whether an approved leave covers the date
	HasApprovedLeaveOn(ctx context.Context, userID string, date time.Time) (bool, error)
}
