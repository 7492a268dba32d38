package leave

import "context"

// Service defines business logic for leave applications
type Service interface {
	// Apply submits a leave application; status starts as pending
	Apply(ctx context.Context, req ApplyRequest) (LeaveResponse, error)

	// ListByUser retrieves a user's leave applications
	ListByUser(ctx context.Context, userID string) ([]LeaveResponse, error)

	// ListPending retrieves all pending applications (admin)
	ListPending(ctx context.Context) ([]LeaveResponse, error)

	// Review approves or declines a pending application exactly once
	Review(ctx context.Context, req ReviewRequest) (LeaveResponse, error)
}
