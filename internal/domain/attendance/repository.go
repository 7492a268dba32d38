package attendance

import (
	"context"
	"time"
)

// Repository defines data access methods for attendance records. One row per
// (user_id, date); the table carries a unique constraint on that pair.
type Repository interface {
	// GetByUserAndDate retrieves the record for a user on a date, nil when none
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// ClaimCheckIn atomically inserts today's record or fills the check-in
	// fields of an existing row that has no check-in yet (e.g. one created by
	// the absence marker). Returns ErrAlreadyCheckedIn when the row already
	// has a check-in timestamp, which makes the loser of a concurrent race
	// fail cleanly instead of producing a duplicate row.
	ClaimCheckIn(ctx context.Context, att Attendance) (Attendance, error)

	// Update persists mutations to an existing record (check-out, flags)
	Update(ctx context.Context, att Attendance) error

	// CreateAbsence inserts an absence-marker row; a concurrent row for the
	// same (user, date) wins and the insert is silently skipped
	CreateAbsence(ctx context.Context, att Attendance) error

	// ListByUserAndRange retrieves a user's records with date in [from, to],
	// ordered by date ascending
	ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]Attendance, error)

	// ListActivities retrieves records across users for the admin activity view
	ListActivities(ctx context.Context, filter ActivityFilter) ([]Attendance, error)
}
