package attendance

import (
	"context"
	"time"
)

// Service defines business logic for attendance operations
type Service interface {
	// CheckIn validates the geofence and duplicate rules, then records the
	// check-in with the current office-local time
	CheckIn(ctx context.Context, req CheckInRequest) (CheckResult, error)

	// CheckOut records the check-out on today's existing record
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckResult, error)

	// GetToday retrieves today's record for a user, nil when none exists
	GetToday(ctx context.Context, userID string) (*AttendanceResponse, error)

	// MonthlyStats aggregates present/absent counts and percentages over the
	// rows recorded in the given month
	MonthlyStats(ctx context.Context, userID string, year, month int) (MonthlyStatsResponse, error)

	// ListActivities retrieves records across users (admin view)
	ListActivities(ctx context.Context, filter ActivityFilter) ([]AttendanceResponse, error)

	// MarkAbsent creates/updates records for every user with no attendance
	// and no approved leave on the given date. Returns how many users were
	// marked absent. Idempotent; intended to run once per day after working
	// hours via the scheduler.
	MarkAbsent(ctx context.Context, date time.Time) (int, error)
}
