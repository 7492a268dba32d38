package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrAlreadyCheckedOut = errors.New("you have already checked out today")
	ErrNotCheckedIn      = errors.New("you must check in before checking out")
	ErrPhotoRequired     = errors.New("attendance proof photo is required")

	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// OutOfRangeError is returned when a check-in/check-out is attempted outside
// the office geofence. It carries the computed distance so callers can render
// exact feedback.
type OutOfRangeError struct {
	DistanceMeters float64
	AllowedMeters  float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("you are too far from the office: distance %.2f meters, required within %.0f meters",
		e.DistanceMeters, e.AllowedMeters)
}
