package response

import (
	"errors"
	"net/http"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/auth"
	"github.com/attendly/attendance-backend-go/internal/domain/leave"
	"github.com/attendly/attendance-backend-go/internal/domain/office"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Geofence violations carry the computed distance
	var outOfRange *attendance.OutOfRangeError
	if errors.As(err, &outOfRange) {
		BadRequest(w, outOfRange.Error(), nil)
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrAccountNotSetUp):
		Forbidden(w, "Account has not completed signup")
	case errors.Is(err, auth.ErrPasswordMismatch):
		BadRequest(w, "Passwords do not match", nil)
	case errors.Is(err, auth.ErrPasswordTooShort):
		BadRequest(w, "Password must be at least 8 characters", nil)

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "You have already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "You have already checked out today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "You must check in before checking out", nil)
	case errors.Is(err, attendance.ErrPhotoRequired):
		BadRequest(w, "Attendance proof photo is required", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveNotFound):
		NotFound(w, "Leave application not found")
	case errors.Is(err, leave.ErrAlreadyProcessed):
		Conflict(w, "Leave application already processed")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "Start date cannot be after end date", nil)
	case errors.Is(err, leave.ErrStartDateInPast):
		BadRequest(w, "Start date cannot be in the past", nil)
	case errors.Is(err, leave.ErrInvalidLeaveType):
		BadRequest(w, "Invalid leave type", nil)
	case errors.Is(err, leave.ErrInvalidReviewStatus):
		BadRequest(w, "Review status must be approved or declined", nil)

	// Office domain errors
	case errors.Is(err, office.ErrNotConfigured):
		NotFound(w, "Office location not configured")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
