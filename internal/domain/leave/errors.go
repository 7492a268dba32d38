package leave

import "errors"

var (
	ErrLeaveNotFound        = errors.New("leave application not found")
	ErrAlreadyProcessed     = errors.New("leave application has already been processed")
	ErrInvalidDateRange     = errors.New("start date cannot be after end date")
	ErrStartDateInPast      = errors.New("start date cannot be in the past")
	ErrInvalidLeaveType     = errors.New("invalid leave type")
	ErrInvalidReviewStatus  = errors.New("invalid review status: use approved or declined")
)
