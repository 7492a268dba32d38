package leave

import (
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

type ApplyRequest struct {
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

func (r *ApplyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}
	if !IsValidType(Type(r.Type)) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be one of: sick, casual, annual, emergency, other"})
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewRequest struct {
	LeaveID      string  `json:"leave_id"`
	Status       string  `json:"status"` // approved | declined
	AdminRemarks *string `json:"admin_remarks,omitempty"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveID) {
		errs = append(errs, validator.ValidationError{Field: "leave_id", Message: "leave_id is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	UserName     string  `json:"user_name"`
	Type         string  `json:"type"`
	Reason       string  `json:"reason"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Status       string  `json:"status"`
	AdminRemarks *string `json:"admin_remarks,omitempty"`
	CreatedAt    string  `json:"created_at"`
}
