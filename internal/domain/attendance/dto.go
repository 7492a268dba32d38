package attendance

import (
	"mime/multipart"
	"time"

	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

type CheckInRequest struct {
	UserID     string                `json:"user_id"`
	Latitude   float64               `json:"latitude"`
	Longitude  float64               `json:"longitude"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	return validateCheckRequest(r.UserID, r.Latitude, r.Longitude)
}

type CheckOutRequest struct {
	UserID     string                `json:"user_id"`
	Latitude   float64               `json:"latitude"`
	Longitude  float64               `json:"longitude"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	return validateCheckRequest(r.UserID, r.Latitude, r.Longitude)
}

func validateCheckRequest(userID string, lat, lon float64) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(userID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	if lat < -90 || lat > 90 {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	if lon < -180 || lon > 180 {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID                  string   `json:"id"`
	UserID              string   `json:"user_id"`
	UserName            string   `json:"user_name"`
	Date                string   `json:"date"`
	CheckInTime         *string  `json:"check_in_time,omitempty"`
	CheckOutTime        *string  `json:"check_out_time,omitempty"`
	CheckInPicturePath  *string  `json:"check_in_picture_path,omitempty"`
	CheckOutPicturePath *string  `json:"check_out_picture_path,omitempty"`
	CheckInLatitude     *float64 `json:"check_in_latitude,omitempty"`
	CheckInLongitude    *float64 `json:"check_in_longitude,omitempty"`
	CheckOutLatitude    *float64 `json:"check_out_latitude,omitempty"`
	CheckOutLongitude   *float64 `json:"check_out_longitude,omitempty"`
	IsPresent           bool     `json:"is_present"`
	IsAbsent            bool     `json:"is_absent"`
	IsLateCheckIn       bool     `json:"is_late_check_in"`
	IsEarlyCheckOut     bool     `json:"is_early_check_out"`
}

// CheckResult pairs the persisted record with the advisory message shown to
// the user (late/early notes never block success).
type CheckResult struct {
	Attendance AttendanceResponse `json:"attendance"`
	Message    string             `json:"-"`
}

type MonthlyStatsResponse struct {
	UserID            string               `json:"user_id"`
	UserName          string               `json:"user_name"`
	Year              int                  `json:"year"`
	Month             int                  `json:"month"`
	TotalPresent      int                  `json:"total_present"`
	TotalAbsent       int                  `json:"total_absent"`
	PresentPercentage float64              `json:"present_percentage"`
	AbsentPercentage  float64              `json:"absent_percentage"`
	DailyAttendances  []AttendanceResponse `json:"daily_attendances"`
}

// ActivityFilter narrows the admin activity listing. Zero-value time bounds
// mean unbounded; UserID empty means all users.
type ActivityFilter struct {
	UserID    *string
	StartDate *time.Time
	EndDate   *time.Time
}
