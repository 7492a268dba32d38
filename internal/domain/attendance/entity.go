package attendance

import "time"

// Attendance is one record per (user, calendar date). The store enforces the
// uniqueness with a constraint; concurrent check-ins race on it and exactly
// one wins. Created on first check-in of the day, or by the absence marker
// when the day ends with no check-in and no approved leave. Check-out only
// mutates an existing record.
type Attendance struct {
	ID                   string
	UserID               string
	Date                 time.Time
	CheckInTime          *time.Time
	CheckOutTime         *time.Time
	CheckInPicturePath   *string
	CheckOutPicturePath  *string
	CheckInLatitude      *float64
	CheckInLongitude     *float64
	CheckOutLatitude     *float64
	CheckOutLongitude    *float64
	IsPresent            bool
	IsAbsent             bool
	IsLateCheckIn        bool
	IsEarlyCheckOut      bool
	CreatedAt            time.Time

	// DTO
	UserName *string
}
