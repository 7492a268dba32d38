package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/leave"
	"github.com/attendly/attendance-backend-go/internal/domain/office"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/officetime"
	"github.com/attendly/attendance-backend-go/internal/service/file"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.Repository
	userRepo       user.Repository
	leaveRepo      leave.Repository
	officeRegistry office.Registry
	fileService    file.FileService

	workStart time.Duration // offset from office-local midnight
	workEnd   time.Duration

	now func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.Repository,
	userRepo user.Repository,
	leaveRepo leave.Repository,
	officeRegistry office.Registry,
	fileService file.FileService,
	workStart, workEnd string,
) (*AttendanceServiceImpl, error) {
	start, err := parseTimeOfDay(workStart)
	if err != nil {
		return nil, fmt.Errorf("invalid working hours start %q: %w", workStart, err)
	}
	end, err := parseTimeOfDay(workEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid working hours end %q: %w", workEnd, err)
	}

	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		leaveRepo:      leaveRepo,
		officeRegistry: officeRegistry,
		fileService:    fileService,
		workStart:      start,
		workEnd:        end,
		now:            officetime.Now,
	}, nil
}

// parseTimeOfDay parses "HH:MM" into an offset from midnight.
func parseTimeOfDay(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

func toResponse(att attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:                  att.ID,
		UserID:              att.UserID,
		Date:                att.Date.Format("2006-01-02"),
		CheckInTime:         timePtrToString(att.CheckInTime),
		CheckOutTime:        timePtrToString(att.CheckOutTime),
		CheckInPicturePath:  att.CheckInPicturePath,
		CheckOutPicturePath: att.CheckOutPicturePath,
		CheckInLatitude:     att.CheckInLatitude,
		CheckInLongitude:    att.CheckInLongitude,
		CheckOutLatitude:    att.CheckOutLatitude,
		CheckOutLongitude:   att.CheckOutLongitude,
		IsPresent:           att.IsPresent,
		IsAbsent:            att.IsAbsent,
		IsLateCheckIn:       att.IsLateCheckIn,
		IsEarlyCheckOut:     att.IsEarlyCheckOut,
	}
	if att.UserName != nil {
		resp.UserName = *att.UserName
	}
	return resp
}

// isLateCheckIn reports whether t falls strictly after the working day start.
// Checking in exactly at the start is on time.
func (s *AttendanceServiceImpl) isLateCheckIn(t time.Time) bool {
	return officetime.TimeOfDay(t) > s.workStart
}

// isEarlyCheckOut reports whether t falls strictly before the working day end.
// Checking out exactly at the end is not early.
func (s *AttendanceServiceImpl) isEarlyCheckOut(t time.Time) bool {
	return officetime.TimeOfDay(t) < s.workEnd
}

// CheckIn implements attendance.Service.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckResult{}, err
	}

	usr, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return attendance.CheckResult{}, err
	}

	nowLocal := s.now()
	today := officetime.DateOf(nowLocal)

	existing, err := s.attendanceRepo.GetByUserAndDate(ctx, usr.ID, today)
	if err != nil {
		return attendance.CheckResult{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing != nil && existing.CheckInTime != nil {
		return attendance.CheckResult{}, attendance.ErrAlreadyCheckedIn
	}

	within, distance, err := s.officeRegistry.WithinRange(ctx, req.Latitude, req.Longitude)
	if err != nil {
		return attendance.CheckResult{}, err
	}
	if !within {
		loc, err := s.officeRegistry.GetActive(ctx)
		if err != nil {
			return attendance.CheckResult{}, err
		}
		return attendance.CheckResult{}, &attendance.OutOfRangeError{
			DistanceMeters: distance,
			AllowedMeters:  loc.AllowedRadiusInMeters,
		}
	}

	if req.File == nil || req.FileHeader == nil {
		return attendance.CheckResult{}, attendance.ErrPhotoRequired
	}

	picturePath, err := s.fileService.UploadAttendanceProof(ctx, usr.ID, today, req.File, req.FileHeader.Filename, "check-in")
	if err != nil {
		return attendance.CheckResult{}, fmt.Errorf("failed to upload attendance proof: %w", err)
	}

	isLate := s.isLateCheckIn(nowLocal)
	checkInTime := nowLocal

	claimed, err := s.attendanceRepo.ClaimCheckIn(ctx, attendance.Attendance{
		UserID:             usr.ID,
		Date:               today,
		CheckInTime:        &checkInTime,
		CheckInPicturePath: &picturePath,
		CheckInLatitude:    &req.Latitude,
		CheckInLongitude:   &req.Longitude,
		IsLateCheckIn:      isLate,
	})
	if err != nil {
		return attendance.CheckResult{}, err
	}

	message := "Check-in successful"
	if isLate {
		message = "Check-in successful, you are late today"
	}

	return attendance.CheckResult{
		Attendance: toResponse(claimed),
		Message:    message,
	}, nil
}

// CheckOut implements attendance.Service.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckResult{}, err
	}

	usr, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return attendance.CheckResult{}, err
	}

	nowLocal := s.now()
	today := officetime.DateOf(nowLocal)

	existing, err := s.attendanceRepo.GetByUserAndDate(ctx, usr.ID, today)
	if err != nil {
		return attendance.CheckResult{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing != nil && existing.CheckOutTime != nil {
		return attendance.CheckResult{}, attendance.ErrAlreadyCheckedOut
	}
	if existing == nil || existing.CheckInTime == nil {
		return attendance.CheckResult{}, attendance.ErrNotCheckedIn
	}

	within, distance, err := s.officeRegistry.WithinRange(ctx, req.Latitude, req.Longitude)
	if err != nil {
		return attendance.CheckResult{}, err
	}
	if !within {
		loc, err := s.officeRegistry.GetActive(ctx)
		if err != nil {
			return attendance.CheckResult{}, err
		}
		return attendance.CheckResult{}, &attendance.OutOfRangeError{
			DistanceMeters: distance,
			AllowedMeters:  loc.AllowedRadiusInMeters,
		}
	}

	if req.File == nil || req.FileHeader == nil {
		return attendance.CheckResult{}, attendance.ErrPhotoRequired
	}

	picturePath, err := s.fileService.UploadAttendanceProof(ctx, usr.ID, today, req.File, req.FileHeader.Filename, "check-out")
	if err != nil {
		return attendance.CheckResult{}, fmt.Errorf("failed to upload attendance proof: %w", err)
	}

	isEarly := s.isEarlyCheckOut(nowLocal)
	checkOutTime := nowLocal

	existing.CheckOutTime = &checkOutTime
	existing.CheckOutPicturePath = &picturePath
	existing.CheckOutLatitude = &req.Latitude
	existing.CheckOutLongitude = &req.Longitude
	existing.IsEarlyCheckOut = isEarly

	if err := s.attendanceRepo.Update(ctx, *existing); err != nil {
		return attendance.CheckResult{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	message := "Check-out successful"
	if isEarly {
		message = "Check-out successful, you are leaving early"
	}

	return attendance.CheckResult{
		Attendance: toResponse(*existing),
		Message:    message,
	}, nil
}

// GetToday implements attendance.Service.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, userID string) (*attendance.AttendanceResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	today := officetime.DateOf(s.now())
	att, err := s.attendanceRepo.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if att == nil {
		return nil, nil
	}

	resp := toResponse(*att)
	return &resp, nil
}

// MonthlyStats implements attendance.Service.
func (s *AttendanceServiceImpl) MonthlyStats(ctx context.Context, userID string, year, month int) (attendance.MonthlyStatsResponse, error) {
	usr, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return attendance.MonthlyStatsResponse{}, err
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	records, err := s.attendanceRepo.ListByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return attendance.MonthlyStatsResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	stats := buildMonthlyStats(records)
	stats.UserID = usr.ID
	stats.UserName = usr.FullName()
	stats.Year = year
	stats.Month = month

	return stats, nil
}

// buildMonthlyStats aggregates over recorded rows only. Days with no record at
// all do not enter the percentage base.
func buildMonthlyStats(records []attendance.Attendance) attendance.MonthlyStatsResponse {
	var stats attendance.MonthlyStatsResponse

	for _, att := range records {
		if att.IsPresent {
			stats.TotalPresent++
		}
		if att.IsAbsent {
			stats.TotalAbsent++
		}
		stats.DailyAttendances = append(stats.DailyAttendances, toResponse(att))
	}

	total := len(records)
	if total > 0 {
		stats.PresentPercentage = roundPercentage(float64(stats.TotalPresent) / float64(total) * 100)
		stats.AbsentPercentage = roundPercentage(float64(stats.TotalAbsent) / float64(total) * 100)
	}

	return stats
}

func roundPercentage(v float64) float64 {
	return math.Round(v*100) / 100
}

// ListActivities implements attendance.Service.
func (s *AttendanceServiceImpl) ListActivities(ctx context.Context, filter attendance.ActivityFilter) ([]attendance.AttendanceResponse, error) {
	// Without an explicit range, show the last 30 days
	if filter.StartDate == nil && filter.EndDate == nil {
		today := officetime.DateOf(s.now())
		start := today.AddDate(0, 0, -30)
		filter.StartDate = &start
		filter.EndDate = &today
	}

	records, err := s.attendanceRepo.ListActivities(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, att := range records {
		responses = append(responses, toResponse(att))
	}
	return responses, nil
}

// absenceAction is the decision for one user when the absence marker runs.
type absenceAction int

const (
	absenceSkip absenceAction = iota
	absenceCreateNeutral
	absenceCreateAbsent
	absenceSetAbsent
)

// decideAbsence applies the end-of-day policy for a single user: users with no
// record get a row (absent unless covered by approved leave); users with a
// non-present record and no leave cover get the absent flag set; present
// records and leave-covered records are left alone.
func decideAbsence(existing *attendance.Attendance, onLeave bool) absenceAction {
	if existing == nil {
		if onLeave {
			return absenceCreateNeutral
		}
		return absenceCreateAbsent
	}
	if existing.IsPresent {
		return absenceSkip
	}
	if onLeave {
		return absenceSkip
	}
	if existing.IsAbsent {
		return absenceSkip
	}
	return absenceSetAbsent
}

// MarkAbsent implements attendance.Service.
func (s *AttendanceServiceImpl) MarkAbsent(ctx context.Context, date time.Time) (int, error) {
	date = officetime.DateOf(date)

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	marked := 0
	for _, usr := range users {
		existing, err := s.attendanceRepo.GetByUserAndDate(ctx, usr.ID, date)
		if err != nil {
			return marked, fmt.Errorf("failed to get attendance for user %s: %w", usr.ID, err)
		}

		onLeave, err := s.leaveRepo.HasApprovedLeaveOn(ctx, usr.ID, date)
		if err != nil {
			return marked, fmt.Errorf("failed to check leave for user %s: %w", usr.ID, err)
		}

		switch decideAbsence(existing, onLeave) {
		case absenceCreateNeutral:
			err = s.attendanceRepo.CreateAbsence(ctx, attendance.Attendance{
				UserID: usr.ID,
				Date:   date,
			})
		case absenceCreateAbsent:
			err = s.attendanceRepo.CreateAbsence(ctx, attendance.Attendance{
				UserID:   usr.ID,
				Date:     date,
				IsAbsent: true,
			})
			if err == nil {
				marked++
			}
		case absenceSetAbsent:
			existing.IsAbsent = true
			err = s.attendanceRepo.Update(ctx, *existing)
			if err == nil {
				marked++
			}
		case absenceSkip:
			continue
		}
		if err != nil {
			return marked, fmt.Errorf("failed to mark absence for user %s: %w", usr.ID, err)
		}
	}

	return marked, nil
}
