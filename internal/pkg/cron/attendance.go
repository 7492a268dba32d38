package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/officetime"
)

type AttendanceJobs struct {
	attendanceSvc attendance.Service
}

func NewAttendanceJobs(attendanceSvc attendance.Service) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceSvc: attendanceSvc,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_users", 1*time.Hour, j.MarkAbsentUsers)
}

// MarkAbsentUsers backfills absence records for the previous office day.
func (j *AttendanceJobs) MarkAbsentUsers(ctx context.Context) error {
	// Only run after the office day has rolled over (00:00-00:59 office time)
	if officetime.Now().Hour() != 0 {
		return nil
	}

	yesterday := officetime.Today().AddDate(0, 0, -1)

	slog.Info("Cron: Starting mark absent users job", "date", yesterday.Format("2006-01-02"))

	marked, err := j.attendanceSvc.MarkAbsent(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to mark absent users: %w", err)
	}

	slog.Info("Cron: Marked absent users", "count", marked, "date", yesterday.Format("2006-01-02"))
	return nil
}
