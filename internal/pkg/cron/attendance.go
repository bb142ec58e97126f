package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/timecalc"
)

type AttendanceJobs struct {
	service attendance.AttendanceService
	loc     *time.Location
	now     func() time.Time

	// absenceHour is the local hour during which yesterday's absences are
	// marked. The job is a no-op at other hours.
	absenceHour int
	lastMarked  time.Time
}

func NewAttendanceJobs(service attendance.AttendanceService, loc *time.Location, absenceHour int) *AttendanceJobs {
	return &AttendanceJobs{
		service:     service,
		loc:         loc,
		now:         time.Now,
		absenceHour: absenceHour,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("auto_close_stale_sessions", interval, j.AutoCloseStaleSessions)
	scheduler.AddJob("mark_absent_employees", interval, j.MarkAbsentEmployees)
}

func (j *AttendanceJobs) AutoCloseStaleSessions(ctx context.Context) error {
	closed, err := j.service.CloseStaleSessions(ctx, j.now())
	if closed > 0 {
		slog.Info("Cron: Auto-closed stale sessions", "count", closed)
	}
	if err != nil {
		return fmt.Errorf("failed to close stale sessions: %w", err)
	}
	return nil
}

// MarkAbsentEmployees marks yesterday's absences once per day.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	now := j.now().In(j.loc)
	if now.Hour() != j.absenceHour {
		return nil
	}

	yesterday := timecalc.StartOfDay(now).AddDate(0, 0, -1)
	if yesterday.Equal(j.lastMarked) {
		return nil
	}

	slog.Info("Cron: Starting mark absent employees job", "date", yesterday.Format(attendance.DateLayout))

	created, err := j.service.MarkAbsent(ctx, yesterday)
	slog.Info("Cron: Marked absent employees", "count", created)
	if err != nil {
		return fmt.Errorf("failed to mark absences for %s: %w", yesterday.Format(attendance.DateLayout), err)
	}

	j.lastMarked = yesterday
	return nil
}
