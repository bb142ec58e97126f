package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/timecalc"
)

// Classify derives the status of a record. It is pure and total: the same
// inputs always give the same status, and every record gets one.
//
// Holiday and sick leave are set by outside collaborators and are returned
// unchanged. Otherwise a missing check-in is absent, an unfinished day or a
// day shorter than the half-day threshold is partial, and a complete day is
// late or present depending on arrival.
func Classify(rec attendance.Record, sched schedule.WorkSchedule, pol policy.Config) attendance.Status {
	if rec.Status.IsExplicit() {
		return rec.Status
	}
	if rec.CheckIn == nil {
		return attendance.StatusAbsent
	}

	late := IsLate(rec, sched, pol)

	if rec.CheckOut == nil {
		return attendance.StatusPartial
	}
	working := timecalc.Round2(timecalc.WorkingHours(rec.CheckIn, rec.CheckOut, rec.BreakStart, rec.BreakEnd))
	if working < pol.HalfDayThresholdHours {
		return attendance.StatusPartial
	}
	if late {
		return attendance.StatusLate
	}
	return attendance.StatusPresent
}

// IsLate reports whether check-in came after the arrival deadline plus the
// grace period. Flexible schedules without core hours are never late.
func IsLate(rec attendance.Record, sched schedule.WorkSchedule, pol policy.Config) bool {
	if rec.CheckIn == nil {
		return false
	}
	deadline, ok := sched.ArrivalDeadline(rec.Date)
	if !ok {
		return false
	}
	grace := time.Duration(pol.GracePeriodMinutes) * time.Minute
	return rec.CheckIn.After(deadline.Add(grace))
}

// lateViolation flags an arrival more than LateThresholdMinutes after the
// scheduled start.
func lateViolation(rec attendance.Record, sched schedule.WorkSchedule, pol policy.Config) *attendance.Violation {
	if rec.CheckIn == nil {
		return nil
	}
	deadline, ok := sched.ArrivalDeadline(rec.Date)
	if !ok {
		return nil
	}
	minutesLate := rec.CheckIn.Sub(deadline).Minutes()
	if minutesLate <= float64(pol.LateThresholdMinutes) {
		return nil
	}
	return &attendance.Violation{
		Kind:    attendance.ViolationLateArrival,
		Message: fmt.Sprintf("arrived %.0f minutes after %s", minutesLate, deadline.Format("15:04")),
		Actual:  timecalc.Round2(minutesLate),
		Limit:   float64(pol.LateThresholdMinutes),
	}
}

// breakViolation flags a break longer than MaxBreakMinutes. The break is kept
// as recorded.
func breakViolation(rec attendance.Record, pol policy.Config) *attendance.Violation {
	if rec.BreakStart == nil || rec.BreakEnd == nil {
		return nil
	}
	minutes := rec.BreakEnd.Sub(*rec.BreakStart).Minutes()
	if minutes <= float64(pol.MaxBreakMinutes) {
		return nil
	}
	return &attendance.Violation{
		Kind:    attendance.ViolationBreakExceeded,
		Message: fmt.Sprintf("break lasted %.0f minutes, limit is %d", minutes, pol.MaxBreakMinutes),
		Actual:  timecalc.Round2(minutes),
		Limit:   float64(pol.MaxBreakMinutes),
	}
}

// overtimeViolation flags working hours beyond OvertimeThresholdHours.
func overtimeViolation(rec attendance.Record, pol policy.Config) *attendance.Violation {
	if rec.CheckOut == nil || rec.WorkingHours <= pol.OvertimeThresholdHours {
		return nil
	}
	return &attendance.Violation{
		Kind:    attendance.ViolationOvertimeExceeded,
		Message: fmt.Sprintf("worked %.2f hours, limit is %.2f", rec.WorkingHours, pol.OvertimeThresholdHours),
		Actual:  rec.WorkingHours,
		Limit:   pol.OvertimeThresholdHours,
	}
}

func collect(vs ...*attendance.Violation) []attendance.Violation {
	var out []attendance.Violation
	for _, v := range vs {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
