package schedule

import (
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/timecalc"
)

// WorkSchedule is the planned working pattern of an employee. It is supplied
// by the employee directory and never modified here.
type WorkSchedule struct {
	StartTime     timecalc.Clock
	EndTime       timecalc.Clock
	WorkingDays   []time.Weekday
	BreakDuration time.Duration
	IsFlexible    bool
	CoreHours     *CoreHours
}

// CoreHours is the window a flexible employee must be present for.
type CoreHours struct {
	Start timecalc.Clock
	End   timecalc.Clock
}

// IsWorkingDay reports whether date falls on one of the schedule's weekdays.
func (s WorkSchedule) IsWorkingDay(date time.Time) bool {
	return slices.Contains(s.WorkingDays, date.Weekday())
}

// IsOvernight reports whether the shift ends on the following calendar day.
func (s WorkSchedule) IsOvernight() bool {
	return !s.StartTime.Before(s.EndTime)
}

// StartOn returns the scheduled start on the given day.
func (s WorkSchedule) StartOn(date time.Time) time.Time {
	return s.StartTime.On(date)
}

// EndOn returns the scheduled end of the shift starting on the given day.
func (s WorkSchedule) EndOn(date time.Time) time.Time {
	end := s.EndTime.On(date)
	if s.IsOvernight() {
		end = end.AddDate(0, 0, 1)
	}
	return end
}

// ArrivalDeadline returns the instant after which arrival on date counts as
// late, before the grace period is added. ok is false when arrival time is
// never judged (flexible schedule without core hours).
func (s WorkSchedule) ArrivalDeadline(date time.Time) (deadline time.Time, ok bool) {
	if s.IsFlexible {
		if s.CoreHours == nil {
			return time.Time{}, false
		}
		return s.CoreHours.Start.On(date), true
	}
	return s.StartOn(date), true
}

// Default is the Monday to Friday 09:00-17:00 schedule used when the
// directory has nothing better.
func Default() WorkSchedule {
	return WorkSchedule{
		StartTime:     timecalc.Clock{Hour: 9},
		EndTime:       timecalc.Clock{Hour: 17},
		WorkingDays:   []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		BreakDuration: time.Hour,
	}
}

// Holiday is a configured day off. An empty Departments list applies to
// everyone.
type Holiday struct {
	Date        string   `mapstructure:"date" json:"date"` // YYYY-MM-DD
	Name        string   `mapstructure:"name" json:"name"`
	Departments []string `mapstructure:"departments" json:"departments,omitempty"`
}

// AppliesTo reports whether the holiday covers department.
func (h Holiday) AppliesTo(department string) bool {
	return len(h.Departments) == 0 || slices.Contains(h.Departments, department)
}
