package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/timecalc"
)

// Record is the attendance of one employee on one calendar day. Exactly one
// record exists per (EmployeeID, Date).
type Record struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	Department   string
	Date         time.Time // midnight of the calendar day, service location

	CheckIn    *time.Time
	CheckOut   *time.Time
	BreakStart *time.Time
	BreakEnd   *time.Time

	// Derived by Recalculate, never set directly.
	TotalHours    float64
	WorkingHours  float64
	BreakHours    float64
	OvertimeHours float64

	Status        Status
	Notes         *string
	IsManualEntry bool
	ApprovedBy    *string
	ApprovedAt    *time.Time

	// Version is 0 for a record that has never been stored. The store bumps it
	// on every successful write.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Status string

const (
	StatusPresent   Status = "present"
	StatusLate      Status = "late"
	StatusAbsent    Status = "absent"
	StatusPartial   Status = "partial"
	StatusHoliday   Status = "holiday"
	StatusSickLeave Status = "sick_leave"
)

var AllStatuses = []Status{
	StatusPresent,
	StatusLate,
	StatusAbsent,
	StatusPartial,
	StatusHoliday,
	StatusSickLeave,
}

func ParseStatus(s string) (Status, error) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// IsExplicit reports whether the status is set by an outside collaborator
// (holiday calendar, leave approval) rather than derived from clock times.
func (s Status) IsExplicit() bool {
	return s == StatusHoliday || s == StatusSickLeave
}

// State is the time-clock position of a record.
type State string

const (
	StateCheckedOut State = "checked_out"
	StateCheckedIn  State = "checked_in"
	StateOnBreak    State = "on_break"
)

// State derives the time-clock state from the recorded times.
func (r Record) State() State {
	switch {
	case r.CheckIn == nil, r.CheckOut != nil:
		return StateCheckedOut
	case r.BreakStart != nil && r.BreakEnd == nil:
		return StateOnBreak
	default:
		return StateCheckedIn
	}
}

// IsClosed reports whether the day is finished (checked out).
func (r Record) IsClosed() bool {
	return r.CheckOut != nil
}

// IsOpen reports whether the employee checked in and has not checked out.
func (r Record) IsOpen() bool {
	return r.CheckIn != nil && r.CheckOut == nil
}

// Recalculate derives the hour fields from the recorded times. An open day
// counts nothing.
func (r *Record) Recalculate(fullDayHours float64) {
	r.TotalHours = timecalc.Round2(timecalc.OptionalHoursBetween(r.CheckIn, r.CheckOut))
	r.BreakHours = timecalc.Round2(timecalc.OptionalHoursBetween(r.BreakStart, r.BreakEnd))
	r.WorkingHours = timecalc.Round2(timecalc.WorkingHours(r.CheckIn, r.CheckOut, r.BreakStart, r.BreakEnd))
	r.OvertimeHours = timecalc.Round2(timecalc.Overtime(r.WorkingHours, fullDayHours))
}

// Clone returns a copy that shares no pointers with r.
func (r Record) Clone() Record {
	c := r
	c.CheckIn = cloneTime(r.CheckIn)
	c.CheckOut = cloneTime(r.CheckOut)
	c.BreakStart = cloneTime(r.BreakStart)
	c.BreakEnd = cloneTime(r.BreakEnd)
	c.ApprovedAt = cloneTime(r.ApprovedAt)
	c.Notes = cloneString(r.Notes)
	c.ApprovedBy = cloneString(r.ApprovedBy)
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// ViolationKind names a policy threshold that was crossed.
type ViolationKind string

const (
	ViolationLateArrival      ViolationKind = "late_arrival"
	ViolationBreakExceeded    ViolationKind = "break_exceeded"
	ViolationOvertimeExceeded ViolationKind = "overtime_exceeded"
)

// Violation is informational; the transition that produced it still succeeds.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	Message string        `json:"message"`
	Actual  float64       `json:"actual"`
	Limit   float64       `json:"limit"`
}
