package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Time clock transition errors
	ErrInvalidTransition = errors.New("invalid attendance transition")
	ErrAlreadyCheckedIn  = errors.New("already checked in for this date")
	ErrNotCheckedIn      = errors.New("not checked in yet")
	ErrAlreadyCheckedOut = errors.New("already checked out for this date")
	ErrBreakAlreadyTaken = errors.New("break already taken for this date")
	ErrBreakStillOpen    = errors.New("a break is already in progress")
	ErrNoOpenBreak       = errors.New("no break in progress")

	// Concurrency errors
	ErrConflict = errors.New("attendance record was modified concurrently")
	ErrBusy     = fmt.Errorf("attendance record is busy, retry later: %w", ErrConflict)

	// General errors
	ErrRecordNotFound   = errors.New("attendance record not found")
	ErrInvalidStatus    = errors.New("invalid attendance status")
	ErrAlreadyApproved  = errors.New("attendance record has already been approved")
	ErrStatusNotAllowed = errors.New("only holiday and sick_leave can be set explicitly")
	ErrInvalidTimeOrder = errors.New("recorded times are out of order")
)

type Action string

const (
	ActionCheckIn    Action = "check_in"
	ActionStartBreak Action = "start_break"
	ActionEndBreak   Action = "end_break"
	ActionCheckOut   Action = "check_out"
)

// TransitionError reports a time-clock guard violation. It matches both
// ErrInvalidTransition and its Reason with errors.Is.
type TransitionError struct {
	State  State
	Action Action
	Reason error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s: %v", e.Action, e.State, e.Reason)
}

func (e *TransitionError) Unwrap() []error {
	return []error{ErrInvalidTransition, e.Reason}
}

func newTransitionError(state State, action Action, reason error) *TransitionError {
	return &TransitionError{State: state, Action: action, Reason: reason}
}
