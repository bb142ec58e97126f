package attendance

import "time"

// The Apply* methods are the time-clock guards. A rejected transition returns
// a *TransitionError and leaves the record untouched. Derived hours and status
// are not updated here; callers recalculate and reclassify afterwards.

func (r *Record) ApplyCheckIn(now time.Time) error {
	if r.CheckIn != nil {
		reason := ErrAlreadyCheckedIn
		if r.IsClosed() {
			reason = ErrAlreadyCheckedOut
		}
		return newTransitionError(r.State(), ActionCheckIn, reason)
	}
	r.CheckIn = &now
	return nil
}

func (r *Record) ApplyStartBreak(now time.Time) error {
	if err := r.requireOpen(ActionStartBreak, now); err != nil {
		return err
	}
	if r.BreakStart != nil {
		reason := ErrBreakAlreadyTaken
		if r.BreakEnd == nil {
			reason = ErrBreakStillOpen
		}
		return newTransitionError(r.State(), ActionStartBreak, reason)
	}
	r.BreakStart = &now
	return nil
}

func (r *Record) ApplyEndBreak(now time.Time) error {
	if err := r.requireOpen(ActionEndBreak, now); err != nil {
		return err
	}
	if r.BreakStart == nil || r.BreakEnd != nil {
		return newTransitionError(r.State(), ActionEndBreak, ErrNoOpenBreak)
	}
	if now.Before(*r.BreakStart) {
		return newTransitionError(r.State(), ActionEndBreak, ErrInvalidTimeOrder)
	}
	r.BreakEnd = &now
	return nil
}

// ApplyCheckOut closes an open break at now before checking out. It reports
// whether it did so.
func (r *Record) ApplyCheckOut(now time.Time) (closedBreak bool, err error) {
	if err := r.requireOpen(ActionCheckOut, now); err != nil {
		return false, err
	}
	if r.BreakStart != nil && r.BreakEnd == nil {
		if now.Before(*r.BreakStart) {
			return false, newTransitionError(r.State(), ActionCheckOut, ErrInvalidTimeOrder)
		}
		breakEnd := now
		r.BreakEnd = &breakEnd
		closedBreak = true
	}
	r.CheckOut = &now
	return closedBreak, nil
}

func (r *Record) requireOpen(action Action, now time.Time) error {
	if r.CheckIn == nil {
		return newTransitionError(r.State(), action, ErrNotCheckedIn)
	}
	if r.CheckOut != nil {
		return newTransitionError(r.State(), action, ErrAlreadyCheckedOut)
	}
	if now.Before(*r.CheckIn) {
		return newTransitionError(r.State(), action, ErrInvalidTimeOrder)
	}
	return nil
}

// ValidateTimes checks that the times of a manually edited record are in order.
func (r Record) ValidateTimes() error {
	if r.CheckOut != nil && r.CheckIn == nil {
		return ErrInvalidTimeOrder
	}
	if r.BreakEnd != nil && r.BreakStart == nil {
		return ErrInvalidTimeOrder
	}
	if r.BreakStart != nil && r.CheckIn == nil {
		return ErrInvalidTimeOrder
	}
	if r.CheckIn != nil && r.CheckOut != nil && r.CheckOut.Before(*r.CheckIn) {
		return ErrInvalidTimeOrder
	}
	if r.BreakStart != nil {
		if r.BreakStart.Before(*r.CheckIn) {
			return ErrInvalidTimeOrder
		}
		if r.BreakEnd != nil && r.BreakEnd.Before(*r.BreakStart) {
			return ErrInvalidTimeOrder
		}
		if r.CheckOut != nil && r.CheckOut.Before(*r.BreakStart) {
			return ErrInvalidTimeOrder
		}
		if r.CheckOut != nil && r.BreakEnd != nil && r.CheckOut.Before(*r.BreakEnd) {
			return ErrInvalidTimeOrder
		}
	}
	return nil
}
