package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/keylock"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/timecalc"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

const tracerName = "github.com/cmlabs-hris/attendance-engine/internal/service/attendance"

const (
	actionCorrect    = "correct"
	actionApprove    = "approve"
	actionMarkStatus = "mark_status"
	actionMarkAbsent = "mark_absent"
	actionAutoClose  = "auto_close"
)

type AttendanceServiceImpl struct {
	store     attendance.RecordStore
	directory employee.Directory
	holidays  schedule.HolidayCalendar
	policies  policy.Provider
	bounds    attendance.BoundsProvider
	locker    keylock.Locker
	publisher attendance.EventPublisher

	loc    *time.Location
	now    func() time.Time
	tracer trace.Tracer
}

// mutation edits a working copy of the record. Returning an error discards
// the copy.
type mutation func(rec *attendance.Record, sched schedule.WorkSchedule, pol policy.Config) ([]attendance.Violation, error)

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.ClockRequest) (resp attendance.RecordResponse, err error) {
	ctx, span := s.startSpan(ctx, "CheckIn", req.EmployeeID)
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	emp, err := s.activeEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	now := s.clock()
	return s.mutate(ctx, emp, timecalc.StartOfDay(now), string(attendance.ActionCheckIn),
		func(rec *attendance.Record, sched schedule.WorkSchedule, pol policy.Config) ([]attendance.Violation, error) {
			if err := rec.ApplyCheckIn(now); err != nil {
				return nil, err
			}
			setNotes(rec, req.Notes)
			return collect(lateViolation(*rec, sched, pol)), nil
		})
}

// StartBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) StartBreak(ctx context.Context, req attendance.ClockRequest) (resp attendance.RecordResponse, err error) {
	ctx, span := s.startSpan(ctx, "StartBreak", req.EmployeeID)
	defer func() { endSpan(span, err) }()

	return s.clockAction(ctx, req, attendance.ActionStartBreak,
		func(rec *attendance.Record, _ schedule.WorkSchedule, _ policy.Config, now time.Time) ([]attendance.Violation, error) {
			return nil, rec.ApplyStartBreak(now)
		})
}

// EndBreak implements attendance.AttendanceService. A break longer than the
// policy allows is kept and reported as a violation.
func (s *AttendanceServiceImpl) EndBreak(ctx context.Context, req attendance.ClockRequest) (resp attendance.RecordResponse, err error) {
	ctx, span := s.startSpan(ctx, "EndBreak", req.EmployeeID)
	defer func() { endSpan(span, err) }()

	return s.clockAction(ctx, req, attendance.ActionEndBreak,
		func(rec *attendance.Record, _ schedule.WorkSchedule, pol policy.Config, now time.Time) ([]attendance.Violation, error) {
			if err := rec.ApplyEndBreak(now); err != nil {
				return nil, err
			}
			return collect(breakViolation(*rec, pol)), nil
		})
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.ClockRequest) (resp attendance.RecordResponse, err error) {
	ctx, span := s.startSpan(ctx, "CheckOut", req.EmployeeID)
	defer func() { endSpan(span, err) }()

	return s.clockAction(ctx, req, attendance.ActionCheckOut,
		func(rec *attendance.Record, _ schedule.WorkSchedule, pol policy.Config, now time.Time) ([]attendance.Violation, error) {
			closedBreak, err := rec.ApplyCheckOut(now)
			if err != nil {
				return nil, err
			}
			// hours are needed for the overtime check before the record is finalized
			rec.Recalculate(pol.FullDayThresholdHours)

			var brk *attendance.Violation
			if closedBreak {
				brk = breakViolation(*rec, pol)
			}
			return collect(brk, overtimeViolation(*rec, pol)), nil
		})
}

// clockAction runs a transition that continues an existing session. It
// targets today's record, or yesterday's when the employee works an overnight
// shift, that session is still open, today has no check-in and the shift
// ceiling has not passed.
func (s *AttendanceServiceImpl) clockAction(
	ctx context.Context,
	req attendance.ClockRequest,
	action attendance.Action,
	apply func(rec *attendance.Record, sched schedule.WorkSchedule, pol policy.Config, now time.Time) ([]attendance.Violation, error),
) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	emp, err := s.activeEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	now := s.clock()
	date, err := s.sessionDate(ctx, emp, now)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return s.mutate(ctx, emp, date, string(action),
		func(rec *attendance.Record, sched schedule.WorkSchedule, pol policy.Config) ([]attendance.Violation, error) {
			violations, err := apply(rec, sched, pol, now)
			if err != nil {
				return nil, err
			}
			setNotes(rec, req.Notes)
			return violations, nil
		})
}

func (s *AttendanceServiceImpl) sessionDate(ctx context.Context, emp employee.Employee, now time.Time) (time.Time, error) {
	today := timecalc.StartOfDay(now)
	rec, err := s.store.Get(ctx, emp.ID, today)
	switch {
	case err == nil && rec.CheckIn != nil:
		return today, nil
	case err != nil && !errors.Is(err, attendance.ErrRecordNotFound):
		return time.Time{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	// A day shift left open yesterday is never continued; the guard on
	// today's record rejects the action and the stale-session job closes it.
	if !emp.Schedule.IsOvernight() {
		return today, nil
	}
	yesterday := today.AddDate(0, 0, -1)
	if now.After(shiftCeiling(emp.Schedule, yesterday, s.policies.ForDepartment(emp.Department))) {
		return today, nil
	}

	prev, err := s.store.Get(ctx, emp.ID, yesterday)
	if err == nil && prev.IsOpen() {
		return yesterday, nil
	}
	if err != nil && !errors.Is(err, attendance.ErrRecordNotFound) {
		return time.Time{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return today, nil
}

// shiftCeiling is the latest instant at which a session that started on date
// can still be continued: the scheduled start plus OvertimeThresholdHours, and
// never before the scheduled end.
func shiftCeiling(sched schedule.WorkSchedule, date time.Time, pol policy.Config) time.Time {
	ceiling := sched.StartOn(date).Add(time.Duration(pol.OvertimeThresholdHours * float64(time.Hour)))
	if end := sched.EndOn(date); end.After(ceiling) {
		return end
	}
	return ceiling
}

// GetRecord implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetRecord(ctx context.Context, employeeID, date string) (attendance.RecordResponse, error) {
	day, ok := validator.IsValidDateIn(date, s.loc)
	if !ok {
		return attendance.RecordResponse{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}

	rec, err := s.store.Get(ctx, employeeID, day)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.RecordResponse{}, err
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return attendance.NewRecordResponse(rec), nil
}

// ListRecords implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListRecords(ctx context.Context, filter attendance.RecordFilter) (resp attendance.ListRecordResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "AttendanceService.ListRecords")
	defer func() { endSpan(span, err) }()

	if filter.Limit == 0 {
		filter.Limit = attendance.DefaultPageLimit
	}
	if err := filter.Validate(s.bounds.QueryBounds(), s.clock()); err != nil {
		return attendance.ListRecordResponse{}, err
	}

	records, total, err := s.store.Query(ctx, filter)
	if err != nil {
		return attendance.ListRecordResponse{}, fmt.Errorf("failed to query attendance records: %w", err)
	}
	span.SetAttributes(attribute.Int64("attendance.total", total))

	return attendance.NewListRecordResponse(records, total, filter), nil
}

// CorrectRecord implements attendance.AttendanceService. Wall-clock inputs
// are anchored on the record's date and roll over to the next day when they
// fall before the preceding time, so "22:00" to "06:00" is an overnight
// shift.
func (s *AttendanceServiceImpl) CorrectRecord(ctx context.Context, req attendance.CorrectRecordRequest) (resp attendance.RecordResponse, err error) {
	ctx, span := s.startSpan(ctx, "CorrectRecord", req.EmployeeID)
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	date, _ := validator.IsValidDateIn(req.Date, s.loc)

	emp, err := s.lookupEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return s.mutate(ctx, emp, date, actionCorrect,
		func(rec *attendance.Record, sched schedule.WorkSchedule, pol policy.Config) ([]attendance.Violation, error) {
			if err := applyCorrection(rec, req); err != nil {
				return nil, err
			}
			rec.IsManualEntry = true
			rec.ApprovedBy = nil
			rec.ApprovedAt = nil

			rec.Recalculate(pol.FullDayThresholdHours)
			return collect(
				lateViolation(*rec, sched, pol),
				breakViolation(*rec, pol),
				overtimeViolation(*rec, pol),
			), nil
		})
}

func applyCorrection(rec *attendance.Record, req attendance.CorrectRecordRequest) error {
	var errs validator.ValidationErrors

	parse := func(field string, value *string, current *time.Time, after *time.Time) *time.Time {
		if value == nil {
			return current
		}
		t, err := timecalc.ParseInstant(*value, rec.Date, after)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: field, Message: err.Error()})
			return current
		}
		return &t
	}

	rec.CheckIn = parse("checkIn", req.CheckIn, rec.CheckIn, nil)
	rec.CheckOut = parse("checkOut", req.CheckOut, rec.CheckOut, rec.CheckIn)
	if req.ClearBreak {
		rec.BreakStart, rec.BreakEnd = nil, nil
	} else {
		rec.BreakStart = parse("breakStart", req.BreakStart, rec.BreakStart, rec.CheckIn)
		rec.BreakEnd = parse("breakEnd", req.BreakEnd, rec.BreakEnd, rec.BreakStart)
	}
	setNotes(rec, req.Notes)

	if len(errs) > 0 {
		return errs
	}
	if err := rec.ValidateTimes(); err != nil {
		return validator.ValidationErrors{{Field: "times", Message: err.Error()}}
	}
	return nil
}

// ApproveRecord implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ApproveRecord(ctx context.Context, req attendance.ApproveRecordRequest) (resp attendance.RecordResponse, err error) {
	ctx, span := s.startSpan(ctx, "ApproveRecord", req.EmployeeID)
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	date, _ := validator.IsValidDateIn(req.Date, s.loc)

	emp, err := s.lookupEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return s.mutateExisting(ctx, emp, date, actionApprove,
		func(rec *attendance.Record, _ schedule.WorkSchedule, _ policy.Config) ([]attendance.Violation, error) {
			if rec.ApprovedAt != nil {
				return nil, attendance.ErrAlreadyApproved
			}
			now := s.clock()
			approvedBy := req.ApprovedBy
			rec.ApprovedBy = &approvedBy
			rec.ApprovedAt = &now
			return nil, nil
		})
}

// MarkStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkStatus(ctx context.Context, req attendance.MarkStatusRequest) (resp attendance.RecordResponse, err error) {
	ctx, span := s.startSpan(ctx, "MarkStatus", req.EmployeeID)
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	date, _ := validator.IsValidDateIn(req.Date, s.loc)
	status, err := attendance.ParseStatus(req.Status)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if !status.IsExplicit() {
		return attendance.RecordResponse{}, attendance.ErrStatusNotAllowed
	}

	emp, err := s.lookupEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return s.mutate(ctx, emp, date, actionMarkStatus,
		func(rec *attendance.Record, _ schedule.WorkSchedule, _ policy.Config) ([]attendance.Violation, error) {
			rec.Status = status
			setNotes(rec, req.Notes)
			return nil, nil
		})
}

// MarkAbsent implements attendance.AttendanceService. Failures for single
// employees are logged and returned together; the rest are still processed.
func (s *AttendanceServiceImpl) MarkAbsent(ctx context.Context, date time.Time) (created int, err error) {
	ctx, span := s.tracer.Start(ctx, "AttendanceService.MarkAbsent")
	defer func() { endSpan(span, err) }()

	day := timecalc.StartOfDay(date.In(s.loc))
	span.SetAttributes(attribute.String("attendance.date", day.Format(attendance.DateLayout)))

	employees, err := s.directory.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}

	var errs []error
	for _, emp := range employees {
		if !emp.Schedule.IsWorkingDay(day) {
			continue
		}
		ok, err := s.markAbsent(ctx, emp, day)
		if err != nil {
			slog.Warn("Failed to mark employee absent", "employee_id", emp.ID, "date", day.Format(attendance.DateLayout), "error", err)
			errs = append(errs, fmt.Errorf("employee %s: %w", emp.ID, err))
			continue
		}
		if ok {
			created++
		}
	}

	return created, errors.Join(errs...)
}

func (s *AttendanceServiceImpl) markAbsent(ctx context.Context, emp employee.Employee, day time.Time) (bool, error) {
	if _, err := s.store.Get(ctx, emp.ID, day); err == nil {
		return false, nil
	} else if !errors.Is(err, attendance.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to get attendance record: %w", err)
	}

	holiday, err := s.holidays.IsHoliday(ctx, day, emp.Department)
	if err != nil {
		return false, fmt.Errorf("failed to check holiday calendar: %w", err)
	}

	created := false
	_, err = s.mutate(ctx, emp, day, actionMarkAbsent,
		func(rec *attendance.Record, _ schedule.WorkSchedule, _ policy.Config) ([]attendance.Violation, error) {
			if rec.Version != 0 {
				// created while waiting for the lock
				return nil, errSkip
			}
			if holiday {
				rec.Status = attendance.StatusHoliday
			}
			created = true
			return nil, nil
		})
	if errors.Is(err, errSkip) {
		return false, nil
	}
	return created, err
}

// CloseStaleSessions implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CloseStaleSessions(ctx context.Context, now time.Time) (closed int, err error) {
	ctx, span := s.tracer.Start(ctx, "AttendanceService.CloseStaleSessions")
	defer func() { endSpan(span, err) }()

	now = now.In(s.loc)
	open, err := s.store.ListOpen(ctx, timecalc.StartOfDay(now))
	if err != nil {
		return 0, fmt.Errorf("failed to list open sessions: %w", err)
	}

	var errs []error
	for _, rec := range open {
		emp, err := s.lookupEmployee(ctx, rec.EmployeeID)
		if err != nil {
			errs = append(errs, fmt.Errorf("employee %s: %w", rec.EmployeeID, err))
			continue
		}

		closeAt := emp.Schedule.EndOn(rec.Date)
		if closeAt.After(now) {
			// overnight shift still running
			continue
		}

		_, err = s.mutate(ctx, emp, rec.Date, actionAutoClose,
			func(r *attendance.Record, _ schedule.WorkSchedule, pol policy.Config) ([]attendance.Violation, error) {
				if !r.IsOpen() {
					return nil, errSkip
				}
				if _, err := r.ApplyCheckOut(autoCheckOut(*r, closeAt)); err != nil {
					return nil, err
				}
				note := "automatically checked out at scheduled end"
				setNotes(r, &note)
				return nil, nil
			})
		switch {
		case errors.Is(err, errSkip):
		case err != nil:
			slog.Warn("Failed to close stale session", "employee_id", rec.EmployeeID, "date", rec.Date.Format(attendance.DateLayout), "error", err)
			errs = append(errs, fmt.Errorf("employee %s: %w", rec.EmployeeID, err))
		default:
			closed++
		}
	}

	return closed, errors.Join(errs...)
}

// autoCheckOut is the check-out written for a stale session: the scheduled
// end, moved forward past any recorded time so the record stays in order.
func autoCheckOut(rec attendance.Record, closeAt time.Time) time.Time {
	at := closeAt
	for _, t := range []*time.Time{rec.CheckIn, rec.BreakStart, rec.BreakEnd} {
		if t != nil && t.After(at) {
			at = *t
		}
	}
	return at
}

var errSkip = errors.New("skip")

// mutate is the single read-modify-write path: lock the key, load or start
// the record, apply fn to a copy, recalculate, reclassify, store, publish.
func (s *AttendanceServiceImpl) mutate(ctx context.Context, emp employee.Employee, date time.Time, action string, fn mutation) (attendance.RecordResponse, error) {
	return s.write(ctx, emp, date, action, true, fn)
}

// mutateExisting is mutate for operations that need a stored record.
func (s *AttendanceServiceImpl) mutateExisting(ctx context.Context, emp employee.Employee, date time.Time, action string, fn mutation) (attendance.RecordResponse, error) {
	return s.write(ctx, emp, date, action, false, fn)
}

func (s *AttendanceServiceImpl) write(ctx context.Context, emp employee.Employee, date time.Time, action string, create bool, fn mutation) (attendance.RecordResponse, error) {
	release, err := s.acquire(ctx, emp.ID, date)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	defer release()

	// one policy snapshot for the whole transition
	pol := s.policies.ForDepartment(emp.Department)

	current, err := s.store.Get(ctx, emp.ID, date)
	if err != nil {
		if !errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.RecordResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
		}
		if !create {
			return attendance.RecordResponse{}, err
		}
		current = attendance.Record{EmployeeID: emp.ID, Date: date}
	}

	rec := current.Clone()
	violations, err := fn(&rec, emp.Schedule, pol)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	rec.EmployeeName = emp.FullName
	rec.Department = emp.Department
	rec.Recalculate(pol.FullDayThresholdHours)
	rec.Status = Classify(rec, emp.Schedule, pol)

	stored, err := s.store.Upsert(ctx, rec)
	if err != nil {
		if errors.Is(err, attendance.ErrConflict) {
			return attendance.RecordResponse{}, err
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to save attendance record: %w", err)
	}

	resp := attendance.NewRecordResponse(stored, violations...)
	s.publish(ctx, action, resp, violations)

	slog.Debug("Attendance record updated",
		"employee_id", stored.EmployeeID,
		"date", resp.Date,
		"action", action,
		"status", stored.Status,
	)
	return resp, nil
}

func (s *AttendanceServiceImpl) acquire(ctx context.Context, employeeID string, date time.Time) (func(), error) {
	release, err := s.locker.Acquire(ctx, employeeID+"|"+date.Format(attendance.DateLayout))
	if err != nil {
		if errors.Is(err, keylock.ErrTimeout) {
			return nil, attendance.ErrBusy
		}
		return nil, fmt.Errorf("failed to acquire attendance lock: %w", err)
	}
	return release, nil
}

func (s *AttendanceServiceImpl) publish(ctx context.Context, action string, resp attendance.RecordResponse, violations []attendance.Violation) {
	occurredAt := s.clock()

	if err := s.publisher.RecordChanged(ctx, attendance.RecordChangedEvent{
		Action:     action,
		Record:     resp,
		OccurredAt: occurredAt,
	}); err != nil {
		slog.Warn("Failed to publish record change", "employee_id", resp.EmployeeID, "action", action, "error", err)
	}

	for _, v := range violations {
		if err := s.publisher.PolicyViolation(ctx, attendance.PolicyViolationEvent{
			EmployeeID: resp.EmployeeID,
			Department: resp.Department,
			Date:       resp.Date,
			Violation:  v,
			OccurredAt: occurredAt,
		}); err != nil {
			slog.Warn("Failed to publish policy violation", "employee_id", resp.EmployeeID, "kind", v.Kind, "error", err)
		}
	}
}

func (s *AttendanceServiceImpl) lookupEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.directory.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func (s *AttendanceServiceImpl) activeEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.lookupEmployee(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}
	if !emp.IsActive {
		return employee.Employee{}, employee.ErrEmployeeInactive
	}
	return emp, nil
}

func (s *AttendanceServiceImpl) clock() time.Time {
	return s.now().In(s.loc)
}

func (s *AttendanceServiceImpl) startSpan(ctx context.Context, name, employeeID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "AttendanceService."+name,
		trace.WithAttributes(attribute.String("attendance.employee_id", employeeID)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func setNotes(rec *attendance.Record, notes *string) {
	if notes == nil {
		return
	}
	n := *notes
	rec.Notes = &n
}

type Option func(*AttendanceServiceImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *AttendanceServiceImpl) { s.now = now }
}

// WithLocation sets the time zone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *AttendanceServiceImpl) { s.loc = loc }
}

func WithHolidayCalendar(c schedule.HolidayCalendar) Option {
	return func(s *AttendanceServiceImpl) { s.holidays = c }
}

func WithPublisher(p attendance.EventPublisher) Option {
	return func(s *AttendanceServiceImpl) { s.publisher = p }
}

func NewAttendanceService(
	store attendance.RecordStore,
	directory employee.Directory,
	policies policy.Provider,
	bounds attendance.BoundsProvider,
	locker keylock.Locker,
	opts ...Option,
) *AttendanceServiceImpl {
	s := &AttendanceServiceImpl{
		store:     store,
		directory: directory,
		policies:  policies,
		bounds:    bounds,
		locker:    locker,
		holidays:  schedule.NoHolidays{},
		publisher: attendance.NopPublisher{},
		loc:       time.Local,
		now:       time.Now,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
