package attendance

import (
	"context"
	"time"
)

// AttendanceService defines the time clock and record maintenance operations.
type AttendanceService interface {
	// CheckIn opens the employee's record for today.
	CheckIn(ctx context.Context, req ClockRequest) (RecordResponse, error)

	// CheckOut closes the open session, ending an open break first.
	CheckOut(ctx context.Context, req ClockRequest) (RecordResponse, error)

	StartBreak(ctx context.Context, req ClockRequest) (RecordResponse, error)
	EndBreak(ctx context.Context, req ClockRequest) (RecordResponse, error)

	GetRecord(ctx context.Context, employeeID, date string) (RecordResponse, error)

	// ListRecords queries records with filters (reporting UIs)
	ListRecords(ctx context.Context, filter RecordFilter) (ListRecordResponse, error)

	// CorrectRecord replaces recorded times by hand and reclassifies
	CorrectRecord(ctx context.Context, req CorrectRecordRequest) (RecordResponse, error)

	ApproveRecord(ctx context.Context, req ApproveRecordRequest) (RecordResponse, error)

	// MarkStatus records holiday or sick leave for a day
	MarkStatus(ctx context.Context, req MarkStatusRequest) (RecordResponse, error)

	// MarkAbsent creates absent (or holiday) records for active employees
	// scheduled on date who have none. It returns the number created.
	MarkAbsent(ctx context.Context, date time.Time) (int, error)

	// CloseStaleSessions checks out sessions from days before now that were
	// never closed, at their scheduled end. It returns the number closed.
	CloseStaleSessions(ctx context.Context, now time.Time) (int, error)
}
