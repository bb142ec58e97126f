package attendance

import (
	"context"
	"time"
)

type RecordChangedEvent struct {
	Action     string         `json:"action"` // check_in, start_break, end_break, check_out, correct, approve, mark_status, mark_absent, auto_close
	Record     RecordResponse `json:"record"`
	OccurredAt time.Time      `json:"occurredAt"`
}

type PolicyViolationEvent struct {
	EmployeeID string    `json:"employeeId"`
	Department string    `json:"department,omitempty"`
	Date       string    `json:"date"`
	Violation  Violation `json:"violation"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher receives notifications after a record has been stored.
// Publishing failures never undo the write.
type EventPublisher interface {
	RecordChanged(ctx context.Context, event RecordChangedEvent) error
	PolicyViolation(ctx context.Context, event PolicyViolationEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) RecordChanged(context.Context, RecordChangedEvent) error     { return nil }
func (NopPublisher) PolicyViolation(context.Context, PolicyViolationEvent) error { return nil }
