package sse

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

const (
	EventRecordChanged   = "record_changed"
	EventPolicyViolation = "policy_violation"
)

func EmployeeTopic(employeeID string) string   { return "employee:" + employeeID }
func DepartmentTopic(department string) string { return "department:" + department }

// Publisher feeds attendance events into a Hub.
type Publisher struct {
	hub *Hub
}

func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

func (p *Publisher) RecordChanged(_ context.Context, event attendance.RecordChangedEvent) error {
	p.hub.Publish(Event{Event: EventRecordChanged, Data: event}, topics(event.Record.EmployeeID, event.Record.Department)...)
	return nil
}

func (p *Publisher) PolicyViolation(_ context.Context, event attendance.PolicyViolationEvent) error {
	p.hub.Publish(Event{Event: EventPolicyViolation, Data: event}, topics(event.EmployeeID, event.Department)...)
	return nil
}

func topics(employeeID, department string) []string {
	t := []string{EmployeeTopic(employeeID)}
	if department != "" {
		t = append(t, DepartmentTopic(department))
	}
	return t
}

var _ attendance.EventPublisher = (*Publisher)(nil)
