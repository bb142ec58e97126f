package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

const (
	EventRecordChanged   = "RECORD_CHANGED"
	EventPolicyViolation = "POLICY_VIOLATION"
)

// Producer publishes attendance events as JSON messages. An empty queue URL
// disables that event kind.
type Producer struct {
	sender             MessageSender
	recordQueueURL     string
	violationsQueueURL string
}

func NewProducer(sender MessageSender, recordQueueURL, violationsQueueURL string) *Producer {
	return &Producer{
		sender:             sender,
		recordQueueURL:     recordQueueURL,
		violationsQueueURL: violationsQueueURL,
	}
}

func (p *Producer) RecordChanged(ctx context.Context, event attendance.RecordChangedEvent) error {
	return p.publish(ctx, p.recordQueueURL, EventRecordChanged, event.Record.EmployeeID, event)
}

func (p *Producer) PolicyViolation(ctx context.Context, event attendance.PolicyViolationEvent) error {
	return p.publish(ctx, p.violationsQueueURL, EventPolicyViolation, event.EmployeeID, event)
}

func (p *Producer) publish(ctx context.Context, destination, eventType, employeeID string, body any) error {
	if destination == "" {
		return nil
	}

	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("app.employeeId", employeeID),
			attribute.String("messaging.event_type", eventType),
		)
	}

	if err := p.sender.SendMessage(ctx, destination, eventType, b); err != nil {
		return fmt.Errorf("failed to send %s event: %w", eventType, err)
	}
	return nil
}

var _ attendance.EventPublisher = (*Producer)(nil)
