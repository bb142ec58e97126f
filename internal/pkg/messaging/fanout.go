package messaging

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// Fanout delivers every event to all publishers. One failing publisher does
// not stop delivery to the others.
type Fanout []attendance.EventPublisher

func (f Fanout) RecordChanged(ctx context.Context, event attendance.RecordChangedEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.RecordChanged(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) PolicyViolation(ctx context.Context, event attendance.PolicyViolationEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.PolicyViolation(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ attendance.EventPublisher = Fanout(nil)
