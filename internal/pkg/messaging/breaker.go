package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSender stops calling the wrapped sender while the queue is failing.
// Calls rejected by an open breaker return gobreaker.ErrOpenState.
type BreakerSender struct {
	next MessageSender
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerSender(name string, next MessageSender) *BreakerSender {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if at least half of 10 or more requests failed
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerSender{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *BreakerSender) SendMessage(ctx context.Context, destination, eventType string, body []byte) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.SendMessage(ctx, destination, eventType, body)
	})
	return err
}

func (b *BreakerSender) State() gobreaker.State {
	return b.cb.State()
}
