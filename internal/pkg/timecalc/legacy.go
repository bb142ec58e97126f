package timecalc

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// LegacyHoursBetween computes the hours between two "HH:MM" wall-clock values.
// When end is earlier than start the pair is read as an overnight shift and
// wraps past midnight: (24h - start) + end.
func LegacyHoursBetween(start, end string) (float64, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}

	diff := e.Minutes() - s.Minutes()
	if diff < 0 {
		diff = (minutesPerDay - s.Minutes()) + e.Minutes()
	}
	return float64(diff) / 60, nil
}

// ResolveLegacy converts a wall-clock value on date into an instant. If after
// is given and the resulting instant is earlier than it, the value belongs to
// the following day (overnight wrap).
func ResolveLegacy(date time.Time, clock string, after *time.Time) (time.Time, error) {
	c, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	t := c.On(date)
	if after != nil && t.Before(*after) {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

// ParseInstant accepts either an RFC3339 timestamp or a legacy "HH:MM" value
// anchored on date. Legacy values earlier than after roll over to the next day.
func ParseInstant(value string, date time.Time, after *time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(date.Location()), nil
	}
	t, err := ResolveLegacy(date, value, after)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC3339 timestamp or HH:MM: %w", err)
	}
	return t, nil
}
