// Package timecalc holds the hour arithmetic used to derive attendance figures.
// All core functions operate on real instants; wall-clock strings are handled
// only by the legacy adapter in legacy.go.
package timecalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// HoursBetween returns the elapsed hours from start to end.
// An end before start yields 0.
func HoursBetween(start, end time.Time) float64 {
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours()
}

// OptionalHoursBetween is HoursBetween for optional bounds; a missing bound yields 0.
func OptionalHoursBetween(start, end *time.Time) float64 {
	if start == nil || end == nil {
		return 0
	}
	return HoursBetween(*start, *end)
}

// WorkingHours is the time between check-in and check-out minus the break,
// floored at 0.
func WorkingHours(checkIn, checkOut, breakStart, breakEnd *time.Time) float64 {
	total := OptionalHoursBetween(checkIn, checkOut)
	worked := total - OptionalHoursBetween(breakStart, breakEnd)
	if worked < 0 {
		return 0
	}
	return worked
}

// Overtime returns the hours worked beyond the full-day threshold.
func Overtime(workingHours, fullDayHours float64) float64 {
	return math.Max(0, workingHours-fullDayHours)
}

// Round2 rounds to two decimals (8.1666 -> 8.17).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (a trailing ":SS" is accepted and ignored).
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Clock{}, fmt.Errorf("invalid clock %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("invalid minute in %q", s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// MustClock is ParseClock for literals known to be valid.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// On returns the instant of c on the calendar day of date, in date's location.
func (c Clock) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

// Minutes returns minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Before reports whether c is earlier in the day than o.
func (c Clock) Before(o Clock) bool {
	return c.Minutes() < o.Minutes()
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
