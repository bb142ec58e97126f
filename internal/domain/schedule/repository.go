package schedule

import (
	"context"
	"time"
)

// HolidayCalendar is the injected holiday lookup. Managing the calendar
// happens elsewhere.
type HolidayCalendar interface {
	// IsHoliday reports whether date is a holiday for the department. An
	// empty department matches company-wide holidays only.
	IsHoliday(ctx context.Context, date time.Time, department string) (bool, error)
}

// NoHolidays is a HolidayCalendar with no holidays.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(context.Context, time.Time, string) (bool, error) {
	return false, nil
}
