package schedule

import "errors"

var (
	ErrInvalidHolidayDate = errors.New("invalid holiday date, expected YYYY-MM-DD")
	ErrScheduleNotFound   = errors.New("work schedule not found")
)
