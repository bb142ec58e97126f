package validator

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	return slices.Contains(slice, value)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidDateIn parses a "YYYY-MM-DD" date as midnight in loc.
func IsValidDateIn(dateStr string, loc *time.Location) (time.Time, bool) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	return date, err == nil
}

// IsValidDateTime checks if a string is a valid ISO8601 timestamp.
// Accepts formats like: "2024-01-15T10:30:00Z" or "2024-01-15T10:30:00+07:00"
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, dateTimeStr)
	if err == nil {
		return t, true
	}

	t, err = time.Parse(time.RFC3339Nano, dateTimeStr)
	if err == nil {
		return t, true
	}

	return time.Time{}, false
}

var clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

// IsValidClock checks a wall-clock "HH:MM" or "HH:MM:SS" value.
func IsValidClock(s string) bool {
	return clockRegex.MatchString(s)
}

// IsValidTimeInput accepts either an RFC3339 timestamp or a wall-clock value.
func IsValidTimeInput(s string) bool {
	if _, ok := IsValidDateTime(s); ok {
		return true
	}
	return IsValidClock(s)
}

var employeeIDRegex = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// IsValidEmployeeID: 1-64 chars, A-Z, a-z, 0-9, ., _, -
func IsValidEmployeeID(id string) bool {
	return employeeIDRegex.MatchString(id)
}
