package attendance

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

const (
	DateLayout = "2006-01-02"

	DefaultRangeDays = 30
	DefaultPageLimit = 20
	MaxPageLimit     = 500
)

// ========================================
// TIME CLOCK DTOs
// ========================================

type ClockRequest struct {
	EmployeeID string  `json:"employeeId"`
	Notes      *string `json:"notes,omitempty"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId is required",
		})
	} else if !validator.IsValidEmployeeID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId may only contain letters, digits, '.', '_' and '-' (max 64)",
		})
	}

	if r.Notes != nil && len(*r.Notes) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// RECORD MAINTENANCE DTOs
// ========================================

// CorrectRecordRequest replaces recorded times. Each time accepts an RFC3339
// timestamp or a wall-clock "HH:MM" on the record's date; a wall-clock value
// earlier than the preceding time rolls over to the next day. Nil fields keep
// their current value; ClearBreak removes the break entirely.
type CorrectRecordRequest struct {
	EmployeeID string  `json:"-"` // from path
	Date       string  `json:"-"` // from path, YYYY-MM-DD
	CheckIn    *string `json:"checkIn,omitempty"`
	CheckOut   *string `json:"checkOut,omitempty"`
	BreakStart *string `json:"breakStart,omitempty"`
	BreakEnd   *string `json:"breakEnd,omitempty"`
	ClearBreak bool    `json:"clearBreak,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

func (r *CorrectRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validateKey(r.EmployeeID, r.Date)...)

	fields := []struct {
		name  string
		value *string
	}{
		{"checkIn", r.CheckIn},
		{"checkOut", r.CheckOut},
		{"breakStart", r.BreakStart},
		{"breakEnd", r.BreakEnd},
	}
	changed := false
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		changed = true
		if !validator.IsValidTimeInput(*f.value) {
			errs = append(errs, validator.ValidationError{
				Field:   f.name,
				Message: f.name + " must be an RFC3339 timestamp or HH:MM",
			})
		}
	}

	if r.ClearBreak && (r.BreakStart != nil || r.BreakEnd != nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "clearBreak",
			Message: "clearBreak cannot be combined with breakStart or breakEnd",
		})
	}

	if !changed && !r.ClearBreak && r.Notes == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "at least one field must be provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApproveRecordRequest struct {
	EmployeeID string `json:"-"`
	Date       string `json:"-"`
	ApprovedBy string `json:"approvedBy"`
}

func (r *ApproveRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validateKey(r.EmployeeID, r.Date)...)

	if validator.IsEmpty(r.ApprovedBy) {
		errs = append(errs, validator.ValidationError{
			Field:   "approvedBy",
			Message: "approvedBy is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MarkStatusRequest sets an explicit holiday or sick_leave status.
type MarkStatusRequest struct {
	EmployeeID string  `json:"-"`
	Date       string  `json:"-"`
	Status     string  `json:"status"`
	Notes      *string `json:"notes,omitempty"`
}

func (r *MarkStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validateKey(r.EmployeeID, r.Date)...)

	validStatuses := []string{string(StatusHoliday), string(StatusSickLeave)}
	if !validator.IsInSlice(r.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: holiday, sick_leave",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateKey(employeeID, date string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if !validator.IsValidEmployeeID(employeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId is required",
		})
	}
	if _, ok := validator.IsValidDate(date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	return errs
}

// ========================================
// QUERY DTOs
// ========================================

// QueryBounds limits how far a query may reach from today. Zero means
// unbounded.
type QueryBounds struct {
	MaxDaysBack    int
	MaxDaysForward int
}

// QueryBounds lets a fixed value serve as a BoundsProvider.
func (b QueryBounds) QueryBounds() QueryBounds { return b }

// BoundsProvider returns the query ceiling currently in force.
type BoundsProvider interface {
	QueryBounds() QueryBounds
}

type RecordFilter struct {
	// Search & Filter
	EmployeeID      *string `json:"employeeId,omitempty"`
	EmployeeName    *string `json:"employeeName,omitempty"` // case-insensitive substring
	Department      *string `json:"department,omitempty"`
	Status          *string `json:"status,omitempty"`
	StartDate       *string `json:"startDate,omitempty"` // YYYY-MM-DD
	EndDate         *string `json:"endDate,omitempty"`   // YYYY-MM-DD
	IncludeWeekends *bool   `json:"includeWeekends,omitempty"`
	IncludeHolidays *bool   `json:"includeHolidays,omitempty"`

	// Pagination, Limit 0 returns every match
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sortBy"`    // date, employee_name, check_in, check_out, status, working_hours
	SortOrder string `json:"sortOrder"` // asc, desc

	// Resolved by Validate
	From time.Time `json:"-"`
	To   time.Time `json:"-"`
}

var validSortFields = []string{"date", "employee_name", "check_in", "check_out", "status", "working_hours"}

// Validate checks the filter, fills defaults and resolves the date range in
// now's location. Without dates the range is the DefaultRangeDays up to today.
func (f *RecordFilter) Validate(bounds QueryBounds, now time.Time) error {
	var errs validator.ValidationErrors
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit > MaxPageLimit {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: fmt.Sprintf("limit must not exceed %d", MaxPageLimit),
		})
	}

	if f.Status != nil {
		if _, err := ParseStatus(*f.Status); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: present, late, absent, partial, holiday, sick_leave",
			})
		}
	}

	if f.EmployeeID != nil && !validator.IsValidEmployeeID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId is invalid",
		})
	}

	var (
		from, to       time.Time
		hasFrom, hasTo bool
		badFrom, badTo bool
	)
	if f.EndDate != nil && *f.EndDate != "" {
		if to, hasTo = validator.IsValidDateIn(*f.EndDate, loc); !hasTo {
			badTo = true
			errs = append(errs, validator.ValidationError{
				Field:   "endDate",
				Message: "endDate must be in YYYY-MM-DD format",
			})
		}
	}
	if f.StartDate != nil && *f.StartDate != "" {
		if from, hasFrom = validator.IsValidDateIn(*f.StartDate, loc); !hasFrom {
			badFrom = true
			errs = append(errs, validator.ValidationError{
				Field:   "startDate",
				Message: "startDate must be in YYYY-MM-DD format",
			})
		}
	}

	if !badFrom && !badTo {
		if !hasTo {
			to = today
			if hasFrom && from.After(to) {
				to = from
			}
		}
		if !hasFrom {
			from = to.AddDate(0, 0, -DefaultRangeDays)
		}

		if from.After(to) {
			errs = append(errs, validator.ValidationError{
				Field:   "startDate",
				Message: "startDate must not be after endDate",
			})
		}
		if bounds.MaxDaysBack > 0 && from.Before(today.AddDate(0, 0, -bounds.MaxDaysBack)) {
			errs = append(errs, validator.ValidationError{
				Field:   "startDate",
				Message: fmt.Sprintf("startDate must be within %d days before today", bounds.MaxDaysBack),
			})
		}
		if bounds.MaxDaysForward > 0 && to.After(today.AddDate(0, 0, bounds.MaxDaysForward)) {
			errs = append(errs, validator.ValidationError{
				Field:   "endDate",
				Message: fmt.Sprintf("endDate must be within %d days after today", bounds.MaxDaysForward),
			})
		}
		f.From, f.To = from, to
	}

	if f.SortBy != "" {
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sortBy",
				Message: "sortBy must be one of: " + strings.Join(validSortFields, ", "),
			})
		}
	} else {
		f.SortBy = "date"
	}

	if f.SortOrder != "" {
		f.SortOrder = strings.ToLower(f.SortOrder)
		if !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sortOrder",
				Message: "sortOrder must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// WeekendsIncluded defaults to true.
func (f RecordFilter) WeekendsIncluded() bool {
	return f.IncludeWeekends == nil || *f.IncludeWeekends
}

// HolidaysIncluded defaults to true.
func (f RecordFilter) HolidaysIncluded() bool {
	return f.IncludeHolidays == nil || *f.IncludeHolidays
}

// Offset is the number of rows skipped for the current page.
func (f RecordFilter) Offset() int {
	if f.Limit <= 0 || f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// ========================================
// RESPONSES
// ========================================

type RecordResponse struct {
	ID            string      `json:"id"`
	EmployeeID    string      `json:"employeeId"`
	EmployeeName  string      `json:"employeeName,omitempty"`
	Department    string      `json:"department,omitempty"`
	Date          string      `json:"date"`
	State         State       `json:"state"`
	CheckIn       *string     `json:"checkIn"`
	CheckOut      *string     `json:"checkOut"`
	BreakStart    *string     `json:"breakStart"`
	BreakEnd      *string     `json:"breakEnd"`
	TotalHours    float64     `json:"totalHours"`
	WorkingHours  float64     `json:"workingHours"`
	BreakHours    float64     `json:"breakHours"`
	OvertimeHours float64     `json:"overtimeHours"`
	Status        Status      `json:"status"`
	Notes         *string     `json:"notes"`
	IsManualEntry bool        `json:"isManualEntry"`
	ApprovedBy    *string     `json:"approvedBy,omitempty"`
	ApprovedAt    *string     `json:"approvedAt,omitempty"`
	Violations    []Violation `json:"violations,omitempty"`
	CreatedAt     string      `json:"createdAt"`
	UpdatedAt     string      `json:"updatedAt"`
}

func NewRecordResponse(r Record, violations ...Violation) RecordResponse {
	return RecordResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		Department:    r.Department,
		Date:          r.Date.Format(DateLayout),
		State:         r.State(),
		CheckIn:       formatTime(r.CheckIn),
		CheckOut:      formatTime(r.CheckOut),
		BreakStart:    formatTime(r.BreakStart),
		BreakEnd:      formatTime(r.BreakEnd),
		TotalHours:    r.TotalHours,
		WorkingHours:  r.WorkingHours,
		BreakHours:    r.BreakHours,
		OvertimeHours: r.OvertimeHours,
		Status:        r.Status,
		Notes:         r.Notes,
		IsManualEntry: r.IsManualEntry,
		ApprovedBy:    r.ApprovedBy,
		ApprovedAt:    formatTime(r.ApprovedAt),
		Violations:    violations,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

type ListRecordResponse struct {
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
	Showing    string           `json:"showing"`
	Records    []RecordResponse `json:"records"`
}

func NewListRecordResponse(records []Record, total int64, filter RecordFilter) ListRecordResponse {
	resp := ListRecordResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Records:    make([]RecordResponse, 0, len(records)),
	}
	for _, r := range records {
		resp.Records = append(resp.Records, NewRecordResponse(r))
	}

	if filter.Limit > 0 {
		resp.TotalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	} else if total > 0 {
		resp.TotalPages = 1
	}

	start := filter.Offset() + 1
	end := filter.Offset() + len(records)
	if len(records) == 0 {
		start = 0
	}
	resp.Showing = fmt.Sprintf("%d-%d of %d", start, end, total)
	return resp
}
