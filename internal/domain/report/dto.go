package report

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

// ========================================
// SUMMARY
// ========================================

// Window groups records into periods. WindowNone returns one summary for the
// whole range.
type Window string

const (
	WindowNone    Window = ""
	WindowDaily   Window = "daily"
	WindowWeekly  Window = "weekly" // ISO weeks, starting Monday
	WindowMonthly Window = "monthly"
	WindowYearly  Window = "yearly"
)

func ParseWindow(s string) (Window, error) {
	switch w := Window(s); w {
	case WindowNone, WindowDaily, WindowWeekly, WindowMonthly, WindowYearly:
		return w, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidWindow, s)
	}
}

type SummaryRequest struct {
	Filter attendance.RecordFilter `json:"filter"`
	Window string                  `json:"window"` // daily, weekly, monthly, yearly or empty
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, err := ParseWindow(r.Window); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "window",
			Message: "window must be one of: daily, weekly, monthly, yearly",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AttendanceSummary is computed per request and never stored. Rates are
// percentages rounded to two decimals.
type AttendanceSummary struct {
	TotalDays     int `json:"totalDays"`
	WorkingDays   int `json:"workingDays"`
	PresentDays   int `json:"presentDays"`
	LateDays      int `json:"lateDays"`
	AbsentDays    int `json:"absentDays"`
	PartialDays   int `json:"partialDays"`
	SickLeaveDays int `json:"sickLeaveDays"`
	HolidayDays   int `json:"holidayDays"`

	TotalHours    float64 `json:"totalHours"`
	WorkingHours  float64 `json:"workingHours"`
	BreakHours    float64 `json:"breakHours"`
	OvertimeHours float64 `json:"overtimeHours"`

	OnTimePercentage float64 `json:"onTimePercentage"`
	AttendanceRate   float64 `json:"attendanceRate"`
	PunctualityScore float64 `json:"punctualityScore"`
}

type PeriodSummary struct {
	Period    string            `json:"period"` // 2026-03-02, 2026-W10, 2026-03, 2026
	StartDate string            `json:"startDate"`
	EndDate   string            `json:"endDate"`
	Summary   AttendanceSummary `json:"summary"`
}

type SummaryResponse struct {
	StartDate   string            `json:"startDate"`
	EndDate     string            `json:"endDate"`
	Window      Window            `json:"window,omitempty"`
	Summary     AttendanceSummary `json:"summary"`
	Periods     []PeriodSummary   `json:"periods,omitempty"`
	GeneratedAt string            `json:"generatedAt"`
}

// ========================================
// EXPORT
// ========================================

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

func (f ExportFormat) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

type ExportRequest struct {
	Filter attendance.RecordFilter `json:"filter"`
	Format string                  `json:"format"` // csv, xlsx
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Format == "" {
		r.Format = string(FormatCSV)
	}
	if !validator.IsInSlice(r.Format, []string{string(FormatCSV), string(FormatXLSX)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of: csv, xlsx",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Filename suggests a download name for the export.
func (r ExportRequest) Filename() string {
	return fmt.Sprintf("attendance_%s_%s.%s",
		r.Filter.From.Format(attendance.DateLayout),
		r.Filter.To.Format(attendance.DateLayout),
		r.Format)
}
