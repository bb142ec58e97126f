// Package export writes attendance records to spreadsheet formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

var header = []string{
	"Employee ID", "Employee Name", "Department", "Date", "Status",
	"Check In", "Check Out", "Break Start", "Break End",
	"Total Hours", "Working Hours", "Break Hours", "Overtime Hours",
	"Manual Entry", "Approved By", "Notes",
}

func row(r attendance.Record) []string {
	return []string{
		r.EmployeeID,
		r.EmployeeName,
		r.Department,
		r.Date.Format(attendance.DateLayout),
		string(r.Status),
		clock(r.CheckIn, r.Date),
		clock(r.CheckOut, r.Date),
		clock(r.BreakStart, r.Date),
		clock(r.BreakEnd, r.Date),
		hours(r.TotalHours),
		hours(r.WorkingHours),
		hours(r.BreakHours),
		hours(r.OvertimeHours),
		strconv.FormatBool(r.IsManualEntry),
		deref(r.ApprovedBy),
		deref(r.Notes),
	}
}

// clock prints HH:MM, with the full date when the time is not on the
// record's day (overnight shifts).
func clock(t *time.Time, date time.Time) string {
	if t == nil {
		return ""
	}
	local := t.In(date.Location())
	if local.Format(attendance.DateLayout) != date.Format(attendance.DateLayout) {
		return local.Format("2006-01-02 15:04")
	}
	return local.Format("15:04")
}

func hours(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// WriteCSV writes a header line and one line per record.
func WriteCSV(w io.Writer, records []attendance.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
