package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/memory"
)

func newTestReportService(t *testing.T, records ...attendance.Record) *ReportServiceImpl {
	t.Helper()
	store := memory.NewRecordStore()
	for _, r := range records {
		_, err := store.Upsert(context.Background(), r)
		require.NoError(t, err)
	}

	svc := NewReportService(store, attendance.QueryBounds{MaxDaysBack: 365, MaxDaysForward: 30}, wib)
	svc.now = func() time.Time { return time.Date(2026, 3, 31, 12, 0, 0, 0, wib) }
	return svc
}

func strPtr(s string) *string { return &s }

func TestReportService_Summarize(t *testing.T) {
	// Setup
	svc := newTestReportService(t,
		attendance.Record{EmployeeID: "EMP-1", Department: "engineering", Date: day(3, 2), Status: attendance.StatusPresent, WorkingHours: 8},
		attendance.Record{EmployeeID: "EMP-1", Department: "engineering", Date: day(3, 3), Status: attendance.StatusLate, WorkingHours: 7.5},
		attendance.Record{EmployeeID: "EMP-2", Department: "finance", Date: day(3, 2), Status: attendance.StatusAbsent},
	)

	// Act
	resp, err := svc.Summarize(context.Background(), report.SummaryRequest{
		Filter: attendance.RecordFilter{
			Department: strPtr("engineering"),
			StartDate:  strPtr("2026-03-01"),
			EndDate:    strPtr("2026-03-31"),
		},
		Window: "weekly",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", resp.StartDate)
	assert.Equal(t, 2, resp.Summary.TotalDays)
	assert.Equal(t, 15.5, resp.Summary.WorkingHours)
	assert.Equal(t, 50.0, resp.Summary.PunctualityScore)
	require.Len(t, resp.Periods, 1)
	assert.Equal(t, "2026-W10", resp.Periods[0].Period)
}

func TestReportService_Summarize_Empty(t *testing.T) {
	svc := newTestReportService(t)

	resp, err := svc.Summarize(context.Background(), report.SummaryRequest{})

	require.NoError(t, err)
	assert.Equal(t, report.AttendanceSummary{}, resp.Summary)
	assert.Equal(t, "2026-03-01", resp.StartDate)
	assert.Equal(t, "2026-03-31", resp.EndDate)
}

func TestReportService_Summarize_Invalid(t *testing.T) {
	svc := newTestReportService(t)

	_, err := svc.Summarize(context.Background(), report.SummaryRequest{Window: "hourly"})
	var errs validator.ValidationErrors
	assert.ErrorAs(t, err, &errs)

	_, err = svc.Summarize(context.Background(), report.SummaryRequest{
		Filter: attendance.RecordFilter{StartDate: strPtr("2024-01-01")},
	})
	assert.ErrorAs(t, err, &errs)
}

func TestReportService_Export_CSV(t *testing.T) {
	svc := newTestReportService(t,
		attendance.Record{EmployeeID: "EMP-1", Date: day(3, 2), Status: attendance.StatusPresent, WorkingHours: 8},
		attendance.Record{EmployeeID: "EMP-1", Date: day(3, 3), Status: attendance.StatusLate, WorkingHours: 7.5},
	)
	var buf bytes.Buffer

	filename, err := svc.Export(context.Background(), report.ExportRequest{
		Filter: attendance.RecordFilter{SortBy: "date", SortOrder: "asc"},
	}, &buf)

	require.NoError(t, err)
	assert.Equal(t, "attendance_2026-03-01_2026-03-31.csv", filename)
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2026-03-02", rows[1][3])
	assert.Equal(t, "late", rows[2][4])
}

func TestReportService_Export_RejectsPDF(t *testing.T) {
	svc := newTestReportService(t)

	_, err := svc.Export(context.Background(), report.ExportRequest{Format: "pdf"}, &bytes.Buffer{})

	var errs validator.ValidationErrors
	assert.ErrorAs(t, err, &errs)
}
