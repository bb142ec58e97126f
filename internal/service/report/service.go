package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/export"
)

type ReportServiceImpl struct {
	records report.RecordReader
	bounds  attendance.BoundsProvider
	loc     *time.Location
	now     func() time.Time
	tracer  trace.Tracer
}

func NewReportService(records report.RecordReader, bounds attendance.BoundsProvider, loc *time.Location) *ReportServiceImpl {
	return &ReportServiceImpl{
		records: records,
		bounds:  bounds,
		loc:     loc,
		now:     time.Now,
		tracer:  otel.Tracer("github.com/cmlabs-hris/attendance-engine/internal/service/report"),
	}
}

// Summarize implements report.ReportService.
func (s *ReportServiceImpl) Summarize(ctx context.Context, req report.SummaryRequest) (resp report.SummaryResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "ReportService.Summarize")
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return report.SummaryResponse{}, err
	}
	window, _ := report.ParseWindow(req.Window)

	records, err := s.load(ctx, &req.Filter)
	if err != nil {
		return report.SummaryResponse{}, err
	}
	span.SetAttributes(attribute.Int("report.records", len(records)))

	return report.SummaryResponse{
		StartDate:   req.Filter.From.Format(attendance.DateLayout),
		EndDate:     req.Filter.To.Format(attendance.DateLayout),
		Window:      window,
		Summary:     Summarize(records),
		Periods:     SummarizeByWindow(records, window),
		GeneratedAt: s.now().In(s.loc).Format(time.RFC3339),
	}, nil
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, req report.ExportRequest, w io.Writer) (filename string, err error) {
	ctx, span := s.tracer.Start(ctx, "ReportService.Export")
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return "", err
	}

	records, err := s.load(ctx, &req.Filter)
	if err != nil {
		return "", err
	}
	span.SetAttributes(
		attribute.String("report.format", req.Format),
		attribute.Int("report.records", len(records)),
	)

	switch report.ExportFormat(req.Format) {
	case report.FormatCSV:
		err = export.WriteCSV(w, records)
	case report.FormatXLSX:
		err = export.WriteXLSX(w, records, summaryLines(req.Filter, Summarize(records)))
	default:
		return "", fmt.Errorf("%w: %s", report.ErrUnsupportedFormat, req.Format)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
	}
	return req.Filename(), nil
}

// load validates the filter and fetches every matching record. Reports are
// never paged.
func (s *ReportServiceImpl) load(ctx context.Context, filter *attendance.RecordFilter) ([]attendance.Record, error) {
	if err := filter.Validate(s.bounds.QueryBounds(), s.now().In(s.loc)); err != nil {
		return nil, err
	}
	filter.Page, filter.Limit = 1, 0

	records, _, err := s.records.Query(ctx, *filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	return records, nil
}

func summaryLines(filter attendance.RecordFilter, sum report.AttendanceSummary) []export.SummaryLine {
	return []export.SummaryLine{
		{Label: "Start Date", Value: filter.From.Format(attendance.DateLayout)},
		{Label: "End Date", Value: filter.To.Format(attendance.DateLayout)},
		{Label: "Total Days", Value: sum.TotalDays},
		{Label: "Working Days", Value: sum.WorkingDays},
		{Label: "Present Days", Value: sum.PresentDays},
		{Label: "Late Days", Value: sum.LateDays},
		{Label: "Absent Days", Value: sum.AbsentDays},
		{Label: "Partial Days", Value: sum.PartialDays},
		{Label: "Sick Leave Days", Value: sum.SickLeaveDays},
		{Label: "Holiday Days", Value: sum.HolidayDays},
		{Label: "Total Hours", Value: sum.TotalHours},
		{Label: "Working Hours", Value: sum.WorkingHours},
		{Label: "Overtime Hours", Value: sum.OvertimeHours},
		{Label: "On-Time %", Value: sum.OnTimePercentage},
		{Label: "Attendance Rate %", Value: sum.AttendanceRate},
		{Label: "Punctuality Score %", Value: sum.PunctualityScore},
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

var _ report.ReportService = (*ReportServiceImpl)(nil)
