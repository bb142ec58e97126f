package report

import (
	"context"
	"io"
)

// ReportService defines the interface for attendance reporting
type ReportService interface {
	// Summarize rolls the filtered records into an AttendanceSummary, with an
	// optional per-window breakdown
	Summarize(ctx context.Context, req SummaryRequest) (SummaryResponse, error)

	// Export writes the filtered records to w in the requested format and
	// returns a suggested download name
	Export(ctx context.Context, req ExportRequest, w io.Writer) (string, error)
}
