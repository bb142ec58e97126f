package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
)

type ReportHandler interface {
	// Summary handles GET /reports/summary
	Summary(w http.ResponseWriter, r *http.Request)

	// Export handles GET /reports/export
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// Summary implements ReportHandler.
func (h *reportHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRecordFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.Summarize(r.Context(), report.SummaryRequest{
		Filter: filter,
		Window: r.URL.Query().Get("window"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export implements ReportHandler. The file is built in memory so a failure
// can still be reported as JSON.
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRecordFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := report.ExportRequest{
		Filter: filter,
		Format: r.URL.Query().Get("format"),
	}

	var buf bytes.Buffer
	filename, err := h.reportService.Export(r.Context(), req, &buf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	format := report.FormatCSV
	if req.Format != "" {
		format = report.ExportFormat(req.Format)
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
