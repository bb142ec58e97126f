package report

import "errors"

var (
	ErrInvalidWindow          = errors.New("window must be daily, weekly, monthly or yearly")
	ErrUnsupportedFormat      = errors.New("unsupported export format")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
