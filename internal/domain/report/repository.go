package report

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// RecordReader is the part of the record store reports read from. Reports
// never write.
type RecordReader interface {
	Query(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error)
}
