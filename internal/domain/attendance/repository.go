package attendance

import (
	"context"
	"time"
)

// RecordStore persists attendance records keyed by (employeeID, date).
// Upsert is the only mutation; callers recalculate and reclassify the record
// before handing it over.
type RecordStore interface {
	// Get returns ErrRecordNotFound when no record exists for the key.
	Get(ctx context.Context, employeeID string, date time.Time) (Record, error)

	// Upsert inserts a record with Version 0 or updates the stored record
	// whose version equals rec.Version. It returns the stored record with the
	// new version, or ErrConflict when the key was written in between.
	Upsert(ctx context.Context, rec Record) (Record, error)

	// Query returns the records matching a validated filter, sorted, and the
	// total match count before paging.
	Query(ctx context.Context, filter RecordFilter) ([]Record, int64, error)

	// ListOpen returns records that are checked in but not checked out and
	// whose date is before the given day.
	ListOpen(ctx context.Context, before time.Time) ([]Record, error)
}
