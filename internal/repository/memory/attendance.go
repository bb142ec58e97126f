// Package memory holds in-process implementations of the storage interfaces,
// used for single-node deployments and tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

type recordKey struct {
	employeeID string
	date       string
}

func keyOf(employeeID string, date time.Time) recordKey {
	return recordKey{employeeID: employeeID, date: date.Format(attendance.DateLayout)}
}

// RecordStore keeps records in a map. Every value crossing the boundary is a
// deep copy, so readers work on a snapshot.
type RecordStore struct {
	mu      sync.RWMutex
	records map[recordKey]attendance.Record
	now     func() time.Time
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[recordKey]attendance.Record),
		now:     time.Now,
	}
}

func (s *RecordStore) Get(_ context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[keyOf(employeeID, date)]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return rec.Clone(), nil
}

func (s *RecordStore) Upsert(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(rec.EmployeeID, rec.Date)
	current, exists := s.records[key]
	now := s.now()

	switch {
	case rec.Version == 0 && exists:
		return attendance.Record{}, attendance.ErrConflict
	case rec.Version != 0 && (!exists || current.Version != rec.Version):
		return attendance.Record{}, attendance.ErrConflict
	}

	stored := rec.Clone()
	if !exists {
		if stored.ID == "" {
			stored.ID = uuid.NewString()
		}
		stored.CreatedAt = now
	} else {
		stored.ID = current.ID
		stored.CreatedAt = current.CreatedAt
	}
	stored.Version = rec.Version + 1
	stored.UpdatedAt = now

	s.records[key] = stored
	return stored.Clone(), nil
}

func (s *RecordStore) Query(_ context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	s.mu.RLock()
	matched := make([]attendance.Record, 0)
	for _, rec := range s.records {
		if matches(rec, filter) {
			matched = append(matched, rec.Clone())
		}
	}
	s.mu.RUnlock()

	sortRecords(matched, filter.SortBy, filter.SortOrder)

	total := int64(len(matched))
	if filter.Limit > 0 {
		offset := min(filter.Offset(), len(matched))
		end := min(offset+filter.Limit, len(matched))
		matched = matched[offset:end]
	}
	return matched, total, nil
}

func (s *RecordStore) ListOpen(_ context.Context, before time.Time) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := before.Format(attendance.DateLayout)
	var open []attendance.Record
	for key, rec := range s.records {
		if rec.IsOpen() && key.date < cutoff {
			open = append(open, rec.Clone())
		}
	}
	slices.SortFunc(open, func(a, b attendance.Record) int {
		return a.Date.Compare(b.Date)
	})
	return open, nil
}

func matches(rec attendance.Record, f attendance.RecordFilter) bool {
	day := rec.Date.Format(attendance.DateLayout)
	if !f.From.IsZero() && day < f.From.Format(attendance.DateLayout) {
		return false
	}
	if !f.To.IsZero() && day > f.To.Format(attendance.DateLayout) {
		return false
	}
	if f.EmployeeID != nil && rec.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.Department != nil && !strings.EqualFold(rec.Department, *f.Department) {
		return false
	}
	if f.Status != nil && string(rec.Status) != *f.Status {
		return false
	}
	if f.EmployeeName != nil && !strings.Contains(strings.ToLower(rec.EmployeeName), strings.ToLower(*f.EmployeeName)) {
		return false
	}
	if !f.WeekendsIncluded() {
		if wd := rec.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return false
		}
	}
	if !f.HolidaysIncluded() && rec.Status == attendance.StatusHoliday {
		return false
	}
	return true
}

func sortRecords(records []attendance.Record, sortBy, order string) {
	compare := func(a, b attendance.Record) int {
		switch sortBy {
		case "employee_name":
			return strings.Compare(strings.ToLower(a.EmployeeName), strings.ToLower(b.EmployeeName))
		case "check_in":
			return compareTimes(a.CheckIn, b.CheckIn)
		case "check_out":
			return compareTimes(a.CheckOut, b.CheckOut)
		case "status":
			return strings.Compare(string(a.Status), string(b.Status))
		case "working_hours":
			return cmp.Compare(a.WorkingHours, b.WorkingHours)
		default:
			return a.Date.Compare(b.Date)
		}
	}

	slices.SortStableFunc(records, func(a, b attendance.Record) int {
		c := compare(a, b)
		if c == 0 {
			// deterministic order for equal keys
			c = cmp.Or(a.Date.Compare(b.Date), strings.Compare(a.EmployeeID, b.EmployeeID))
		}
		if order == "desc" {
			return -c
		}
		return c
	})
}

// compareTimes sorts missing times last in ascending order.
func compareTimes(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}
