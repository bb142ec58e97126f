package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

var wib = time.FixedZone("WIB", 7*60*60)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, wib)
}

func ptr[T any](v T) *T { return &v }

func seed(t *testing.T, s *RecordStore, records ...attendance.Record) {
	t.Helper()
	for _, r := range records {
		_, err := s.Upsert(context.Background(), r)
		require.NoError(t, err)
	}
}

func TestRecordStore_Upsert_Versioning(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore()

	created, err := s.Upsert(ctx, attendance.Record{EmployeeID: "EMP-1", Date: day(2), Status: attendance.StatusAbsent})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)
	assert.NotEmpty(t, created.ID)

	// a second insert for the same key conflicts
	_, err = s.Upsert(ctx, attendance.Record{EmployeeID: "EMP-1", Date: day(2)})
	assert.ErrorIs(t, err, attendance.ErrConflict)

	created.Status = attendance.StatusHoliday
	updated, err := s.Upsert(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, created.ID, updated.ID)

	// stale version
	_, err = s.Upsert(ctx, created)
	assert.ErrorIs(t, err, attendance.ErrConflict)
}

func TestRecordStore_Get_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore()
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, wib)
	seed(t, s, attendance.Record{EmployeeID: "EMP-1", Date: day(2), CheckIn: &in})

	got, err := s.Get(ctx, "EMP-1", day(2))
	require.NoError(t, err)
	*got.CheckIn = in.Add(time.Hour)

	again, err := s.Get(ctx, "EMP-1", day(2))
	require.NoError(t, err)
	assert.Equal(t, in, *again.CheckIn)

	_, err = s.Get(ctx, "EMP-2", day(2))
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

func TestRecordStore_Query(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore()
	seed(t, s,
		attendance.Record{EmployeeID: "EMP-1", EmployeeName: "Budi Santoso", Department: "engineering", Date: day(2), Status: attendance.StatusPresent, WorkingHours: 8},
		attendance.Record{EmployeeID: "EMP-1", EmployeeName: "Budi Santoso", Department: "engineering", Date: day(3), Status: attendance.StatusLate, WorkingHours: 7.5},
		attendance.Record{EmployeeID: "EMP-2", EmployeeName: "Siti Rahma", Department: "finance", Date: day(2), Status: attendance.StatusAbsent},
		attendance.Record{EmployeeID: "EMP-2", EmployeeName: "Siti Rahma", Department: "finance", Date: day(7), Status: attendance.StatusPresent, WorkingHours: 4}, // Saturday
		attendance.Record{EmployeeID: "EMP-2", EmployeeName: "Siti Rahma", Department: "finance", Date: day(4), Status: attendance.StatusHoliday},
	)
	base := attendance.RecordFilter{From: day(1), To: day(31), SortBy: "date", SortOrder: "asc"}

	tests := []struct {
		name    string
		modify  func(f *attendance.RecordFilter)
		wantIDs []string
		wantLen int
	}{
		{"all", func(f *attendance.RecordFilter) {}, nil, 5},
		{"name substring", func(f *attendance.RecordFilter) { f.EmployeeName = ptr("BUDI") }, []string{"EMP-1"}, 2},
		{"department", func(f *attendance.RecordFilter) { f.Department = ptr("finance") }, []string{"EMP-2"}, 3},
		{"status", func(f *attendance.RecordFilter) { f.Status = ptr("late") }, []string{"EMP-1"}, 1},
		{"no weekends", func(f *attendance.RecordFilter) { f.IncludeWeekends = ptr(false) }, nil, 4},
		{"no holidays", func(f *attendance.RecordFilter) { f.IncludeHolidays = ptr(false) }, nil, 4},
		{"date range", func(f *attendance.RecordFilter) { f.From, f.To = day(3), day(4) }, nil, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			tt.modify(&f)

			got, total, err := s.Query(ctx, f)

			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
			assert.Equal(t, int64(tt.wantLen), total)
			for _, r := range got {
				if tt.wantIDs != nil {
					assert.Contains(t, tt.wantIDs, r.EmployeeID)
				}
			}
		})
	}
}

func TestRecordStore_Query_SortAndPage(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore()
	seed(t, s,
		attendance.Record{EmployeeID: "a", Date: day(2), WorkingHours: 6},
		attendance.Record{EmployeeID: "b", Date: day(2), WorkingHours: 9},
		attendance.Record{EmployeeID: "c", Date: day(2), WorkingHours: 7},
	)

	got, total, err := s.Query(ctx, attendance.RecordFilter{
		From: day(1), To: day(3),
		SortBy: "working_hours", SortOrder: "desc",
		Page: 1, Limit: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].EmployeeID)
	assert.Equal(t, "c", got[1].EmployeeID)

	page2, _, err := s.Query(ctx, attendance.RecordFilter{
		From: day(1), To: day(3),
		SortBy: "working_hours", SortOrder: "desc",
		Page: 2, Limit: 2,
	})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "a", page2[0].EmployeeID)
}

func TestRecordStore_ListOpen(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore()
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, wib)
	out := in.Add(8 * time.Hour)
	today := time.Date(2026, 3, 3, 9, 0, 0, 0, wib)
	seed(t, s,
		attendance.Record{EmployeeID: "open", Date: day(2), CheckIn: &in},
		attendance.Record{EmployeeID: "closed", Date: day(2), CheckIn: &in, CheckOut: &out},
		attendance.Record{EmployeeID: "today", Date: day(3), CheckIn: &today},
	)

	open, err := s.ListOpen(ctx, day(3))

	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "open", open[0].EmployeeID)
}
