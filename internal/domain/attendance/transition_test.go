package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, wib)
}

func TestRecord_State(t *testing.T) {
	in, out, bs, be := at(9, 0), at(17, 0), at(12, 0), at(12, 30)

	tests := []struct {
		name   string
		record Record
		want   State
	}{
		{"empty", Record{}, StateCheckedOut},
		{"checked in", Record{CheckIn: &in}, StateCheckedIn},
		{"on break", Record{CheckIn: &in, BreakStart: &bs}, StateOnBreak},
		{"back from break", Record{CheckIn: &in, BreakStart: &bs, BreakEnd: &be}, StateCheckedIn},
		{"checked out", Record{CheckIn: &in, CheckOut: &out}, StateCheckedOut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.State())
		})
	}
}

func TestRecord_ApplyCheckIn_Twice(t *testing.T) {
	// Setup
	rec := Record{}
	require.NoError(t, rec.ApplyCheckIn(at(9, 0)))
	before := rec.Clone()

	// Act
	err := rec.ApplyCheckIn(at(9, 5))

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.Equal(t, before, rec)

	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, StateCheckedIn, te.State)
	assert.Equal(t, ActionCheckIn, te.Action)
}

func TestRecord_ApplyCheckIn_ClosedDay(t *testing.T) {
	in, out := at(9, 0), at(17, 0)
	rec := Record{CheckIn: &in, CheckOut: &out}

	err := rec.ApplyCheckIn(at(18, 0))

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
	assert.Equal(t, in, *rec.CheckIn)
}

func TestRecord_ApplyStartBreak_WithoutCheckIn(t *testing.T) {
	rec := Record{}

	err := rec.ApplyStartBreak(at(12, 0))

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, err, ErrNotCheckedIn)
	assert.Nil(t, rec.BreakStart)
}

func TestRecord_BreakCycle(t *testing.T) {
	rec := Record{}
	require.NoError(t, rec.ApplyCheckIn(at(9, 0)))
	require.NoError(t, rec.ApplyStartBreak(at(12, 0)))

	assert.ErrorIs(t, rec.ApplyStartBreak(at(12, 10)), ErrBreakStillOpen)

	require.NoError(t, rec.ApplyEndBreak(at(12, 45)))
	assert.ErrorIs(t, rec.ApplyEndBreak(at(12, 50)), ErrNoOpenBreak)
	assert.ErrorIs(t, rec.ApplyStartBreak(at(15, 0)), ErrBreakAlreadyTaken)
}

func TestRecord_ApplyCheckOut_ClosesOpenBreak(t *testing.T) {
	rec := Record{}
	require.NoError(t, rec.ApplyCheckIn(at(9, 0)))
	require.NoError(t, rec.ApplyStartBreak(at(16, 30)))

	closed, err := rec.ApplyCheckOut(at(17, 0))

	require.NoError(t, err)
	assert.True(t, closed)
	require.NotNil(t, rec.BreakEnd)
	assert.Equal(t, at(17, 0), *rec.BreakEnd)
	assert.Equal(t, StateCheckedOut, rec.State())
}

func TestRecord_ApplyCheckOut_BeforeCheckIn(t *testing.T) {
	rec := Record{}
	require.NoError(t, rec.ApplyCheckIn(at(9, 0)))

	_, err := rec.ApplyCheckOut(at(8, 0))

	assert.ErrorIs(t, err, ErrInvalidTimeOrder)
	assert.Nil(t, rec.CheckOut)
}

func TestRecord_Recalculate(t *testing.T) {
	in, out, bs, be := at(9, 0), at(19, 0), at(12, 0), at(13, 0)
	rec := Record{CheckIn: &in, CheckOut: &out, BreakStart: &bs, BreakEnd: &be}

	rec.Recalculate(8)

	assert.Equal(t, 10.0, rec.TotalHours)
	assert.Equal(t, 1.0, rec.BreakHours)
	assert.Equal(t, 9.0, rec.WorkingHours)
	assert.Equal(t, 1.0, rec.OvertimeHours)
}

func TestRecord_Recalculate_OpenDay(t *testing.T) {
	in := at(9, 0)
	rec := Record{CheckIn: &in}

	rec.Recalculate(8)

	assert.Zero(t, rec.TotalHours)
	assert.Zero(t, rec.WorkingHours)
	assert.Zero(t, rec.OvertimeHours)
}

func TestRecord_Clone_DoesNotShare(t *testing.T) {
	in := at(9, 0)
	notes := "kiosk"
	rec := Record{CheckIn: &in, Notes: &notes}

	c := rec.Clone()
	*c.CheckIn = at(10, 0)
	*c.Notes = "edited"

	assert.Equal(t, at(9, 0), *rec.CheckIn)
	assert.Equal(t, "kiosk", *rec.Notes)
}

func TestRecord_ValidateTimes(t *testing.T) {
	in, out, bs, be := at(9, 0), at(17, 0), at(12, 0), at(13, 0)
	early := at(8, 0)

	assert.NoError(t, Record{CheckIn: &in, CheckOut: &out, BreakStart: &bs, BreakEnd: &be}.ValidateTimes())
	assert.ErrorIs(t, Record{CheckOut: &out}.ValidateTimes(), ErrInvalidTimeOrder)
	assert.ErrorIs(t, Record{CheckIn: &in, CheckOut: &early}.ValidateTimes(), ErrInvalidTimeOrder)
	assert.ErrorIs(t, Record{CheckIn: &in, BreakStart: &be, BreakEnd: &bs}.ValidateTimes(), ErrInvalidTimeOrder)
	assert.ErrorIs(t, Record{CheckIn: &in, BreakEnd: &be}.ValidateTimes(), ErrInvalidTimeOrder)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("sick_leave")
	require.NoError(t, err)
	assert.Equal(t, StatusSickLeave, st)
	assert.True(t, st.IsExplicit())

	_, err = ParseStatus("on_leave")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
