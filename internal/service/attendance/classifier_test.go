package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/timecalc"
)

var wib = time.FixedZone("WIB", 7*60*60)

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, wib)

func clockOn(date time.Time, hhmm string) *time.Time {
	t := timecalc.MustClock(hhmm).On(date)
	return &t
}

func recordOf(checkIn, checkOut string) attendance.Record {
	rec := attendance.Record{EmployeeID: "EMP-1", Date: monday}
	if checkIn != "" {
		rec.CheckIn = clockOn(monday, checkIn)
	}
	if checkOut != "" {
		rec.CheckOut = clockOn(monday, checkOut)
	}
	return rec
}

func TestClassify(t *testing.T) {
	sched := schedule.Default()
	pol := policy.Default()

	tests := []struct {
		name   string
		record attendance.Record
		want   attendance.Status
	}{
		{"no check-in", recordOf("", ""), attendance.StatusAbsent},
		{"on time full day", recordOf("08:55", "17:00"), attendance.StatusPresent},
		{"within grace", recordOf("09:05", "17:30"), attendance.StatusPresent},
		{"late full day", recordOf("09:20", "17:30"), attendance.StatusLate},
		{"late open day", recordOf("09:20", ""), attendance.StatusPartial},
		{"on time open day", recordOf("08:50", ""), attendance.StatusPartial},
		{"on time short day", recordOf("08:50", "12:00"), attendance.StatusPartial},
		{"late short day", recordOf("10:00", "13:00"), attendance.StatusPartial},
		{"exactly half day", recordOf("09:00", "13:00"), attendance.StatusPresent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.record, sched, pol))
		})
	}
}

func TestClassify_BreakCountsAgainstHalfDay(t *testing.T) {
	rec := recordOf("09:00", "13:30")
	rec.BreakStart = clockOn(monday, "11:00")
	rec.BreakEnd = clockOn(monday, "12:00")

	assert.Equal(t, attendance.StatusPartial, Classify(rec, schedule.Default(), policy.Default()))
}

func TestClassify_ExplicitStatusKept(t *testing.T) {
	for _, st := range []attendance.Status{attendance.StatusHoliday, attendance.StatusSickLeave} {
		rec := recordOf("09:30", "17:00")
		rec.Status = st
		assert.Equal(t, st, Classify(rec, schedule.Default(), policy.Default()))
	}
}

func TestClassify_Idempotent(t *testing.T) {
	rec := recordOf("09:20", "17:30")
	sched, pol := schedule.Default(), policy.Default()

	first := Classify(rec, sched, pol)
	for range 10 {
		assert.Equal(t, first, Classify(rec, sched, pol))
	}
}

func TestClassify_Flexible(t *testing.T) {
	flexible := schedule.Default()
	flexible.IsFlexible = true

	assert.Equal(t, attendance.StatusPresent, Classify(recordOf("11:00", "19:00"), flexible, policy.Default()))

	flexible.CoreHours = &schedule.CoreHours{Start: timecalc.MustClock("10:00"), End: timecalc.MustClock("15:00")}
	assert.Equal(t, attendance.StatusPresent, Classify(recordOf("10:00", "18:00"), flexible, policy.Default()))
	assert.Equal(t, attendance.StatusLate, Classify(recordOf("10:30", "18:30"), flexible, policy.Default()))
}

func TestViolations(t *testing.T) {
	sched, pol := schedule.Default(), policy.Default()

	late := lateViolation(recordOf("09:20", ""), sched, pol)
	if assert.NotNil(t, late) {
		assert.Equal(t, attendance.ViolationLateArrival, late.Kind)
		assert.Equal(t, 20.0, late.Actual)
	}
	// late per grace period but within the late threshold
	assert.Nil(t, lateViolation(recordOf("09:10", ""), sched, pol))

	rec := recordOf("09:00", "17:00")
	rec.BreakStart = clockOn(monday, "12:00")
	rec.BreakEnd = clockOn(monday, "13:30")
	brk := breakViolation(rec, pol)
	if assert.NotNil(t, brk) {
		assert.Equal(t, attendance.ViolationBreakExceeded, brk.Kind)
		assert.Equal(t, 90.0, brk.Actual)
	}

	long := recordOf("06:00", "19:30")
	long.Recalculate(pol.FullDayThresholdHours)
	over := overtimeViolation(long, pol)
	if assert.NotNil(t, over) {
		assert.Equal(t, attendance.ViolationOvertimeExceeded, over.Kind)
	}
}
