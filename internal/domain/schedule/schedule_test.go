package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/timecalc"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

var wib = time.FixedZone("WIB", 7*60*60)

func TestWorkSchedule_IsWorkingDay(t *testing.T) {
	s := Default()

	assert.True(t, s.IsWorkingDay(time.Date(2026, 3, 2, 0, 0, 0, 0, wib)))  // Monday
	assert.False(t, s.IsWorkingDay(time.Date(2026, 3, 7, 0, 0, 0, 0, wib))) // Saturday
}

func TestWorkSchedule_EndOn_Overnight(t *testing.T) {
	s := WorkSchedule{StartTime: timecalc.MustClock("22:00"), EndTime: timecalc.MustClock("06:00")}
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, wib)

	assert.True(t, s.IsOvernight())
	assert.Equal(t, time.Date(2026, 3, 3, 6, 0, 0, 0, wib), s.EndOn(day))
	assert.Equal(t, time.Date(2026, 3, 2, 17, 0, 0, 0, wib), Default().EndOn(day))
}

func TestWorkSchedule_ArrivalDeadline(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, wib)

	tests := []struct {
		name   string
		sched  WorkSchedule
		want   time.Time
		wantOK bool
	}{
		{"fixed", Default(), time.Date(2026, 3, 2, 9, 0, 0, 0, wib), true},
		{"flexible without core hours", WorkSchedule{IsFlexible: true}, time.Time{}, false},
		{
			"flexible with core hours",
			WorkSchedule{IsFlexible: true, CoreHours: &CoreHours{Start: timecalc.MustClock("10:00"), End: timecalc.MustClock("15:00")}},
			time.Date(2026, 3, 2, 10, 0, 0, 0, wib),
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.sched.ArrivalDeadline(day)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScheduleSettings_ToWorkSchedule(t *testing.T) {
	settings := ScheduleSettings{
		StartTime:      "08:30",
		EndTime:        "17:30",
		WorkingDays:    []int{1, 3, 7},
		BreakMinutes:   45,
		IsFlexible:     true,
		CoreHoursStart: "10:00",
		CoreHoursEnd:   "15:00",
	}

	ws, err := settings.ToWorkSchedule()

	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Sunday}, ws.WorkingDays)
	assert.Equal(t, 45*time.Minute, ws.BreakDuration)
	require.NotNil(t, ws.CoreHours)
	assert.Equal(t, settings, ws.Settings())
}

func TestScheduleSettings_Validate(t *testing.T) {
	settings := ScheduleSettings{
		StartTime:      "8am",
		EndTime:        "17:00",
		WorkingDays:    []int{0},
		BreakMinutes:   -1,
		CoreHoursStart: "10:00",
	}

	err := settings.Validate()

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "start_time")
	assert.Contains(t, fields, "working_days")
	assert.Contains(t, fields, "break_minutes")
	assert.Contains(t, fields, "core_hours")
}

func TestDefaultSettings_MatchesDefault(t *testing.T) {
	ws, err := DefaultSettings().ToWorkSchedule()

	require.NoError(t, err)
	assert.Equal(t, Default(), ws)
}

func TestHoliday_AppliesTo(t *testing.T) {
	assert.True(t, Holiday{Date: "2026-01-01"}.AppliesTo("finance"))
	assert.True(t, Holiday{Departments: []string{"finance"}}.AppliesTo("finance"))
	assert.False(t, Holiday{Departments: []string{"finance"}}.AppliesTo("engineering"))
}
