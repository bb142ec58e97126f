package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/timecalc"
)

const policyYAML = `
policy:
  grace_period_minutes: 10
  max_break_minutes: 45
departments:
  Night-Ops:
    grace_period_minutes: 30
schedule:
  start_time: "08:00"
  end_time: "16:00"
  working_days: [1, 2, 3, 4, 5, 6]
  break_minutes: 30
query:
  max_days_back: 90
holidays:
  - date: 2026-01-01
    name: New Year
  - date: "2026-03-19"
    name: Nyepi
    departments: [engineering]
`

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPolicy_Defaults(t *testing.T) {
	store, err := LoadPolicy("")

	require.NoError(t, err)
	assert.Equal(t, policy.Default(), store.ForDepartment("any"))
	assert.Equal(t, 365, store.QueryBounds().MaxDaysBack)
	assert.Equal(t, 30, store.QueryBounds().MaxDaysForward)
	assert.Equal(t, timecalc.MustClock("09:00"), store.DefaultSchedule().StartTime)
	assert.Empty(t, store.Holidays())
}

func TestLoadPolicy_File(t *testing.T) {
	// Setup
	path := writePolicy(t, policyYAML)

	// Act
	store, err := LoadPolicy(path)

	// Assert
	require.NoError(t, err)

	global := store.ForDepartment("finance")
	assert.Equal(t, 10, global.GracePeriodMinutes)
	assert.Equal(t, 45, global.MaxBreakMinutes)
	assert.Equal(t, 15, global.LateThresholdMinutes)

	assert.Equal(t, 30, store.ForDepartment("Night-Ops").GracePeriodMinutes)
	assert.Equal(t, 45, store.ForDepartment("night-ops").MaxBreakMinutes)

	sched := store.DefaultSchedule()
	assert.Equal(t, timecalc.MustClock("08:00"), sched.StartTime)
	assert.Equal(t, 30*time.Minute, sched.BreakDuration)
	assert.Len(t, sched.WorkingDays, 6)

	assert.Equal(t, 90, store.QueryBounds().MaxDaysBack)
	assert.Equal(t, 30, store.QueryBounds().MaxDaysForward)

	holidays := store.Holidays()
	require.Len(t, holidays, 2)
	assert.Equal(t, "2026-01-01", holidays[0].Date)
	assert.Equal(t, []string{"engineering"}, holidays[1].Departments)
}

func TestLoadPolicy_EnvOverride(t *testing.T) {
	t.Setenv("ATTENDANCE_POLICY_GRACE_PERIOD_MINUTES", "7")
	t.Setenv("ATTENDANCE_QUERY_MAX_DAYS_FORWARD", "0")

	store, err := LoadPolicy(writePolicy(t, policyYAML))

	require.NoError(t, err)
	assert.Equal(t, 7, store.ForDepartment("").GracePeriodMinutes)
	assert.Equal(t, 0, store.QueryBounds().MaxDaysForward)
}

func TestLoadPolicy_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"negative grace", "policy:\n  grace_period_minutes: -1\n", "grace_period_minutes"},
		{"department breaks ordering", "departments:\n  ops:\n    full_day_threshold_hours: 2\n", "departments.ops"},
		{"bad schedule", "schedule:\n  start_time: \"9am\"\n", "start_time"},
		{"bad holiday", "holidays:\n  - date: \"01/01/2026\"\n", "holiday"},
		{"negative bounds", "query:\n  max_days_back: -5\n", "max_days_back"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPolicy(writePolicy(t, tt.content))

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadPolicy_MissingFile(t *testing.T) {
	_, err := LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func TestPolicyStore_Reload(t *testing.T) {
	// Setup
	path := writePolicy(t, policyYAML)
	store, err := LoadPolicy(path)
	require.NoError(t, err)

	var notified []int
	store.OnChange(func(s PolicySnapshot) {
		notified = append(notified, s.Policy.Global.GracePeriodMinutes)
	})

	// Act
	require.NoError(t, os.WriteFile(path, []byte("policy:\n  grace_period_minutes: 20\n"), 0o644))
	require.NoError(t, store.Reload())

	// Assert
	assert.Equal(t, 20, store.ForDepartment("").GracePeriodMinutes)
	assert.Equal(t, []int{20}, notified)
}

func TestPolicyStore_Reload_InvalidKeepsPrevious(t *testing.T) {
	path := writePolicy(t, policyYAML)
	store, err := LoadPolicy(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("policy:\n  max_break_minutes: 0\n"), 0o644))
	err = store.Reload()

	assert.ErrorContains(t, err, "max_break_minutes")
	assert.Equal(t, 45, store.ForDepartment("").MaxBreakMinutes)
}

func TestPolicyStore_Watch(t *testing.T) {
	path := writePolicy(t, policyYAML)
	store, err := LoadPolicy(path)
	require.NoError(t, err)
	store.Watch()

	require.NoError(t, os.WriteFile(path, []byte("policy:\n  grace_period_minutes: 25\n"), 0o644))

	assert.Eventually(t, func() bool {
		return store.ForDepartment("").GracePeriodMinutes == 25
	}, 5*time.Second, 20*time.Millisecond)
}
