package policy

import (
	"testing"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate_Default(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestConfig_Validate_CollectsAllErrors(t *testing.T) {
	cfg := Config{
		GracePeriodMinutes:     -1,
		HalfDayThresholdHours:  0,
		FullDayThresholdHours:  -1,
		OvertimeThresholdHours: -2,
		MaxBreakMinutes:        0,
	}

	err := cfg.Validate()

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "grace_period_minutes")
	assert.Contains(t, fields, "half_day_threshold_hours")
	assert.Contains(t, fields, "full_day_threshold_hours")
	assert.Contains(t, fields, "overtime_threshold_hours")
	assert.Contains(t, fields, "max_break_minutes")
}

func TestStatic_ForDepartment(t *testing.T) {
	grace := 15
	halfDay := 3.5
	p := Static{
		Global: Default(),
		Departments: map[string]Override{
			"warehouse": {GracePeriodMinutes: &grace, HalfDayThresholdHours: &halfDay},
		},
	}

	warehouse := p.ForDepartment("warehouse")
	assert.Equal(t, 15, warehouse.GracePeriodMinutes)
	assert.Equal(t, 3.5, warehouse.HalfDayThresholdHours)
	assert.Equal(t, Default().FullDayThresholdHours, warehouse.FullDayThresholdHours)

	assert.Equal(t, Default(), p.ForDepartment("finance"))
	assert.Equal(t, Default(), p.ForDepartment(""))
}
