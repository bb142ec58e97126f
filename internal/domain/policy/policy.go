package policy

import (
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

// Config holds the attendance thresholds applied when classifying a day.
// Values are copied, never shared, so a snapshot taken at the start of a
// transition cannot change underneath it.
type Config struct {
	LateThresholdMinutes   int     `mapstructure:"late_threshold_minutes" json:"lateThresholdMinutes"`
	GracePeriodMinutes     int     `mapstructure:"grace_period_minutes" json:"gracePeriodMinutes"`
	HalfDayThresholdHours  float64 `mapstructure:"half_day_threshold_hours" json:"halfDayThresholdHours"`
	FullDayThresholdHours  float64 `mapstructure:"full_day_threshold_hours" json:"fullDayThresholdHours"`
	OvertimeThresholdHours float64 `mapstructure:"overtime_threshold_hours" json:"overtimeThresholdHours"`
	MaxBreakMinutes        int     `mapstructure:"max_break_minutes" json:"maxBreakMinutes"`
}

// Default returns the thresholds used when no policy file is present.
func Default() Config {
	return Config{
		LateThresholdMinutes:   15,
		GracePeriodMinutes:     5,
		HalfDayThresholdHours:  4,
		FullDayThresholdHours:  8,
		OvertimeThresholdHours: 12,
		MaxBreakMinutes:        60,
	}
}

func (c Config) Validate() error {
	var errs validator.ValidationErrors

	if c.GracePeriodMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "grace_period_minutes",
			Message: "grace_period_minutes must not be negative",
		})
	}
	if c.LateThresholdMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "late_threshold_minutes",
			Message: "late_threshold_minutes must not be negative",
		})
	}
	if c.HalfDayThresholdHours <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "half_day_threshold_hours",
			Message: "half_day_threshold_hours must be greater than 0",
		})
	}
	if c.FullDayThresholdHours < c.HalfDayThresholdHours {
		errs = append(errs, validator.ValidationError{
			Field:   "full_day_threshold_hours",
			Message: "full_day_threshold_hours must not be less than half_day_threshold_hours",
		})
	}
	if c.OvertimeThresholdHours < c.FullDayThresholdHours {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_threshold_hours",
			Message: "overtime_threshold_hours must not be less than full_day_threshold_hours",
		})
	}
	if c.MaxBreakMinutes <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "max_break_minutes",
			Message: "max_break_minutes must be greater than 0",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Override is a partial department-level Config. Nil fields inherit the
// global value.
type Override struct {
	LateThresholdMinutes   *int     `mapstructure:"late_threshold_minutes"`
	GracePeriodMinutes     *int     `mapstructure:"grace_period_minutes"`
	HalfDayThresholdHours  *float64 `mapstructure:"half_day_threshold_hours"`
	FullDayThresholdHours  *float64 `mapstructure:"full_day_threshold_hours"`
	OvertimeThresholdHours *float64 `mapstructure:"overtime_threshold_hours"`
	MaxBreakMinutes        *int     `mapstructure:"max_break_minutes"`
}

// Apply returns base with the override's set fields replaced.
func (o Override) Apply(base Config) Config {
	if o.LateThresholdMinutes != nil {
		base.LateThresholdMinutes = *o.LateThresholdMinutes
	}
	if o.GracePeriodMinutes != nil {
		base.GracePeriodMinutes = *o.GracePeriodMinutes
	}
	if o.HalfDayThresholdHours != nil {
		base.HalfDayThresholdHours = *o.HalfDayThresholdHours
	}
	if o.FullDayThresholdHours != nil {
		base.FullDayThresholdHours = *o.FullDayThresholdHours
	}
	if o.OvertimeThresholdHours != nil {
		base.OvertimeThresholdHours = *o.OvertimeThresholdHours
	}
	if o.MaxBreakMinutes != nil {
		base.MaxBreakMinutes = *o.MaxBreakMinutes
	}
	return base
}

// Provider resolves the policy in force for a department.
type Provider interface {
	// ForDepartment returns the global policy merged with the department's
	// override. An unknown or empty department gets the global policy.
	ForDepartment(department string) Config
}

// Static is a fixed Provider.
type Static struct {
	Global      Config
	Departments map[string]Override
}

func (s Static) ForDepartment(department string) Config {
	if o, ok := s.Departments[department]; ok {
		return o.Apply(s.Global)
	}
	return s.Global
}
