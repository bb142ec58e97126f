package schedule

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/timecalc"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

// ScheduleSettings is the textual form of a WorkSchedule used in config files
// and directory rows.
type ScheduleSettings struct {
	StartTime      string `mapstructure:"start_time" json:"start_time"`     // HH:MM
	EndTime        string `mapstructure:"end_time" json:"end_time"`         // HH:MM
	WorkingDays    []int  `mapstructure:"working_days" json:"working_days"` // 1=Monday, ..., 7=Sunday
	BreakMinutes   int    `mapstructure:"break_minutes" json:"break_minutes"`
	IsFlexible     bool   `mapstructure:"is_flexible" json:"is_flexible"`
	CoreHoursStart string `mapstructure:"core_hours_start" json:"core_hours_start"` // HH:MM, optional
	CoreHoursEnd   string `mapstructure:"core_hours_end" json:"core_hours_end"`     // HH:MM, optional
}

func (s *ScheduleSettings) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidClock(s.StartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be in HH:MM format",
		})
	}
	if !validator.IsValidClock(s.EndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be in HH:MM format",
		})
	}

	if len(s.WorkingDays) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "working_days",
			Message: "working_days must contain at least one day",
		})
	}
	for _, d := range s.WorkingDays {
		if d < 1 || d > 7 {
			errs = append(errs, validator.ValidationError{
				Field:   "working_days",
				Message: "working_days must be between 1 (Monday) and 7 (Sunday)",
			})
			break
		}
	}

	if s.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "break_minutes",
			Message: "break_minutes must not be negative",
		})
	}

	hasCoreStart, hasCoreEnd := s.CoreHoursStart != "", s.CoreHoursEnd != ""
	if hasCoreStart != hasCoreEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "core_hours",
			Message: "core_hours_start and core_hours_end must be set together",
		})
	} else if hasCoreStart {
		if !validator.IsValidClock(s.CoreHoursStart) || !validator.IsValidClock(s.CoreHoursEnd) {
			errs = append(errs, validator.ValidationError{
				Field:   "core_hours",
				Message: "core hours must be in HH:MM format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToWorkSchedule validates and converts the settings.
func (s ScheduleSettings) ToWorkSchedule() (WorkSchedule, error) {
	if err := s.Validate(); err != nil {
		return WorkSchedule{}, err
	}

	start, err := timecalc.ParseClock(s.StartTime)
	if err != nil {
		return WorkSchedule{}, fmt.Errorf("start_time: %w", err)
	}
	end, err := timecalc.ParseClock(s.EndTime)
	if err != nil {
		return WorkSchedule{}, fmt.Errorf("end_time: %w", err)
	}

	ws := WorkSchedule{
		StartTime:     start,
		EndTime:       end,
		BreakDuration: time.Duration(s.BreakMinutes) * time.Minute,
		IsFlexible:    s.IsFlexible,
	}
	for _, d := range s.WorkingDays {
		// ISO weekday 7 is Sunday, which time.Weekday numbers 0
		ws.WorkingDays = append(ws.WorkingDays, time.Weekday(d%7))
	}

	if s.CoreHoursStart != "" {
		coreStart, _ := timecalc.ParseClock(s.CoreHoursStart)
		coreEnd, _ := timecalc.ParseClock(s.CoreHoursEnd)
		ws.CoreHours = &CoreHours{Start: coreStart, End: coreEnd}
	}

	return ws, nil
}

// DefaultSettings mirrors Default().
func DefaultSettings() ScheduleSettings {
	return ScheduleSettings{
		StartTime:    "09:00",
		EndTime:      "17:00",
		WorkingDays:  []int{1, 2, 3, 4, 5},
		BreakMinutes: 60,
	}
}

// Settings is the inverse of ToWorkSchedule.
func (s WorkSchedule) Settings() ScheduleSettings {
	out := ScheduleSettings{
		StartTime:    s.StartTime.String(),
		EndTime:      s.EndTime.String(),
		BreakMinutes: int(s.BreakDuration / time.Minute),
		IsFlexible:   s.IsFlexible,
	}
	for _, d := range s.WorkingDays {
		iso := int(d)
		if d == time.Sunday {
			iso = 7
		}
		out.WorkingDays = append(out.WorkingDays, iso)
	}
	if s.CoreHours != nil {
		out.CoreHoursStart = s.CoreHours.Start.String()
		out.CoreHoursEnd = s.CoreHours.End.String()
	}
	return out
}
