package config

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
)

// policySettings is the layout of the policy file.
//
//	policy:        global thresholds
//	departments:   per-department overrides of policy
//	schedule:      default work schedule
//	query:         max_days_back / max_days_forward
//	holidays:      [{date, name, departments}]
type policySettings struct {
	Policy      policy.Config              `mapstructure:"policy"`
	Departments map[string]policy.Override `mapstructure:"departments"`
	Schedule    schedule.ScheduleSettings  `mapstructure:"schedule"`
	Query       struct {
		MaxDaysBack    int `mapstructure:"max_days_back"`
		MaxDaysForward int `mapstructure:"max_days_forward"`
	} `mapstructure:"query"`
	Holidays []schedule.Holiday `mapstructure:"holidays"`
}

// PolicySnapshot is one consistent, validated view of the policy file.
type PolicySnapshot struct {
	Policy   policy.Static
	Schedule schedule.WorkSchedule
	Bounds   attendance.QueryBounds
	Holidays []schedule.Holiday
}

// PolicyStore serves the current policy snapshot and swaps it atomically when
// the file changes. A reload that fails validation keeps the previous
// snapshot.
type PolicyStore struct {
	mu        sync.Mutex // guards v and listeners
	v         *viper.Viper
	current   atomic.Pointer[PolicySnapshot]
	listeners []func(PolicySnapshot)
}

// LoadPolicy reads the policy file at path. An empty path yields the built-in
// defaults, still overridable through ATTENDANCE_* environment variables.
func LoadPolicy(path string) (*PolicyStore, error) {
	v := viper.New()
	setPolicyDefaults(v)

	v.SetEnvPrefix("ATTENDANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read policy file: %w", err)
		}
	}

	s := &PolicyStore{v: v}
	snap, err := s.decode()
	if err != nil {
		return nil, fmt.Errorf("invalid policy file: %w", err)
	}
	s.current.Store(snap)
	return s, nil
}

func setPolicyDefaults(v *viper.Viper) {
	def := policy.Default()
	v.SetDefault("policy.late_threshold_minutes", def.LateThresholdMinutes)
	v.SetDefault("policy.grace_period_minutes", def.GracePeriodMinutes)
	v.SetDefault("policy.half_day_threshold_hours", def.HalfDayThresholdHours)
	v.SetDefault("policy.full_day_threshold_hours", def.FullDayThresholdHours)
	v.SetDefault("policy.overtime_threshold_hours", def.OvertimeThresholdHours)
	v.SetDefault("policy.max_break_minutes", def.MaxBreakMinutes)

	sched := schedule.DefaultSettings()
	v.SetDefault("schedule.start_time", sched.StartTime)
	v.SetDefault("schedule.end_time", sched.EndTime)
	v.SetDefault("schedule.working_days", sched.WorkingDays)
	v.SetDefault("schedule.break_minutes", sched.BreakMinutes)
	v.SetDefault("schedule.is_flexible", sched.IsFlexible)
	v.SetDefault("schedule.core_hours_start", "")
	v.SetDefault("schedule.core_hours_end", "")

	v.SetDefault("query.max_days_back", 365)
	v.SetDefault("query.max_days_forward", 30)
}

// decode turns the viper state into a validated snapshot. Callers hold mu or
// own s exclusively.
func (s *PolicyStore) decode() (*PolicySnapshot, error) {
	var raw policySettings
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		dateToStringHook,
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := s.v.Unmarshal(&raw, hook); err != nil {
		return nil, fmt.Errorf("failed to decode policy: %w", err)
	}

	var errs []error
	if err := raw.Policy.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("policy: %w", err))
	}
	for dept, o := range raw.Departments {
		if err := o.Apply(raw.Policy).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("departments.%s: %w", dept, err))
		}
	}
	sched, err := raw.Schedule.ToWorkSchedule()
	if err != nil {
		errs = append(errs, fmt.Errorf("schedule: %w", err))
	}
	if raw.Query.MaxDaysBack < 0 || raw.Query.MaxDaysForward < 0 {
		errs = append(errs, errors.New("query: max_days_back and max_days_forward must not be negative"))
	}
	for _, h := range raw.Holidays {
		if _, err := time.Parse(attendance.DateLayout, h.Date); err != nil {
			errs = append(errs, fmt.Errorf("holidays: %w: %q", schedule.ErrInvalidHolidayDate, h.Date))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &PolicySnapshot{
		Policy:   policy.Static{Global: raw.Policy, Departments: raw.Departments},
		Schedule: sched,
		Bounds: attendance.QueryBounds{
			MaxDaysBack:    raw.Query.MaxDaysBack,
			MaxDaysForward: raw.Query.MaxDaysForward,
		},
		Holidays: raw.Holidays,
	}, nil
}

// dateToStringHook keeps unquoted YAML dates usable as YYYY-MM-DD strings.
func dateToStringHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if t, ok := data.(time.Time); ok && to.Kind() == reflect.String {
		return t.Format(attendance.DateLayout), nil
	}
	return data, nil
}

func (s *PolicyStore) Snapshot() PolicySnapshot {
	return *s.current.Load()
}

// ForDepartment implements policy.Provider. Department keys in the file are
// case-insensitive.
func (s *PolicyStore) ForDepartment(department string) policy.Config {
	return s.current.Load().Policy.ForDepartment(strings.ToLower(department))
}

// QueryBounds implements attendance.BoundsProvider.
func (s *PolicyStore) QueryBounds() attendance.QueryBounds {
	return s.current.Load().Bounds
}

func (s *PolicyStore) DefaultSchedule() schedule.WorkSchedule {
	return s.current.Load().Schedule
}

func (s *PolicyStore) Holidays() []schedule.Holiday {
	return s.current.Load().Holidays
}

// OnChange registers fn to run after every successful reload.
func (s *PolicyStore) OnChange(fn func(PolicySnapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Reload re-reads the policy file.
func (s *PolicyStore) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.v.ConfigFileUsed() != "" {
		if err := s.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read policy file: %w", err)
		}
	}
	return s.swap()
}

func (s *PolicyStore) swap() error {
	snap, err := s.decode()
	if err != nil {
		return err
	}
	s.current.Store(snap)
	for _, fn := range s.listeners {
		fn(*snap)
	}
	return nil
}

// Watch reloads the snapshot whenever the policy file changes on disk.
func (s *PolicyStore) Watch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.v.ConfigFileUsed() == "" {
		return
	}
	s.v.OnConfigChange(func(e fsnotify.Event) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if err := s.swap(); err != nil {
			slog.Error("Policy reload rejected, keeping previous policy", "file", e.Name, "error", err)
			return
		}
		slog.Info("Policy reloaded", "file", e.Name, "op", e.Op.String())
	})
	s.v.WatchConfig()
}

var (
	_ policy.Provider           = (*PolicyStore)(nil)
	_ attendance.BoundsProvider = (*PolicyStore)(nil)
)
