package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
)

const employeeColumns = `
	e.id, e.full_name, e.department, e.is_active,
	to_char(ws.start_time, 'HH24:MI'), to_char(ws.end_time, 'HH24:MI'),
	ws.working_days, ws.break_minutes, ws.is_flexible,
	to_char(ws.core_hours_start, 'HH24:MI'), to_char(ws.core_hours_end, 'HH24:MI')`

// EmployeeRepository implements employee.Directory on the employees and
// work_schedules tables. Employees without a schedule get defaultSchedule.
type EmployeeRepository struct {
	db              *database.DB
	defaultSchedule func() schedule.WorkSchedule
}

func NewEmployeeRepository(db *database.DB, defaultSchedule func() schedule.WorkSchedule) *EmployeeRepository {
	if defaultSchedule == nil {
		defaultSchedule = schedule.Default
	}
	return &EmployeeRepository{db: db, defaultSchedule: defaultSchedule}
}

// GetByID implements employee.Directory.
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN work_schedules ws ON ws.id = e.schedule_id
		WHERE e.id = $1
	`

	emp, err := r.scan(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", id, err)
	}
	return emp, nil
}

// ListActive implements employee.Directory.
func (r *EmployeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN work_schedules ws ON ws.id = e.schedule_id
		WHERE e.is_active
		ORDER BY e.id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// Save upserts the employee and, when scheduleName is not empty, the named
// work schedule it follows.
func (r *EmployeeRepository) Save(ctx context.Context, emp employee.Employee, scheduleName string) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var scheduleID *string
		if scheduleName != "" {
			settings := emp.Schedule.Settings()
			days := make([]int32, len(settings.WorkingDays))
			for i, d := range settings.WorkingDays {
				days[i] = int32(d)
			}

			var id string
			err := q.QueryRow(ctx, `
				INSERT INTO work_schedules (
					id, name, start_time, end_time, working_days, break_minutes,
					is_flexible, core_hours_start, core_hours_end
				) VALUES ($1, $2, $3::time, $4::time, $5, $6, $7, $8::time, $9::time)
				ON CONFLICT (name) DO UPDATE SET
					start_time = EXCLUDED.start_time,
					end_time = EXCLUDED.end_time,
					working_days = EXCLUDED.working_days,
					break_minutes = EXCLUDED.break_minutes,
					is_flexible = EXCLUDED.is_flexible,
					core_hours_start = EXCLUDED.core_hours_start,
					core_hours_end = EXCLUDED.core_hours_end,
					updated_at = NOW()
				RETURNING id
			`,
				uuid.NewString(), scheduleName, settings.StartTime, settings.EndTime, days,
				settings.BreakMinutes, settings.IsFlexible,
				nullIfEmpty(settings.CoreHoursStart), nullIfEmpty(settings.CoreHoursEnd),
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("failed to save work schedule %s: %w", scheduleName, err)
			}
			scheduleID = &id
		}

		_, err := q.Exec(ctx, `
			INSERT INTO employees (id, full_name, department, schedule_id, is_active)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				full_name = EXCLUDED.full_name,
				department = EXCLUDED.department,
				schedule_id = EXCLUDED.schedule_id,
				is_active = EXCLUDED.is_active,
				updated_at = NOW()
		`, emp.ID, emp.FullName, emp.Department, scheduleID, emp.IsActive)
		if err != nil {
			return fmt.Errorf("failed to save employee %s: %w", emp.ID, err)
		}
		return nil
	})
}

func (r *EmployeeRepository) scan(row pgx.Row) (employee.Employee, error) {
	var (
		emp                employee.Employee
		start, end         *string
		workingDays        []int32
		breakMinutes       *int32
		isFlexible         *bool
		coreStart, coreEnd *string
	)
	err := row.Scan(
		&emp.ID, &emp.FullName, &emp.Department, &emp.IsActive,
		&start, &end, &workingDays, &breakMinutes, &isFlexible, &coreStart, &coreEnd,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	if start == nil || end == nil {
		emp.Schedule = r.defaultSchedule()
		return emp, nil
	}

	settings := schedule.ScheduleSettings{
		StartTime: *start,
		EndTime:   *end,
	}
	for _, d := range workingDays {
		settings.WorkingDays = append(settings.WorkingDays, int(d))
	}
	if breakMinutes != nil {
		settings.BreakMinutes = int(*breakMinutes)
	}
	if isFlexible != nil {
		settings.IsFlexible = *isFlexible
	}
	if coreStart != nil && coreEnd != nil {
		settings.CoreHoursStart, settings.CoreHoursEnd = *coreStart, *coreEnd
	}

	ws, err := settings.ToWorkSchedule()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("invalid work schedule for employee %s: %w", emp.ID, err)
	}
	emp.Schedule = ws
	return emp, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
