package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
)

const recordColumns = `
	r.id, r.employee_id, r.employee_name, r.department, r.date,
	r.check_in, r.check_out, r.break_start, r.break_end,
	r.total_hours, r.working_hours, r.break_hours, r.overtime_hours,
	r.status, r.notes, r.is_manual_entry, r.approved_by, r.approved_at,
	r.version, r.created_at, r.updated_at`

// RecordRepository implements attendance.RecordStore. Calendar dates are
// stored as DATE and returned as midnight in loc.
type RecordRepository struct {
	db  *database.DB
	loc *time.Location
}

func NewRecordRepository(db *database.DB, loc *time.Location) *RecordRepository {
	return &RecordRepository{db: db, loc: loc}
}

// Get implements attendance.RecordStore.
func (r *RecordRepository) Get(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recordColumns + `
		FROM attendance_records r
		WHERE r.employee_id = $1 AND r.date = $2
	`

	rec, err := r.scan(q.QueryRow(ctx, query, employeeID, date.Format(attendance.DateLayout)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return rec, nil
}

// Upsert implements attendance.RecordStore. A zero Version inserts; any other
// version updates only if it still matches the stored row.
func (r *RecordRepository) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	var (
		query string
		args  []interface{}
	)
	if rec.Version == 0 {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		query = `
			INSERT INTO attendance_records (
				id, employee_id, employee_name, department, date,
				check_in, check_out, break_start, break_end,
				total_hours, working_hours, break_hours, overtime_hours,
				status, notes, is_manual_entry, approved_by, approved_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
			)
			ON CONFLICT (employee_id, date) DO NOTHING
			RETURNING id, version, created_at, updated_at
		`
		args = []interface{}{
			rec.ID, rec.EmployeeID, rec.EmployeeName, rec.Department, rec.Date.Format(attendance.DateLayout),
			rec.CheckIn, rec.CheckOut, rec.BreakStart, rec.BreakEnd,
			rec.TotalHours, rec.WorkingHours, rec.BreakHours, rec.OvertimeHours,
			string(rec.Status), rec.Notes, rec.IsManualEntry, rec.ApprovedBy, rec.ApprovedAt,
		}
	} else {
		query = `
			UPDATE attendance_records SET
				employee_name = $3, department = $4,
				check_in = $5, check_out = $6, break_start = $7, break_end = $8,
				total_hours = $9, working_hours = $10, break_hours = $11, overtime_hours = $12,
				status = $13, notes = $14, is_manual_entry = $15, approved_by = $16, approved_at = $17,
				version = version + 1, updated_at = NOW()
			WHERE employee_id = $1 AND date = $2 AND version = $18
			RETURNING id, version, created_at, updated_at
		`
		args = []interface{}{
			rec.EmployeeID, rec.Date.Format(attendance.DateLayout), rec.EmployeeName, rec.Department,
			rec.CheckIn, rec.CheckOut, rec.BreakStart, rec.BreakEnd,
			rec.TotalHours, rec.WorkingHours, rec.BreakHours, rec.OvertimeHours,
			string(rec.Status), rec.Notes, rec.IsManualEntry, rec.ApprovedBy, rec.ApprovedAt,
			rec.Version,
		}
	}

	stored := rec.Clone()
	err := q.QueryRow(ctx, query, args...).Scan(&stored.ID, &stored.Version, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrConflict
		}
		return attendance.Record{}, fmt.Errorf("failed to save attendance record: %w", err)
	}
	stored.CreatedAt = stored.CreatedAt.In(r.loc)
	stored.UpdatedAt = stored.UpdatedAt.In(r.loc)
	return stored, nil
}

// Query implements attendance.RecordStore.
func (r *RecordRepository) Query(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	baseWhere := "TRUE"
	var args []interface{}
	argIdx := 1

	if !filter.From.IsZero() {
		baseWhere += fmt.Sprintf(" AND r.date >= $%d", argIdx)
		args = append(args, filter.From.Format(attendance.DateLayout))
		argIdx++
	}
	if !filter.To.IsZero() {
		baseWhere += fmt.Sprintf(" AND r.date <= $%d", argIdx)
		args = append(args, filter.To.Format(attendance.DateLayout))
		argIdx++
	}
	if filter.EmployeeID != nil {
		baseWhere += fmt.Sprintf(" AND r.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.EmployeeName != nil && *filter.EmployeeName != "" {
		baseWhere += fmt.Sprintf(" AND r.employee_name ILIKE $%d", argIdx)
		args = append(args, "%"+escapeLike(*filter.EmployeeName)+"%")
		argIdx++
	}
	if filter.Department != nil {
		baseWhere += fmt.Sprintf(" AND LOWER(r.department) = LOWER($%d)", argIdx)
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.Status != nil {
		baseWhere += fmt.Sprintf(" AND r.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if !filter.WeekendsIncluded() {
		baseWhere += " AND EXTRACT(ISODOW FROM r.date) < 6"
	}
	if !filter.HolidaysIncluded() {
		baseWhere += fmt.Sprintf(" AND r.status <> '%s'", attendance.StatusHoliday)
	}

	countQuery := "SELECT COUNT(*) FROM attendance_records r WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	// Build ORDER BY
	orderByField := "r.date"
	switch filter.SortBy {
	case "employee_name":
		orderByField = "LOWER(r.employee_name)"
	case "check_in":
		orderByField = "r.check_in"
	case "check_out":
		orderByField = "r.check_out"
	case "status":
		orderByField = "r.status"
	case "working_hours":
		orderByField = "r.working_hours"
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == "desc" {
		sortOrder = "DESC"
	}

	selectQuery := fmt.Sprintf(`SELECT %s
		FROM attendance_records r
		WHERE %s
		ORDER BY %s %s, r.date %s, r.employee_id %s`,
		recordColumns, baseWhere, orderByField, sortOrder, sortOrder, sortOrder)

	if filter.Limit > 0 {
		selectQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, filter.Offset())
	}

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read attendance records: %w", err)
	}

	return records, total, nil
}

// ListOpen implements attendance.RecordStore.
func (r *RecordRepository) ListOpen(ctx context.Context, before time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recordColumns + `
		FROM attendance_records r
		WHERE r.check_in IS NOT NULL
		  AND r.check_out IS NULL
		  AND r.date < $1
		ORDER BY r.date, r.employee_id
	`

	rows, err := q.Query(ctx, query, before.Format(attendance.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}
	defer rows.Close()

	var open []attendance.Record
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan open session: %w", err)
		}
		open = append(open, rec)
	}
	return open, rows.Err()
}

func (r *RecordRepository) scan(row pgx.Row) (attendance.Record, error) {
	var (
		rec    attendance.Record
		status string
	)
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Department, &rec.Date,
		&rec.CheckIn, &rec.CheckOut, &rec.BreakStart, &rec.BreakEnd,
		&rec.TotalHours, &rec.WorkingHours, &rec.BreakHours, &rec.OvertimeHours,
		&status, &rec.Notes, &rec.IsManualEntry, &rec.ApprovedBy, &rec.ApprovedAt,
		&rec.Version, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}

	rec.Status = attendance.Status(status)
	rec.Date = time.Date(rec.Date.Year(), rec.Date.Month(), rec.Date.Day(), 0, 0, 0, 0, r.loc)
	for _, t := range []*time.Time{rec.CheckIn, rec.CheckOut, rec.BreakStart, rec.BreakEnd, rec.ApprovedAt} {
		if t != nil {
			*t = t.In(r.loc)
		}
	}
	rec.CreatedAt = rec.CreatedAt.In(r.loc)
	rec.UpdatedAt = rec.UpdatedAt.In(r.loc)
	return rec, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var _ attendance.RecordStore = (*RecordRepository)(nil)
