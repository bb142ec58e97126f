package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
)

// HolidayRepository implements schedule.HolidayCalendar. A row with a NULL
// department is a company-wide holiday.
type HolidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// IsHoliday implements schedule.HolidayCalendar.
func (r *HolidayRepository) IsHoliday(ctx context.Context, date time.Time, department string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM holidays
			WHERE date = $1 AND (department IS NULL OR department = $2)
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, date.Format("2006-01-02"), department).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}
	return exists, nil
}

// Replace swaps the stored calendar for holidays in one transaction.
func (r *HolidayRepository) Replace(ctx context.Context, holidays []schedule.Holiday) error {
	for _, h := range holidays {
		if _, err := time.Parse("2006-01-02", h.Date); err != nil {
			return fmt.Errorf("%w: %q", schedule.ErrInvalidHolidayDate, h.Date)
		}
	}

	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		if _, err := q.Exec(ctx, `DELETE FROM holidays`); err != nil {
			return fmt.Errorf("failed to clear holidays: %w", err)
		}

		insert := `
			INSERT INTO holidays (date, name, department)
			VALUES ($1, $2, $3)
			ON CONFLICT (date, COALESCE(department, '')) DO UPDATE SET name = EXCLUDED.name
		`
		for _, h := range holidays {
			if len(h.Departments) == 0 {
				if _, err := q.Exec(ctx, insert, h.Date, h.Name, nil); err != nil {
					return fmt.Errorf("failed to insert holiday %s: %w", h.Date, err)
				}
				continue
			}
			for _, dept := range h.Departments {
				if _, err := q.Exec(ctx, insert, h.Date, h.Name, dept); err != nil {
					return fmt.Errorf("failed to insert holiday %s: %w", h.Date, err)
				}
			}
		}
		return nil
	})
}
