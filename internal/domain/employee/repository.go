package employee

import "context"

// Directory is the read-only employee and work-schedule lookup.
type Directory interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
}
