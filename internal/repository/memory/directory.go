package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
)

// Directory is a fixed employee list. With a fallback schedule, unknown ids
// resolve to an active employee on that schedule, which lets a kiosk run
// without an employee database.
type Directory struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
	fallback  *schedule.WorkSchedule
}

func NewDirectory(employees []employee.Employee, fallback *schedule.WorkSchedule) *Directory {
	d := &Directory{
		employees: make(map[string]employee.Employee, len(employees)),
		fallback:  fallback,
	}
	for _, e := range employees {
		d.employees[e.ID] = e
	}
	return d
}

// Put adds or replaces an employee.
func (d *Directory) Put(e employee.Employee) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.employees[e.ID] = e
}

func (d *Directory) GetByID(_ context.Context, id string) (employee.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if e, ok := d.employees[id]; ok {
		return e, nil
	}
	if d.fallback != nil {
		return employee.Employee{
			ID:       id,
			FullName: id,
			Schedule: *d.fallback,
			IsActive: true,
		}, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (d *Directory) ListActive(_ context.Context) ([]employee.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var active []employee.Employee
	for _, e := range d.employees {
		if e.IsActive {
			active = append(active, e)
		}
	}
	slices.SortFunc(active, func(a, b employee.Employee) int {
		return strings.Compare(a.ID, b.ID)
	})
	return active, nil
}
