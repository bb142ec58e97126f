package employee

import "github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"

// Employee is the directory view of an employee needed to track attendance.
type Employee struct {
	ID         string
	FullName   string
	Department string
	Schedule   schedule.WorkSchedule
	IsActive   bool
}
