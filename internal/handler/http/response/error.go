package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var transitionErr *attendance.TransitionError
	if errors.As(err, &transitionErr) {
		InvalidTransition(w, transitionErr.Reason.Error(), map[string]string{
			"state":  string(transitionErr.State),
			"action": string(transitionErr.Action),
		})
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrBusy):
		Conflict(w, "Attendance record is busy, retry later")
	case errors.Is(err, attendance.ErrConflict):
		Conflict(w, "Attendance record was modified concurrently, retry")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyApproved):
		Conflict(w, "Attendance record has already been approved")
	case errors.Is(err, attendance.ErrInvalidTimeOrder):
		ValidationError(w, map[string]string{"times": err.Error()})
	case errors.Is(err, attendance.ErrInvalidStatus), errors.Is(err, attendance.ErrStatusNotAllowed):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is not active")

	// Report domain errors
	case errors.Is(err, report.ErrInvalidWindow), errors.Is(err, report.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
