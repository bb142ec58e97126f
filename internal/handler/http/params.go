package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

// parseRecordFilter reads the list/report query parameters. Range, paging and
// sort checks happen later in RecordFilter.Validate.
func parseRecordFilter(r *http.Request) (attendance.RecordFilter, error) {
	q := r.URL.Query()
	var (
		filter attendance.RecordFilter
		errs   validator.ValidationErrors
	)

	optional := func(key string) *string {
		if v := q.Get(key); v != "" {
			return &v
		}
		return nil
	}
	filter.EmployeeID = optional("employee_id")
	filter.EmployeeName = optional("employee_name")
	filter.Department = optional("department")
	filter.Status = optional("status")
	filter.StartDate = optional("start_date")
	filter.EndDate = optional("end_date")
	filter.SortBy = q.Get("sort_by")
	filter.SortOrder = q.Get("sort_order")

	for key, target := range map[string]**bool{
		"include_weekends": &filter.IncludeWeekends,
		"include_holidays": &filter.IncludeHolidays,
	} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: key, Message: key + " must be true or false"})
			continue
		}
		*target = &b
	}

	for key, target := range map[string]*int{"page": &filter.Page, "limit": &filter.Limit} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: key, Message: key + " must be a number"})
			continue
		}
		*target = n
	}

	if len(errs) > 0 {
		return filter, errs
	}
	return filter, nil
}
