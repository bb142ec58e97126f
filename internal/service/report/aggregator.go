package report

import (
	"fmt"
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/timecalc"
)

// Summarize reduces records to an AttendanceSummary. It never filters and
// never fails: an empty input gives the zero summary.
func Summarize(records []attendance.Record) report.AttendanceSummary {
	var s report.AttendanceSummary

	for _, r := range records {
		s.TotalDays++
		switch r.Status {
		case attendance.StatusPresent:
			s.PresentDays++
		case attendance.StatusLate:
			s.LateDays++
		case attendance.StatusAbsent:
			s.AbsentDays++
		case attendance.StatusPartial:
			s.PartialDays++
		case attendance.StatusSickLeave:
			s.SickLeaveDays++
		case attendance.StatusHoliday:
			s.HolidayDays++
		}

		s.TotalHours += r.TotalHours
		s.WorkingHours += r.WorkingHours
		s.BreakHours += r.BreakHours
		s.OvertimeHours += r.OvertimeHours
	}

	s.WorkingDays = s.TotalDays - s.HolidayDays

	s.TotalHours = timecalc.Round2(s.TotalHours)
	s.WorkingHours = timecalc.Round2(s.WorkingHours)
	s.BreakHours = timecalc.Round2(s.BreakHours)
	s.OvertimeHours = timecalc.Round2(s.OvertimeHours)

	s.OnTimePercentage = percentage(s.PresentDays, s.TotalDays)
	s.AttendanceRate = percentage(s.PresentDays+s.LateDays, s.WorkingDays)
	s.PunctualityScore = percentage(s.PresentDays, s.PresentDays+s.LateDays)

	return s
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return timecalc.Round2(float64(part) / float64(whole) * 100)
}

// SummarizeByWindow groups records into calendar periods and summarizes each.
// Periods without records are omitted; the result is ordered by start date.
func SummarizeByWindow(records []attendance.Record, window report.Window) []report.PeriodSummary {
	if window == report.WindowNone {
		return nil
	}

	type bucket struct {
		label      string
		start, end time.Time
		records    []attendance.Record
	}
	buckets := make(map[string]*bucket)

	for _, r := range records {
		label, start, end := period(r.Date, window)
		b, ok := buckets[label]
		if !ok {
			b = &bucket{label: label, start: start, end: end}
			buckets[label] = b
		}
		b.records = append(b.records, r)
	}

	periods := make([]report.PeriodSummary, 0, len(buckets))
	for _, b := range buckets {
		periods = append(periods, report.PeriodSummary{
			Period:    b.label,
			StartDate: b.start.Format(attendance.DateLayout),
			EndDate:   b.end.Format(attendance.DateLayout),
			Summary:   Summarize(b.records),
		})
	}
	slices.SortFunc(periods, func(a, b report.PeriodSummary) int {
		if a.StartDate < b.StartDate {
			return -1
		}
		if a.StartDate > b.StartDate {
			return 1
		}
		return 0
	})
	return periods
}

// period returns the label and inclusive date bounds of the window period
// containing date.
func period(date time.Time, window report.Window) (string, time.Time, time.Time) {
	day := timecalc.StartOfDay(date)

	switch window {
	case report.WindowWeekly:
		// ISO weeks start on Monday
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		year, week := day.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week), start, start.AddDate(0, 0, 6)
	case report.WindowMonthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return start.Format("2006-01"), start, start.AddDate(0, 1, -1)
	case report.WindowYearly:
		start := time.Date(day.Year(), 1, 1, 0, 0, 0, 0, day.Location())
		return start.Format("2006"), start, start.AddDate(1, 0, -1)
	default:
		return day.Format(attendance.DateLayout), day, day
	}
}
