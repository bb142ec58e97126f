package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/timecalc"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

// filterFlags registers the record filter flags shared by summary and export.
func filterFlags(fs *flag.FlagSet) func() attendance.RecordFilter {
	from := fs.String("from", "", "first day, YYYY-MM-DD (default: 30 days before -to)")
	to := fs.String("to", "", "last day, YYYY-MM-DD (default: today)")
	employeeID := fs.String("employee", "", "employee id")
	department := fs.String("department", "", "department")
	status := fs.String("status", "", "present, late, absent, partial, holiday or sick_leave")
	noWeekends := fs.Bool("no-weekends", false, "exclude Saturdays and Sundays")
	noHolidays := fs.Bool("no-holidays", false, "exclude holiday records")

	return func() attendance.RecordFilter {
		optional := func(s string) *string {
			if s == "" {
				return nil
			}
			return &s
		}
		f := attendance.RecordFilter{
			StartDate:  optional(*from),
			EndDate:    optional(*to),
			EmployeeID: optional(*employeeID),
			Department: optional(*department),
			Status:     optional(*status),
			SortBy:     "date",
			SortOrder:  "asc",
		}
		if *noWeekends {
			f.IncludeWeekends = new(bool)
		}
		if *noHolidays {
			f.IncludeHolidays = new(bool)
		}
		return f
	}
}

func runSummary(args []string, stderr io.Writer) (func(context.Context, *app) error, error) {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	fs.SetOutput(stderr)
	filter := filterFlags(fs)
	window := fs.String("window", "", "break down by daily, weekly, monthly or yearly")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return func(ctx context.Context, a *app) error {
		resp, err := a.reports.Summarize(ctx, report.SummaryRequest{Filter: filter(), Window: *window})
		if err != nil {
			return describe(err)
		}
		printSummary(a.out, resp)
		return nil
	}, nil
}

func runExport(args []string, stderr io.Writer) (func(context.Context, *app) error, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	filter := filterFlags(fs)
	format := fs.String("format", "csv", "csv or xlsx")
	output := fs.String("o", "", "output file (default: suggested name in the current directory)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return func(ctx context.Context, a *app) error {
		tmp, err := os.CreateTemp(".", ".attendance-export-*")
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer os.Remove(tmp.Name())

		filename, err := a.reports.Export(ctx, report.ExportRequest{Filter: filter(), Format: *format}, tmp)
		if closeErr := tmp.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return describe(err)
		}

		if *output != "" {
			filename = *output
		}
		if err := os.Rename(tmp.Name(), filename); err != nil {
			return fmt.Errorf("failed to write %s: %w", filename, err)
		}
		log.Info().Str("file", filename).Str("format", *format).Msg("Export written")
		return nil
	}, nil
}

func runMarkAbsent(args []string, stderr io.Writer) (func(context.Context, *app) error, error) {
	fs := flag.NewFlagSet("mark-absent", flag.ContinueOnError)
	fs.SetOutput(stderr)
	date := fs.String("date", "", "day to mark, YYYY-MM-DD (default: yesterday)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return func(ctx context.Context, a *app) error {
		day := timecalc.StartOfDay(time.Now().In(a.loc)).AddDate(0, 0, -1)
		if *date != "" {
			parsed, ok := validator.IsValidDateIn(*date, a.loc)
			if !ok {
				return fmt.Errorf("invalid -date %q, want YYYY-MM-DD", *date)
			}
			day = parsed
		}

		created, err := a.attendance.MarkAbsent(ctx, day)
		log.Info().Str("date", day.Format(attendance.DateLayout)).Int("created", created).Msg("Marked absences")
		return err
	}, nil
}

func runCloseStale(args []string, stderr io.Writer) (func(context.Context, *app) error, error) {
	fs := flag.NewFlagSet("close-stale", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return func(ctx context.Context, a *app) error {
		closed, err := a.attendance.CloseStaleSessions(ctx, time.Now().In(a.loc))
		log.Info().Int("closed", closed).Msg("Closed stale sessions")
		return err
	}, nil
}

// describe flattens validation errors into one readable line.
func describe(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		return fmt.Errorf("invalid arguments: %s", errs.Error())
	}
	return err
}

func printSummary(out io.Writer, resp report.SummaryResponse) {
	bold := color.New(color.Bold)
	bold.Fprintf(out, "Attendance %s to %s\n\n", resp.StartDate, resp.EndDate)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	writeSummary(tw, resp.Summary)
	tw.Flush()

	if len(resp.Periods) == 0 {
		return
	}

	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PERIOD\tDAYS\tPRESENT\tLATE\tABSENT\tHOURS\tATTENDANCE\tPUNCTUALITY")
	for _, p := range resp.Periods {
		s := p.Summary
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.2f\t%s\t%s\n",
			p.Period, s.TotalDays, s.PresentDays, s.LateDays, s.AbsentDays, s.WorkingHours,
			rate(s.AttendanceRate), rate(s.PunctualityScore))
	}
	tw.Flush()
}

func writeSummary(w io.Writer, s report.AttendanceSummary) {
	rows := []struct {
		label string
		value string
	}{
		{"Total days", fmt.Sprint(s.TotalDays)},
		{"Working days", fmt.Sprint(s.WorkingDays)},
		{"Present", fmt.Sprint(s.PresentDays)},
		{"Late", fmt.Sprint(s.LateDays)},
		{"Absent", fmt.Sprint(s.AbsentDays)},
		{"Partial", fmt.Sprint(s.PartialDays)},
		{"Sick leave", fmt.Sprint(s.SickLeaveDays)},
		{"Holiday", fmt.Sprint(s.HolidayDays)},
		{"Working hours", fmt.Sprintf("%.2f", s.WorkingHours)},
		{"Overtime hours", fmt.Sprintf("%.2f", s.OvertimeHours)},
		{"On time", rate(s.OnTimePercentage)},
		{"Attendance rate", rate(s.AttendanceRate)},
		{"Punctuality", rate(s.PunctualityScore)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\n", r.label, r.value)
	}
}

// rate colours a percentage: green from 90, yellow from 75, red below.
func rate(pct float64) string {
	c := color.New(color.FgRed)
	switch {
	case pct >= 90:
		c = color.New(color.FgGreen)
	case pct >= 75:
		c = color.New(color.FgYellow)
	}
	return c.Sprintf("%.2f%%", pct)
}
