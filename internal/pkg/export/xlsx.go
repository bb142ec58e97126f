package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

const (
	recordsSheet = "Attendance"
	summarySheet = "Summary"
)

// SummaryLine is one label/value pair on the summary sheet.
type SummaryLine struct {
	Label string
	Value any
}

// WriteXLSX writes a workbook with the records on one sheet and the given
// summary lines on a second.
func WriteXLSX(w io.Writer, records []attendance.Record, summary []SummaryLine) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recordsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(recordsSheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetCellStyle(recordsSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range records {
		values := row(r)
		cells := make([]any, len(values))
		for j, v := range values {
			cells[j] = v
		}
		// hour columns as numbers so they can be summed in the sheet
		cells[9], cells[10], cells[11], cells[12] = r.TotalHours, r.WorkingHours, r.BreakHours, r.OvertimeHours

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(recordsSheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(recordsSheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetPanes(recordsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if len(summary) > 0 {
		if _, err := f.NewSheet(summarySheet); err != nil {
			return fmt.Errorf("failed to create summary sheet: %w", err)
		}
		for i, line := range summary {
			cells := []any{line.Label, line.Value}
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(summarySheet, cell, &cells); err != nil {
				return fmt.Errorf("failed to write summary: %w", err)
			}
		}
		if err := f.SetColWidth(summarySheet, "A", "A", 24); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
