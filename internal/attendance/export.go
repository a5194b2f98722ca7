package attendance

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Time Records"

var exportHeader = []string{"Date", "Employee", "Time In", "Clock-in Device", "Time Out", "Clock-out Device", "Total Hours", "Status"}

// WriteXLSX renders records as a single-sheet workbook.
func WriteXLSX(w io.Writer, records []TimeRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
	if err := f.SetCellStyle(exportSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for row, r := range records {
		values := []interface{}{
			r.Date,
			r.EmployeeName,
			r.TimeIn,
			deref(r.ClockInDevice),
			deref(r.TimeOut),
			deref(r.ClockOutDevice),
			"",
			string(r.Status),
		}
		if r.TotalHours != nil {
			values[6] = *r.TotalHours
		}
		cell, _ := excelize.CoordinatesToCellName(1, row+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row+2, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "H", 18); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
