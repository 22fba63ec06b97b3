package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"faceattend/internal/attendance"
)

const sheet = "Attendance"

// AttendanceWorkbook renders attendance records as a spreadsheet, one row
// per record, for the reporting/export endpoint.
func AttendanceWorkbook(records []attendance.Record) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Employee ID", "Name", "Timestamp", "Status", "Timing", "Recorded Time"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, rec := range records {
		row := i + 2
		values := []interface{}{
			rec.EmpID,
			rec.EmpName,
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			string(rec.Status),
			string(rec.TimingStatus),
			rec.RecordedTime,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "F", 20); err != nil {
		return nil, err
	}
	return f, nil
}

// Filename builds the attachment name for an export.
func Filename(empID string) string {
	if empID == "" {
		return "attendance.xlsx"
	}
	return fmt.Sprintf("attendance-%s.xlsx", empID)
}
