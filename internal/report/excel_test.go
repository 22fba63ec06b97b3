package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faceattend/internal/attendance"
)

func TestAttendanceWorkbook(t *testing.T) {
	ts := time.Date(2026, 9, 1, 9, 10, 0, 0, time.Local)
	records := []attendance.Record{
		{
			EmpID:        "E001",
			EmpName:      "Asha",
			Timestamp:    attendance.Timestamp{Time: ts},
			Status:       attendance.StatusCheckIn,
			TimingStatus: attendance.TimingOnTime,
			RecordedTime: "09:10:00",
		},
	}

	wb, err := AttendanceWorkbook(records)
	require.NoError(t, err)
	defer wb.Close()

	got, err := wb.GetCellValue("Attendance", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Employee ID", got)

	got, err = wb.GetCellValue("Attendance", "A2")
	require.NoError(t, err)
	assert.Equal(t, "E001", got)

	got, err = wb.GetCellValue("Attendance", "C2")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01 09:10:00", got)

	got, err = wb.GetCellValue("Attendance", "D2")
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusCheckIn), got)
}

func TestAttendanceWorkbookEmpty(t *testing.T) {
	wb, err := AttendanceWorkbook(nil)
	require.NoError(t, err)
	defer wb.Close()

	got, err := wb.GetCellValue("Attendance", "F1")
	require.NoError(t, err)
	assert.Equal(t, "Recorded Time", got)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "attendance.xlsx", Filename(""))
	assert.Equal(t, "attendance-E001.xlsx", Filename("E001"))
}
