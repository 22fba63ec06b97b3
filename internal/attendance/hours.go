package attendance

import (
	"context"
	"fmt"
	"time"
)

// Period is the aggregation window for hours computation.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// ParsePeriod validates a period query parameter. Empty selects daily.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodDaily:
		return PeriodDaily, nil
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return Period(s), nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// window is a resolved [Start, End) range with the hours an employee is
// expected to work inside it.
type window struct {
	Start         time.Time
	End           time.Time
	ExpectedHours float64
}

const hoursPerWorkday = 8

// resolveWindow anchors a period at now. Daily and weekly expectations are
// fixed; monthly and yearly count Mon-Fri working days.
func resolveWindow(p Period, now time.Time) window {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch p {
	case PeriodWeekly:
		// Week starts Monday.
		offset := (int(now.Weekday()) + 6) % 7
		start := midnight.AddDate(0, 0, -offset)
		return window{Start: start, End: start.AddDate(0, 0, 7), ExpectedHours: 5 * hoursPerWorkday}
	case PeriodMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 1, 0)
		return window{Start: start, End: end, ExpectedHours: float64(workingDays(start, end) * hoursPerWorkday)}
	case PeriodYearly:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		end := start.AddDate(1, 0, 0)
		return window{Start: start, End: end, ExpectedHours: float64(workingDays(start, end) * hoursPerWorkday)}
	default:
		return window{Start: midnight, End: midnight.AddDate(0, 0, 1), ExpectedHours: hoursPerWorkday}
	}
}

// workingDays counts Mon-Fri days in [start, end).
func workingDays(start, end time.Time) int {
	n := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			n++
		}
	}
	return n
}

// SummaryStats carries the numeric breakdown of a Summary.
type SummaryStats struct {
	LateArrivals      int     `json:"late_arrivals"`
	ActualHoursWorked float64 `json:"actual_hours_worked"`
	ExpectedHours     float64 `json:"expected_hours"`
	CheckInOutPairs   int     `json:"check_in_out_pairs"`
}

// Summary is the hours report for one employee over one period.
type Summary struct {
	EmpID                string       `json:"emp_id"`
	Period               Period       `json:"period"`
	TotalWorkingHours    string       `json:"total_working_hours"`
	ExpectedHours        string       `json:"expected_hours"`
	AttendancePercentage string       `json:"attendance_percentage"`
	Status               string       `json:"status"`
	Statistics           SummaryStats `json:"statistics"`
}

// ComputeHours pairs an employee's Check-in/Check-out records inside the
// period chronologically and reports worked duration, lateness and an
// attendance rating. A Check-in with no following Check-out contributes
// nothing; so does an orphan Check-out.
func (s *Service) ComputeHours(ctx context.Context, empID string, p Period, now time.Time) (Summary, error) {
	w := resolveWindow(p, now)
	records, err := s.store.ListRecordsInRange(ctx, empID, w.Start, w.End)
	if err != nil {
		return Summary{}, err
	}

	var totalMinutes float64
	lateCount := 0
	var pendingCheckIn *time.Time
	for _, rec := range records {
		ts := rec.Timestamp.Time
		switch rec.Status {
		case StatusCheckIn:
			// An unmatched earlier check-in is overwritten.
			pendingCheckIn = &ts
			if rec.TimingStatus == TimingLate {
				lateCount++
			}
		case StatusCheckOut:
			if pendingCheckIn != nil {
				totalMinutes += ts.Sub(*pendingCheckIn).Minutes()
				pendingCheckIn = nil
			}
		}
	}

	wholeHours := int(totalMinutes) / 60
	remMinutes := int(totalMinutes) % 60
	hoursWorked := float64(wholeHours) + float64(remMinutes)/60

	pct := 0.0
	if w.ExpectedHours > 0 {
		pct = hoursWorked / w.ExpectedHours * 100
	}

	return Summary{
		EmpID:                empID,
		Period:               p,
		TotalWorkingHours:    fmt.Sprintf("%dh %dm", wholeHours, remMinutes),
		ExpectedHours:        fmt.Sprintf("%gh", w.ExpectedHours),
		AttendancePercentage: fmt.Sprintf("%.1f%%", pct),
		Status:               rate(pct),
		Statistics: SummaryStats{
			LateArrivals:      lateCount,
			ActualHoursWorked: round2(hoursWorked),
			ExpectedHours:     w.ExpectedHours,
			CheckInOutPairs:   len(records) / 2,
		},
	}, nil
}

func rate(pct float64) string {
	switch {
	case pct >= 95:
		return "Excellent"
	case pct >= 85:
		return "Good"
	case pct >= 75:
		return "Average"
	default:
		return "Poor"
	}
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
