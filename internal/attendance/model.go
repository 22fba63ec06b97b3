package attendance

import (
	"encoding/json"
	"time"
)

// Status is the kind of attendance event.
type Status string

const (
	StatusCheckIn  Status = "Check-in"
	StatusCheckOut Status = "Check-out"
)

// TimingStatus classifies a check-in against the on-time limit. Check-outs
// always carry TimingNA.
type TimingStatus string

const (
	TimingOnTime TimingStatus = "On-time"
	TimingLate   TimingStatus = "Late"
	TimingNA     TimingStatus = "N/A"
)

const timestampLayout = "2006-01-02 15:04:05"

// Timestamp serializes as "YYYY-MM-DD HH:MM:SS", the format the existing
// clients expect.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(t.Format(timestampLayout))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.ParseInLocation(timestampLayout, s, time.Local)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// Employee is a registered employee. Created by registration and only
// mutated by re-registration; never deleted.
type Employee struct {
	EmpID      string    `json:"emp_id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	PhotoPath  string    `json:"photo"`
	CreatedAt  time.Time `json:"created_at"`
}

// Record is one append-only attendance event.
type Record struct {
	ID           string       `json:"id"`
	EmpID        string       `json:"emp_id"`
	EmpName      string       `json:"emp_name"`
	Timestamp    Timestamp    `json:"timestamp"`
	Status       Status       `json:"status"`
	TimingStatus TimingStatus `json:"timing_status"`
	RecordedTime string       `json:"recorded_time"`
}
