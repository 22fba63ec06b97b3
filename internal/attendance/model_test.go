package attendance

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampJSONRoundTrip(t *testing.T) {
	ts := Timestamp{time.Date(2026, 9, 1, 9, 10, 5, 0, time.Local)}

	b, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2026-09-01 09:10:05"`, string(b))

	var back Timestamp
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, ts.Equal(back.Time))
}

func TestTimestampJSONZero(t *testing.T) {
	b, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(b))

	var back Timestamp
	require.NoError(t, json.Unmarshal([]byte(`""`), &back))
	assert.True(t, back.IsZero())
}

func TestRecordJSONShape(t *testing.T) {
	rec := Record{
		ID:           "rec-1",
		EmpID:        "E001",
		EmpName:      "Asha",
		Timestamp:    Timestamp{time.Date(2026, 9, 1, 9, 10, 0, 0, time.Local)},
		Status:       StatusCheckIn,
		TimingStatus: TimingOnTime,
		RecordedTime: "09:10:00",
	}

	b, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "E001", m["emp_id"])
	assert.Equal(t, "Asha", m["emp_name"])
	assert.Equal(t, "2026-09-01 09:10:00", m["timestamp"])
	assert.Equal(t, "Check-in", m["status"])
	assert.Equal(t, "On-time", m["timing_status"])
	assert.Equal(t, "09:10:00", m["recorded_time"])
}
