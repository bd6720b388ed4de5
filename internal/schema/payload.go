package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Instant accepts a timestamp either as an RFC3339 string or as epoch
// milliseconds and normalizes it to UTC.
type Instant struct {
	Time  time.Time
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Instant) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339, str)
		if err != nil {
			return fmt.Errorf("not an ISO-8601 timestamp: %q", str)
		}
		i.Time = t.UTC()
		i.Valid = true
		return nil
	}

	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("timestamp must be an ISO-8601 string or epoch milliseconds")
	}
	i.Time = time.UnixMilli(ms).UTC()
	i.Valid = true
	return nil
}

// RawReading is one reading as received on the wire. Numerics are decoded as
// float64 so that non-integer values for integer fields can be rejected
// instead of silently truncated.
type RawReading struct {
	HeartRate      *float64 `json:"heartRate"`
	BloodOxygen    *float64 `json:"bloodOxygen"`
	Steps          *float64 `json:"steps"`
	SleepHours     *float64 `json:"sleepHours"`
	SleepQuality   *float64 `json:"sleepQuality"`
	StressLevel    *float64 `json:"stressLevel"`
	Temperature    *float64 `json:"temperature"`
	CaloriesBurned *float64 `json:"caloriesBurned"`
	Timestamp      Instant  `json:"timestamp"`
}

// RawSyncPayload is the JSON shape pushed by a device:
// {employeeId, deviceId, readings:[{...vitals, timestamp}], syncedAt}.
// A client-supplied duration is decoded but always discarded; the server
// measures its own.
type RawSyncPayload struct {
	EmployeeID string       `json:"employeeId"`
	DeviceID   string       `json:"deviceId"`
	Readings   []RawReading `json:"readings"`
	SyncedAt   Instant      `json:"syncedAt"`
	Duration   *float64     `json:"duration"`
}
