package domain

import "time"

// VitalsReading is one timestamped measurement batch reported by a device.
// Every numeric field is optional: a device may report any subset. Presence
// is modeled as a non-nil pointer; values are range-checked at validation
// time and never clamped.
type VitalsReading struct {
	HeartRate      *int     `json:"heartRate,omitempty"`      // 30-200 bpm
	BloodOxygen    *int     `json:"bloodOxygen,omitempty"`    // 70-100 %
	Steps          *int     `json:"steps,omitempty"`          // >= 0
	SleepHours     *float64 `json:"sleepHours,omitempty"`     // 0-24 h
	SleepQuality   *int     `json:"sleepQuality,omitempty"`   // 0-100
	StressLevel    *int     `json:"stressLevel,omitempty"`    // 0-100
	Temperature    *float64 `json:"temperature,omitempty"`    // 95-105 F
	CaloriesBurned *int     `json:"caloriesBurned,omitempty"` // >= 0

	Timestamp time.Time `json:"timestamp"`
}
