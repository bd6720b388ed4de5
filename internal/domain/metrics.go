package domain

import "time"

// MetricsPeriod rolling window bounds.
type MetricsPeriod struct {
	Since time.Time `json:"since"`
	Until time.Time `json:"until"`
}

// HeartRateMetrics avg/min/max over readings that carry a heart rate.
type HeartRateMetrics struct {
	Avg int `json:"avg"`
	Min int `json:"min"`
	Max int `json:"max"`
}

// BloodOxygenMetrics avg/min/max over readings that carry blood oxygen.
type BloodOxygenMetrics struct {
	Avg int `json:"avg"`
	Min int `json:"min"`
	Max int `json:"max"`
}

// StepsMetrics total/avg over readings that carry steps.
type StepsMetrics struct {
	Total int `json:"total"`
	Avg   int `json:"avg"`
}

// SleepMetrics totals over readings that carry sleep hours. AvgQuality is
// computed over readings that carry sleep quality and is nil when none do.
type SleepMetrics struct {
	Total      float64 `json:"total"` // 1 decimal
	Avg        float64 `json:"avg"`   // 1 decimal
	AvgQuality *int    `json:"avgQuality,omitempty"`
}

// StressMetrics avg/max over readings that carry a stress level.
type StressMetrics struct {
	Avg int `json:"avg"`
	Max int `json:"max"`
}

// MetricsSummary is the rolling-window report of §metrics. A metric absent
// from every reading in the window yields a nil sub-object, never zeros.
type MetricsSummary struct {
	Period        MetricsPeriod       `json:"period"`
	TotalReadings int                 `json:"totalReadings"`
	HeartRate     *HeartRateMetrics   `json:"heartRate"`
	BloodOxygen   *BloodOxygenMetrics `json:"bloodOxygen"`
	Steps         *StepsMetrics       `json:"steps"`
	Sleep         *SleepMetrics       `json:"sleep"`
	Stress        *StressMetrics      `json:"stress"`
}
