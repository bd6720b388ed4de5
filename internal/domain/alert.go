package domain

import "time"

// AlertType alert category
type AlertType string

const (
	AlertTypeHeartRate   AlertType = "heart_rate"
	AlertTypeBloodOxygen AlertType = "blood_oxygen"
	AlertTypeSleep       AlertType = "sleep"
	AlertTypeStress      AlertType = "stress"
	AlertTypeFatigue     AlertType = "fatigue"
	AlertTypeBurnout     AlertType = "burnout"
	AlertTypeTemperature AlertType = "temperature"
)

// AlertSeverity alert severity level
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is a derived signal produced by the rule engine when a vital crosses
// a fixed threshold. Acknowledgement is an external operation that flips the
// boolean and records the acknowledgement time.
type Alert struct {
	ID             string        `json:"id"`
	EmployeeID     string        `json:"employeeId"`
	Type           AlertType     `json:"type"`
	Severity       AlertSeverity `json:"severity"`
	Message        string        `json:"message"`
	Suggestion     string        `json:"suggestion"`
	Timestamp      time.Time     `json:"timestamp"`
	Acknowledged   bool          `json:"acknowledged"`
	AcknowledgedAt *time.Time    `json:"acknowledgedAt,omitempty"`
}
