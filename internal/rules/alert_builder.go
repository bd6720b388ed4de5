package rules

import (
	"time"

	"github.com/google/uuid"

	"pulsewatch/internal/domain"
)

// AlertBuilder stamps alerts with identity and ownership so they are
// addressable before persistence.
type AlertBuilder struct {
	employeeID string
}

// NewAlertBuilder creates a builder for one employee.
func NewAlertBuilder(employeeID string) *AlertBuilder {
	return &AlertBuilder{employeeID: employeeID}
}

// Build creates an unacknowledged alert carrying the observed reading's
// timestamp.
func (b *AlertBuilder) Build(alertType domain.AlertType, severity domain.AlertSeverity, message, suggestion string, at time.Time) domain.Alert {
	return domain.Alert{
		ID:           uuid.NewString(),
		EmployeeID:   b.employeeID,
		Type:         alertType,
		Severity:     severity,
		Message:      message,
		Suggestion:   suggestion,
		Timestamp:    at,
		Acknowledged: false,
	}
}
