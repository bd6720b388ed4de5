package rules

import (
	"fmt"
	"strconv"

	"pulsewatch/internal/domain"
)

// Suggestion catalog. These strings are part of the user-visible contract;
// one fixed string per (type, severity) firing.
const (
	suggestionHighHeartRate   = "Take a break and rest. If persists, consult a healthcare provider."
	suggestionLowHeartRate    = "Monitor closely and seek medical attention if symptomatic."
	suggestionLowBloodOxygen  = "Ensure proper ventilation and practice deep breathing."
	suggestionHighTemperature = "Monitor for fever symptoms. Consider staying home."
	suggestionLowTemperature  = "Ensure warm environment and monitor vital signs."
	suggestionHighStress      = "Take a break, practice meditation, or speak with a counselor."
	suggestionElevatedStress  = "Try relaxation techniques or take a short walk."
	suggestionShortSleep      = "Prioritize sleep tonight. Aim for 7-9 hours."
	suggestionPoorSleep       = "Improve sleep environment. Avoid screens before bed."
)

// ruleFunc evaluates one vital against its thresholds. Returns nil when the
// rule does not fire. Rules are independent and non-exclusive: one reading
// can fire several of them at once.
type ruleFunc func(b *AlertBuilder, r *domain.VitalsReading) *domain.Alert

// thresholdRules is the fixed, ordered rule list. Evaluated top-to-bottom
// for every reading; order determines alert order, nothing else.
var thresholdRules = []ruleFunc{
	heartRateRule,
	bloodOxygenRule,
	temperatureRule,
	stressRule,
	sleepHoursRule,
	sleepQualityRule,
}

// Engine evaluates vitals against fixed clinical-style thresholds. Stateless:
// it only computes alerts, persistence belongs to the caller.
type Engine struct{}

// NewEngine creates a rule engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs every rule over every reading in the batch independently.
// A batch of N readings can yield up to N alerts per rule; there is no
// deduplication within a call.
func (e *Engine) Evaluate(employeeID string, readings []domain.VitalsReading) []domain.Alert {
	builder := NewAlertBuilder(employeeID)

	var alerts []domain.Alert
	for i := range readings {
		for _, rule := range thresholdRules {
			if alert := rule(builder, &readings[i]); alert != nil {
				alerts = append(alerts, *alert)
			}
		}
	}
	return alerts
}

// heartRateRule: >120 critical, 100<hr<=120 warning, <40 critical.
func heartRateRule(b *AlertBuilder, r *domain.VitalsReading) *domain.Alert {
	if r.HeartRate == nil {
		return nil
	}
	hr := *r.HeartRate

	if hr > 100 {
		severity := domain.SeverityWarning
		if hr > 120 {
			severity = domain.SeverityCritical
		}
		alert := b.Build(domain.AlertTypeHeartRate, severity,
			fmt.Sprintf("Elevated heart rate detected: %d bpm", hr),
			suggestionHighHeartRate, r.Timestamp)
		return &alert
	}
	if hr < 40 {
		alert := b.Build(domain.AlertTypeHeartRate, domain.SeverityCritical,
			fmt.Sprintf("Unusually low heart rate detected: %d bpm", hr),
			suggestionLowHeartRate, r.Timestamp)
		return &alert
	}
	return nil
}

// bloodOxygenRule: <88 critical, 88<=spo2<93 warning.
func bloodOxygenRule(b *AlertBuilder, r *domain.VitalsReading) *domain.Alert {
	if r.BloodOxygen == nil {
		return nil
	}
	spo2 := *r.BloodOxygen

	if spo2 >= 93 {
		return nil
	}
	severity := domain.SeverityWarning
	if spo2 < 88 {
		severity = domain.SeverityCritical
	}
	alert := b.Build(domain.AlertTypeBloodOxygen, severity,
		fmt.Sprintf("Low blood oxygen level detected: %d%%", spo2),
		suggestionLowBloodOxygen, r.Timestamp)
	return &alert
}

// temperatureRule: >102 critical, 100.4<t<=102 warning, <95 warning.
func temperatureRule(b *AlertBuilder, r *domain.VitalsReading) *domain.Alert {
	if r.Temperature == nil {
		return nil
	}
	t := *r.Temperature

	if t > 100.4 {
		severity := domain.SeverityWarning
		if t > 102 {
			severity = domain.SeverityCritical
		}
		alert := b.Build(domain.AlertTypeTemperature, severity,
			fmt.Sprintf("Elevated body temperature: %s°F", formatNumber(t)),
			suggestionHighTemperature, r.Timestamp)
		return &alert
	}
	if t < 95 {
		alert := b.Build(domain.AlertTypeTemperature, domain.SeverityWarning,
			fmt.Sprintf("Low body temperature: %s°F", formatNumber(t)),
			suggestionLowTemperature, r.Timestamp)
		return &alert
	}
	return nil
}

// stressRule: >80 critical, 65<s<=80 warning.
func stressRule(b *AlertBuilder, r *domain.VitalsReading) *domain.Alert {
	if r.StressLevel == nil {
		return nil
	}
	s := *r.StressLevel

	if s > 80 {
		alert := b.Build(domain.AlertTypeStress, domain.SeverityCritical,
			fmt.Sprintf("Very high stress levels detected: %d/100", s),
			suggestionHighStress, r.Timestamp)
		return &alert
	}
	if s > 65 {
		alert := b.Build(domain.AlertTypeStress, domain.SeverityWarning,
			fmt.Sprintf("Elevated stress levels: %d/100", s),
			suggestionElevatedStress, r.Timestamp)
		return &alert
	}
	return nil
}

// sleepHoursRule: <5 warning.
func sleepHoursRule(b *AlertBuilder, r *domain.VitalsReading) *domain.Alert {
	if r.SleepHours == nil || *r.SleepHours >= 5 {
		return nil
	}
	alert := b.Build(domain.AlertTypeSleep, domain.SeverityWarning,
		fmt.Sprintf("Insufficient sleep detected: %s hours", formatNumber(*r.SleepHours)),
		suggestionShortSleep, r.Timestamp)
	return &alert
}

// sleepQualityRule: <40 warning.
func sleepQualityRule(b *AlertBuilder, r *domain.VitalsReading) *domain.Alert {
	if r.SleepQuality == nil || *r.SleepQuality >= 40 {
		return nil
	}
	alert := b.Build(domain.AlertTypeSleep, domain.SeverityWarning,
		fmt.Sprintf("Poor sleep quality detected: %d%%", *r.SleepQuality),
		suggestionPoorSleep, r.Timestamp)
	return &alert
}

// formatNumber renders 4.9 as "4.9" and 4.0 as "4", keeping message text
// stable regardless of trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
