package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"pulsewatch/internal/domain"
)

// Field ranges mirror the device payload contract. Out-of-range values are
// rejected, never clamped.
const (
	heartRateMin   = 30
	heartRateMax   = 200
	bloodOxygenMin = 70
	bloodOxygenMax = 100
	sleepHoursMin  = 0
	sleepHoursMax  = 24
	percentMin     = 0
	percentMax     = 100
	temperatureMin = 95.0
	temperatureMax = 105.0
)

// Validator normalizes a raw sync payload into a typed SyncPacket. Pure
// except for measuring its own wall-clock duration, which becomes the
// packet's Duration.
type Validator struct{}

// NewValidator creates a validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateJSON decodes raw JSON and validates it.
func (v *Validator) ValidateJSON(raw []byte) (*domain.SyncPacket, error) {
	var payload RawSyncPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, domain.NewValidationError("", err.Error())
	}
	return v.Validate(&payload)
}

// Validate checks identifiers, reading ranges and timestamps, and builds the
// immutable SyncPacket consumed by the sync orchestrator.
func (v *Validator) Validate(payload *RawSyncPayload) (*domain.SyncPacket, error) {
	start := time.Now()

	if payload == nil {
		return nil, domain.NewValidationError("", "payload is required")
	}
	if payload.EmployeeID == "" {
		return nil, domain.NewValidationError("employeeId", "is required")
	}
	if payload.DeviceID == "" {
		return nil, domain.NewValidationError("deviceId", "is required")
	}
	if len(payload.Readings) == 0 {
		return nil, domain.NewValidationError("readings", "must not be empty")
	}

	readings := make([]domain.VitalsReading, 0, len(payload.Readings))
	for i, raw := range payload.Readings {
		reading, err := validateReading(i, raw)
		if err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}

	syncedAt := payload.SyncedAt.Time
	if !payload.SyncedAt.Valid {
		syncedAt = time.Now().UTC()
	}

	return &domain.SyncPacket{
		DeviceID:   payload.DeviceID,
		EmployeeID: payload.EmployeeID,
		Readings:   readings,
		SyncedAt:   syncedAt,
		Duration:   time.Since(start).Milliseconds(),
	}, nil
}

func validateReading(index int, raw RawReading) (domain.VitalsReading, error) {
	var reading domain.VitalsReading
	var err error

	field := func(name string) string {
		return fmt.Sprintf("readings[%d].%s", index, name)
	}

	if !raw.Timestamp.Valid {
		return reading, domain.NewValidationError(field("timestamp"), "is required")
	}
	reading.Timestamp = raw.Timestamp.Time

	if reading.HeartRate, err = intInRange(field("heartRate"), raw.HeartRate, heartRateMin, heartRateMax); err != nil {
		return reading, err
	}
	if reading.BloodOxygen, err = intInRange(field("bloodOxygen"), raw.BloodOxygen, bloodOxygenMin, bloodOxygenMax); err != nil {
		return reading, err
	}
	if reading.Steps, err = nonNegativeInt(field("steps"), raw.Steps); err != nil {
		return reading, err
	}
	if reading.SleepHours, err = floatInRange(field("sleepHours"), raw.SleepHours, sleepHoursMin, sleepHoursMax); err != nil {
		return reading, err
	}
	if reading.SleepQuality, err = intInRange(field("sleepQuality"), raw.SleepQuality, percentMin, percentMax); err != nil {
		return reading, err
	}
	if reading.StressLevel, err = intInRange(field("stressLevel"), raw.StressLevel, percentMin, percentMax); err != nil {
		return reading, err
	}
	if reading.Temperature, err = floatInRange(field("temperature"), raw.Temperature, temperatureMin, temperatureMax); err != nil {
		return reading, err
	}
	if reading.CaloriesBurned, err = nonNegativeInt(field("caloriesBurned"), raw.CaloriesBurned); err != nil {
		return reading, err
	}

	return reading, nil
}

func intInRange(field string, value *float64, min, max int) (*int, error) {
	if value == nil {
		return nil, nil
	}
	if *value != math.Trunc(*value) {
		return nil, domain.NewValidationError(field, "must be an integer")
	}
	n := int(*value)
	if n < min || n > max {
		return nil, domain.NewValidationError(field, fmt.Sprintf("must be between %d and %d", min, max))
	}
	return &n, nil
}

func nonNegativeInt(field string, value *float64) (*int, error) {
	if value == nil {
		return nil, nil
	}
	if *value != math.Trunc(*value) {
		return nil, domain.NewValidationError(field, "must be an integer")
	}
	n := int(*value)
	if n < 0 {
		return nil, domain.NewValidationError(field, "must not be negative")
	}
	return &n, nil
}

func floatInRange(field string, value *float64, min, max float64) (*float64, error) {
	if value == nil {
		return nil, nil
	}
	if *value < min || *value > max {
		return nil, domain.NewValidationError(field, fmt.Sprintf("must be between %g and %g", min, max))
	}
	f := *value
	return &f, nil
}
