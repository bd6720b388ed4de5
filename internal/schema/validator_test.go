package schema

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulsewatch/internal/domain"
)

func floatPtr(v float64) *float64 {
	return &v
}

func validPayload() *RawSyncPayload {
	return &RawSyncPayload{
		DeviceID:   "watch-1",
		EmployeeID: "emp-1",
		Readings: []RawReading{
			{
				HeartRate:   floatPtr(72),
				BloodOxygen: floatPtr(98),
				Timestamp:   Instant{Time: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), Valid: true},
			},
		},
		SyncedAt: Instant{Time: time.Date(2026, 8, 1, 10, 5, 0, 0, time.UTC), Valid: true},
	}
}

func TestValidate_Success(t *testing.T) {
	v := NewValidator()

	packet, err := v.Validate(validPayload())
	require.NoError(t, err)

	assert.Equal(t, "watch-1", packet.DeviceID)
	assert.Equal(t, "emp-1", packet.EmployeeID)
	require.Len(t, packet.Readings, 1)
	require.NotNil(t, packet.Readings[0].HeartRate)
	assert.Equal(t, 72, *packet.Readings[0].HeartRate)
	assert.Equal(t, time.Date(2026, 8, 1, 10, 5, 0, 0, time.UTC), packet.SyncedAt)
	assert.GreaterOrEqual(t, packet.Duration, int64(0))
}

func TestValidate_RequiredFields(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		mutate func(*RawSyncPayload)
		field  string
	}{
		{"missing employee", func(p *RawSyncPayload) { p.EmployeeID = "" }, "employeeId"},
		{"missing device", func(p *RawSyncPayload) { p.DeviceID = "" }, "deviceId"},
		{"empty readings", func(p *RawSyncPayload) { p.Readings = nil }, "readings"},
		{"missing timestamp", func(p *RawSyncPayload) { p.Readings[0].Timestamp = Instant{} }, "readings[0].timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			tt.mutate(payload)

			_, err := v.Validate(payload)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidate_RangeBoundaries(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		mutate func(*RawReading)
		valid  bool
	}{
		{"heart rate lower bound", func(r *RawReading) { r.HeartRate = floatPtr(30) }, true},
		{"heart rate below range", func(r *RawReading) { r.HeartRate = floatPtr(29) }, false},
		{"heart rate upper bound", func(r *RawReading) { r.HeartRate = floatPtr(200) }, true},
		{"heart rate above range", func(r *RawReading) { r.HeartRate = floatPtr(201) }, false},
		{"heart rate not integer", func(r *RawReading) { r.HeartRate = floatPtr(72.5) }, false},
		{"blood oxygen lower bound", func(r *RawReading) { r.BloodOxygen = floatPtr(70) }, true},
		{"blood oxygen below range", func(r *RawReading) { r.BloodOxygen = floatPtr(69) }, false},
		{"negative steps", func(r *RawReading) { r.Steps = floatPtr(-1) }, false},
		{"zero steps", func(r *RawReading) { r.Steps = floatPtr(0) }, true},
		{"sleep hours upper bound", func(r *RawReading) { r.SleepHours = floatPtr(24) }, true},
		{"sleep hours above range", func(r *RawReading) { r.SleepHours = floatPtr(24.1) }, false},
		{"sleep quality above range", func(r *RawReading) { r.SleepQuality = floatPtr(101) }, false},
		{"stress level upper bound", func(r *RawReading) { r.StressLevel = floatPtr(100) }, true},
		{"temperature lower bound", func(r *RawReading) { r.Temperature = floatPtr(95) }, true},
		{"temperature below range", func(r *RawReading) { r.Temperature = floatPtr(94.9) }, false},
		{"temperature above range", func(r *RawReading) { r.Temperature = floatPtr(105.1) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			tt.mutate(&payload.Readings[0])

			_, err := v.Validate(payload)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, domain.IsValidation(err), "expected validation error, got %v", err)
			}
		})
	}
}

func TestValidate_OptionalFieldsStayAbsent(t *testing.T) {
	v := NewValidator()

	payload := validPayload()
	payload.Readings[0] = RawReading{
		Timestamp: Instant{Time: time.Now().UTC(), Valid: true},
	}

	packet, err := v.Validate(payload)
	require.NoError(t, err)

	r := packet.Readings[0]
	assert.Nil(t, r.HeartRate)
	assert.Nil(t, r.BloodOxygen)
	assert.Nil(t, r.Steps)
	assert.Nil(t, r.SleepHours)
	assert.Nil(t, r.SleepQuality)
	assert.Nil(t, r.StressLevel)
	assert.Nil(t, r.Temperature)
	assert.Nil(t, r.CaloriesBurned)
}

func TestValidate_DefaultsSyncedAt(t *testing.T) {
	v := NewValidator()

	payload := validPayload()
	payload.SyncedAt = Instant{}

	before := time.Now().UTC()
	packet, err := v.Validate(payload)
	require.NoError(t, err)
	assert.False(t, packet.SyncedAt.Before(before))
}

func TestValidate_Idempotent(t *testing.T) {
	v := NewValidator()

	p1, err := v.Validate(validPayload())
	require.NoError(t, err)
	p2, err := v.Validate(validPayload())
	require.NoError(t, err)

	assert.Equal(t, p1.Readings, p2.Readings)
	assert.Equal(t, p1.SyncedAt, p2.SyncedAt)
}

func TestValidateJSON_TimestampFormats(t *testing.T) {
	v := NewValidator()

	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value string
	}{
		{"rfc3339 string", `"2026-08-01T10:00:00Z"`},
		{"epoch millis", fmt.Sprintf("%d", at.UnixMilli())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := fmt.Sprintf(`{
				"deviceId": "watch-1",
				"employeeId": "emp-1",
				"readings": [{"heartRate": 70, "timestamp": %s}]
			}`, tt.value)

			packet, err := v.ValidateJSON([]byte(body))
			require.NoError(t, err)
			assert.True(t, packet.Readings[0].Timestamp.Equal(at))
		})
	}
}

func TestValidateJSON_ClientDurationDiscarded(t *testing.T) {
	v := NewValidator()

	body := `{
		"deviceId": "watch-1",
		"employeeId": "emp-1",
		"duration": 99999,
		"readings": [{"heartRate": 70, "timestamp": "2026-08-01T10:00:00Z"}]
	}`

	packet, err := v.ValidateJSON([]byte(body))
	require.NoError(t, err)
	// Duration is measured server-side, the client value is ignored.
	assert.Less(t, packet.Duration, int64(99999))
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	v := NewValidator()

	_, err := v.ValidateJSON([]byte(`{not json`))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestInstant_UnmarshalRejectsGarbage(t *testing.T) {
	var i Instant
	err := json.Unmarshal([]byte(`"not-a-time"`), &i)
	assert.Error(t, err)
}
