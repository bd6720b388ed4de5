package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pulsewatch/internal/domain"
	"pulsewatch/internal/repository"
)

func newHealthFixture(t *testing.T) (*repository.MemoryStore, *HealthService) {
	t.Helper()
	store := repository.NewMemoryStore()
	store.AddEmployee(domain.Employee{ID: "emp-1", Name: "Dana Reyes", Department: "Platform", WatchConnected: true})
	return store, NewHealthService(store, zap.NewNop())
}

func TestAssessment_ExhaustedEmployee(t *testing.T) {
	store, svc := newHealthFixture(t)
	ctx := context.Background()

	now := time.Now().UTC()
	_, err := store.InsertReadings(ctx, "emp-1", []domain.VitalsReading{
		{
			SleepHours:   floatPtr(4.5),
			SleepQuality: intPtr(30),
			StressLevel:  intPtr(85),
			HeartRate:    intPtr(102),
			Steps:        intPtr(1800),
			BloodOxygen:  intPtr(96),
			Timestamp:    now.Add(-time.Hour),
		},
	})
	require.NoError(t, err)

	a, err := svc.Assessment(ctx, "emp-1")
	require.NoError(t, err)

	assert.Equal(t, 90, a.Fatigue.Score)
	assert.Equal(t, domain.TrendWorsening, a.Fatigue.Trend)
	assert.Contains(t, a.Fatigue.Factors, "Poor sleep")

	// combined = 90*0.6 + 85*0.4 = 88 -> critical
	assert.Equal(t, domain.RiskCritical, a.Burnout.Risk)
	assert.Equal(t, 87.5, a.Burnout.Score) // 90*0.5 + 85*0.5

	assert.Equal(t, domain.StatusCritical, a.Status)
	assert.NotEmpty(t, a.Suggestions)
}

func TestAssessment_LatestValueWinsPerField(t *testing.T) {
	store, svc := newHealthFixture(t)
	ctx := context.Background()

	now := time.Now().UTC()
	_, err := store.InsertReadings(ctx, "emp-1", []domain.VitalsReading{
		{HeartRate: intPtr(130), Timestamp: now.Add(-3 * time.Hour)},
		{HeartRate: intPtr(68), SleepHours: floatPtr(8), Timestamp: now.Add(-time.Hour)},
	})
	require.NoError(t, err)

	a, err := svc.Assessment(ctx, "emp-1")
	require.NoError(t, err)

	// The newer heart rate replaces the older one, so no tachycardia status.
	assert.NotEqual(t, domain.StatusCritical, a.Status)
	assert.NotContains(t, a.Fatigue.Factors, "Elevated heart rate")
}

func TestAssessment_NoReadingsUsesNeutralDefaults(t *testing.T) {
	_, svc := newHealthFixture(t)

	a, err := svc.Assessment(context.Background(), "emp-1")
	require.NoError(t, err)

	// Neutral defaults: sleep 7h, quality 70, stress 40, hr 70, steps 6000.
	// Score = 5 + 6 + 10 + 0 + 0 = 21.
	assert.Equal(t, 21, a.Fatigue.Score)
	assert.Equal(t, domain.TrendImproving, a.Fatigue.Trend)
	assert.Equal(t, domain.StatusHealthy, a.Status)
}

func TestAssessment_UnknownEmployee(t *testing.T) {
	_, svc := newHealthFixture(t)

	_, err := svc.Assessment(context.Background(), "emp-ghost")
	assert.True(t, domain.IsNotFound(err))
}

func TestAssessment_OldReadingsOutsideWindowIgnored(t *testing.T) {
	store, svc := newHealthFixture(t)
	ctx := context.Background()

	_, err := store.InsertReadings(ctx, "emp-1", []domain.VitalsReading{
		{HeartRate: intPtr(150), StressLevel: intPtr(95), Timestamp: time.Now().UTC().Add(-10 * 24 * time.Hour)},
	})
	require.NoError(t, err)

	a, err := svc.Assessment(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusHealthy, a.Status)
}

func TestFleetSummary(t *testing.T) {
	store, svc := newHealthFixture(t)
	ctx := context.Background()

	store.AddEmployee(domain.Employee{ID: "emp-2", Name: "Lee Park", Department: "Platform"})
	store.AddEmployee(domain.Employee{ID: "emp-3", Name: "Sam Osei", Department: "Sales", WatchConnected: true})

	now := time.Now().UTC()
	_, err := store.InsertReadings(ctx, "emp-1", []domain.VitalsReading{
		{SleepHours: floatPtr(8), SleepQuality: intPtr(90), StressLevel: intPtr(20), HeartRate: intPtr(65), Steps: intPtr(9000), BloodOxygen: intPtr(98), Timestamp: now.Add(-time.Hour)},
	})
	require.NoError(t, err)
	_, err = store.InsertReadings(ctx, "emp-3", []domain.VitalsReading{
		{SleepHours: floatPtr(4.5), SleepQuality: intPtr(30), StressLevel: intPtr(85), HeartRate: intPtr(102), Steps: intPtr(1800), BloodOxygen: intPtr(96), Timestamp: now.Add(-time.Hour)},
	})
	require.NoError(t, err)

	require.NoError(t, store.InsertAlerts(ctx, []domain.Alert{
		{ID: "a1", EmployeeID: "emp-3", Severity: domain.SeverityCritical, Timestamp: now},
		{ID: "a2", EmployeeID: "emp-3", Severity: domain.SeverityWarning, Timestamp: now, Acknowledged: true},
	}))

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalEmployees)
	assert.Equal(t, 2, summary.ConnectedWatches)
	assert.Equal(t, 2, summary.Departments)
	assert.Equal(t, 2, summary.EmployeesWithVitals)

	assert.Equal(t, 1, summary.RiskBuckets[domain.RiskLow])
	assert.Equal(t, 1, summary.RiskBuckets[domain.RiskCritical])
	assert.Equal(t, 1, summary.StatusBuckets[domain.StatusHealthy])
	assert.Equal(t, 1, summary.StatusBuckets[domain.StatusCritical])

	assert.Equal(t, 1, summary.ActiveAlerts)
	assert.Equal(t, 1, summary.AcknowledgedAlerts)
	assert.Equal(t, 1, summary.CriticalAlerts)
}
