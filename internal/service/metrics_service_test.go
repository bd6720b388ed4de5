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

func floatPtr(v float64) *float64 {
	return &v
}

func newMetricsFixture(t *testing.T) (*repository.MemoryStore, *MetricsService) {
	t.Helper()
	store := repository.NewMemoryStore()
	store.AddEmployee(domain.Employee{ID: "emp-1", Name: "Dana Reyes"})
	return store, NewMetricsService(store, zap.NewNop())
}

func TestSummary_Aggregates(t *testing.T) {
	store, svc := newMetricsFixture(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	_, err := store.InsertReadings(ctx, "emp-1", []domain.VitalsReading{
		{
			HeartRate:    intPtr(60),
			BloodOxygen:  intPtr(96),
			Steps:        intPtr(4000),
			SleepHours:   floatPtr(6.5),
			SleepQuality: intPtr(70),
			StressLevel:  intPtr(30),
			Timestamp:    base,
		},
		{
			HeartRate:   intPtr(81),
			BloodOxygen: intPtr(99),
			Steps:       intPtr(6000),
			SleepHours:  floatPtr(7.2),
			StressLevel: intPtr(55),
			Timestamp:   base.Add(10 * time.Minute),
		},
	})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, "emp-1", base.Add(-time.Minute))
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, 2, summary.TotalReadings)

	require.NotNil(t, summary.HeartRate)
	assert.Equal(t, 71, summary.HeartRate.Avg) // round(141/2) = 71
	assert.Equal(t, 60, summary.HeartRate.Min)
	assert.Equal(t, 81, summary.HeartRate.Max)

	require.NotNil(t, summary.BloodOxygen)
	assert.Equal(t, 98, summary.BloodOxygen.Avg) // round(195/2) = 98

	require.NotNil(t, summary.Steps)
	assert.Equal(t, 10000, summary.Steps.Total)
	assert.Equal(t, 5000, summary.Steps.Avg)

	require.NotNil(t, summary.Sleep)
	assert.Equal(t, 13.7, summary.Sleep.Total)
	assert.Equal(t, 6.9, summary.Sleep.Avg) // round1(6.85) = 6.9
	require.NotNil(t, summary.Sleep.AvgQuality)
	assert.Equal(t, 70, *summary.Sleep.AvgQuality) // only one reading carries quality

	require.NotNil(t, summary.Stress)
	assert.Equal(t, 43, summary.Stress.Avg) // round(85/2) = 43
	assert.Equal(t, 55, summary.Stress.Max)
}

func TestSummary_AbsentMetricsAreNil(t *testing.T) {
	store, svc := newMetricsFixture(t)
	ctx := context.Background()

	_, err := store.InsertReadings(ctx, "emp-1", []domain.VitalsReading{
		{HeartRate: intPtr(70), Timestamp: time.Now().UTC()},
	})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, "emp-1", time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.NotNil(t, summary.HeartRate)
	assert.Nil(t, summary.BloodOxygen)
	assert.Nil(t, summary.Steps)
	assert.Nil(t, summary.Sleep)
	assert.Nil(t, summary.Stress)
}

func TestSummary_QualityWithoutHoursYieldsNilSleep(t *testing.T) {
	store, svc := newMetricsFixture(t)
	ctx := context.Background()

	// Quality readings alone carry nothing to total or average.
	_, err := store.InsertReadings(ctx, "emp-1", []domain.VitalsReading{
		{SleepQuality: intPtr(65), Timestamp: time.Now().UTC()},
	})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, "emp-1", time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Nil(t, summary.Sleep)
}

func TestSummary_EmptyWindowIsNil(t *testing.T) {
	_, svc := newMetricsFixture(t)

	summary, err := svc.Summary(context.Background(), "emp-1", time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestSummary_UnknownEmployee(t *testing.T) {
	_, svc := newMetricsFixture(t)

	_, err := svc.Summary(context.Background(), "emp-ghost", time.Time{})
	assert.True(t, domain.IsNotFound(err))
}

func TestSummary_ReadingsOutsideWindowExcluded(t *testing.T) {
	store, svc := newMetricsFixture(t)
	ctx := context.Background()

	now := time.Now().UTC()
	_, err := store.InsertReadings(ctx, "emp-1", []domain.VitalsReading{
		{HeartRate: intPtr(70), Timestamp: now.Add(-48 * time.Hour)},
		{HeartRate: intPtr(90), Timestamp: now},
	})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, "emp-1", now.Add(-time.Hour))
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.TotalReadings)
	assert.Equal(t, 90, summary.HeartRate.Avg)
}
