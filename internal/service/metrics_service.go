package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"pulsewatch/internal/domain"
	"pulsewatch/internal/repository"
)

// MetricsService aggregates vitals over a rolling window.
type MetricsService struct {
	store  repository.VitalsStore
	logger *zap.Logger
}

// NewMetricsService creates the aggregator.
func NewMetricsService(store repository.VitalsStore, logger *zap.Logger) *MetricsService {
	return &MetricsService{store: store, logger: logger}
}

// Summary aggregates the employee's readings since the given time. Returns
// (nil, nil) when the window holds no readings. Metrics absent from every
// reading yield nil sub-objects, never zeros.
func (s *MetricsService) Summary(ctx context.Context, employeeID string, since time.Time) (*domain.MetricsSummary, error) {
	employee, err := s.store.FindEmployee(ctx, employeeID)
	if err != nil {
		return nil, domain.NewStoreError("find employee", err)
	}
	if employee == nil {
		return nil, domain.NewNotFoundError(employeeID)
	}

	readings, err := s.store.QueryReadings(ctx, employeeID, since)
	if err != nil {
		return nil, domain.NewStoreError("query readings", err)
	}
	if len(readings) == 0 {
		return nil, nil
	}

	summary := &domain.MetricsSummary{
		Period:        domain.MetricsPeriod{Since: since, Until: time.Now().UTC()},
		TotalReadings: len(readings),
		HeartRate:     heartRateMetrics(readings),
		BloodOxygen:   bloodOxygenMetrics(readings),
		Steps:         stepsMetrics(readings),
		Sleep:         sleepMetrics(readings),
		Stress:        stressMetrics(readings),
	}

	return summary, nil
}

func heartRateMetrics(readings []domain.VitalsReading) *domain.HeartRateMetrics {
	sum, min, max, n := 0, 0, 0, 0
	for _, r := range readings {
		if r.HeartRate == nil {
			continue
		}
		v := *r.HeartRate
		if n == 0 || v < min {
			min = v
		}
		if n == 0 || v > max {
			max = v
		}
		sum += v
		n++
	}
	if n == 0 {
		return nil
	}
	return &domain.HeartRateMetrics{Avg: roundDiv(sum, n), Min: min, Max: max}
}

func bloodOxygenMetrics(readings []domain.VitalsReading) *domain.BloodOxygenMetrics {
	sum, min, max, n := 0, 0, 0, 0
	for _, r := range readings {
		if r.BloodOxygen == nil {
			continue
		}
		v := *r.BloodOxygen
		if n == 0 || v < min {
			min = v
		}
		if n == 0 || v > max {
			max = v
		}
		sum += v
		n++
	}
	if n == 0 {
		return nil
	}
	return &domain.BloodOxygenMetrics{Avg: roundDiv(sum, n), Min: min, Max: max}
}

func stepsMetrics(readings []domain.VitalsReading) *domain.StepsMetrics {
	sum, n := 0, 0
	for _, r := range readings {
		if r.Steps == nil {
			continue
		}
		sum += *r.Steps
		n++
	}
	if n == 0 {
		return nil
	}
	return &domain.StepsMetrics{Total: sum, Avg: roundDiv(sum, n)}
}

func sleepMetrics(readings []domain.VitalsReading) *domain.SleepMetrics {
	var total float64
	n := 0
	qualitySum, qualityN := 0, 0
	for _, r := range readings {
		if r.SleepHours != nil {
			total += *r.SleepHours
			n++
		}
		if r.SleepQuality != nil {
			qualitySum += *r.SleepQuality
			qualityN++
		}
	}
	// Quality alone does not make a sleep section; without hours there is
	// nothing to total or average.
	if n == 0 {
		return nil
	}

	m := &domain.SleepMetrics{
		Total: round1(total),
		Avg:   round1(total / float64(n)),
	}
	if qualityN > 0 {
		avgQ := roundDiv(qualitySum, qualityN)
		m.AvgQuality = &avgQ
	}
	return m
}

func stressMetrics(readings []domain.VitalsReading) *domain.StressMetrics {
	sum, max, n := 0, 0, 0
	for _, r := range readings {
		if r.StressLevel == nil {
			continue
		}
		v := *r.StressLevel
		if n == 0 || v > max {
			max = v
		}
		sum += v
		n++
	}
	if n == 0 {
		return nil
	}
	return &domain.StressMetrics{Avg: roundDiv(sum, n), Max: max}
}

// roundDiv rounds sum/n to the nearest integer.
func roundDiv(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
