package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pulsewatch/internal/domain"
	"pulsewatch/internal/repository"
	"pulsewatch/internal/scoring"
)

// assessmentWindow is the history window assessments are derived from.
const assessmentWindow = 7 * 24 * time.Hour

// Neutral defaults used when a vital was never reported in the window, so a
// sparse history does not read as pathological.
const (
	defaultSleepHours   = 7.0
	defaultSleepQuality = 70
	defaultStressLevel  = 40
	defaultHeartRate    = 70
	defaultSteps        = 6000
	defaultBloodOxygen  = 98
)

// HealthAssessment is the full per-employee risk picture, recomputed from
// current vitals on every request.
type HealthAssessment struct {
	EmployeeID  string                   `json:"employeeId"`
	Fatigue     domain.FatigueAssessment `json:"fatigue"`
	Burnout     domain.BurnoutAssessment `json:"burnout"`
	Status      domain.HealthStatus      `json:"status"`
	Suggestions []string                 `json:"suggestions"`
	GeneratedAt time.Time                `json:"generatedAt"`
}

// FleetSummary is the aggregate view across all employees.
type FleetSummary struct {
	TotalEmployees      int                         `json:"totalEmployees"`
	ConnectedWatches    int                         `json:"connectedWatches"`
	Departments         int                         `json:"departments"`
	RiskBuckets         map[domain.BurnoutRisk]int  `json:"riskBuckets"`
	StatusBuckets       map[domain.HealthStatus]int `json:"statusBuckets"`
	ActiveAlerts        int                         `json:"activeAlerts"`
	AcknowledgedAlerts  int                         `json:"acknowledgedAlerts"`
	CriticalAlerts      int                         `json:"criticalAlerts"`
	EmployeesWithVitals int                         `json:"employeesWithVitals"`
}

// HealthService computes fatigue, burnout and status assessments on top of
// the stored vitals history.
type HealthService struct {
	store  repository.VitalsStore
	logger *zap.Logger
}

// NewHealthService creates the assessor.
func NewHealthService(store repository.VitalsStore, logger *zap.Logger) *HealthService {
	return &HealthService{store: store, logger: logger}
}

// Assessment builds the employee's current risk picture from the last seven
// days of readings. The latest non-nil value per vital forms the snapshot;
// vitals never reported fall back to neutral defaults.
func (s *HealthService) Assessment(ctx context.Context, employeeID string) (*HealthAssessment, error) {
	employee, err := s.store.FindEmployee(ctx, employeeID)
	if err != nil {
		return nil, domain.NewStoreError("find employee", err)
	}
	if employee == nil {
		return nil, domain.NewNotFoundError(employeeID)
	}

	since := time.Now().UTC().Add(-assessmentWindow)
	readings, err := s.store.QueryReadings(ctx, employeeID, since)
	if err != nil {
		return nil, domain.NewStoreError("query readings", err)
	}

	snapshot, stressHistory := buildSnapshot(readings)

	fatigue := scoring.Assess(snapshot)
	risk := scoring.BurnoutRisk(fatigue.Score, stressHistory)
	burnout := domain.BurnoutAssessment{
		Score: scoring.BurnoutScore(fatigue.Score, snapshot.StressLevel),
		Risk:  risk,
	}
	status := scoring.OverallStatus(risk, snapshot)

	return &HealthAssessment{
		EmployeeID:  employeeID,
		Fatigue:     fatigue,
		Burnout:     burnout,
		Status:      status,
		Suggestions: scoring.Suggestions(snapshot, fatigue, burnout),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Summary aggregates the whole fleet: connectivity, departments, per-risk and
// per-status buckets, and alert counts.
func (s *HealthService) Summary(ctx context.Context) (*FleetSummary, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, domain.NewStoreError("list employees", err)
	}

	summary := &FleetSummary{
		TotalEmployees: len(employees),
		RiskBuckets:    map[domain.BurnoutRisk]int{},
		StatusBuckets:  map[domain.HealthStatus]int{},
	}

	departments := map[string]struct{}{}
	since := time.Now().UTC().Add(-assessmentWindow)

	for _, emp := range employees {
		if emp.WatchConnected {
			summary.ConnectedWatches++
		}
		if emp.Department != "" {
			departments[emp.Department] = struct{}{}
		}

		readings, err := s.store.QueryReadings(ctx, emp.ID, since)
		if err != nil {
			return nil, domain.NewStoreError("query readings", err)
		}
		if len(readings) == 0 {
			continue
		}
		summary.EmployeesWithVitals++

		snapshot, stressHistory := buildSnapshot(readings)
		fatigue := scoring.FatigueScore(snapshot)
		risk := scoring.BurnoutRisk(fatigue, stressHistory)
		summary.RiskBuckets[risk]++
		summary.StatusBuckets[scoring.OverallStatus(risk, snapshot)]++
	}
	summary.Departments = len(departments)

	alerts, err := s.store.ListAlerts(ctx, repository.AlertFilters{})
	if err != nil {
		return nil, domain.NewStoreError("list alerts", err)
	}
	for _, alert := range alerts {
		if alert.Acknowledged {
			summary.AcknowledgedAlerts++
		} else {
			summary.ActiveAlerts++
		}
		if alert.Severity == domain.SeverityCritical {
			summary.CriticalAlerts++
		}
	}

	return summary, nil
}

// buildSnapshot folds a reading history into the scoring snapshot. Readings
// are expected newest-last or newest-first; the latest timestamped non-nil
// value wins per field. Also returns the stress history for burnout.
func buildSnapshot(readings []domain.VitalsReading) (scoring.Snapshot, []int) {
	snapshot := scoring.Snapshot{
		SleepHours:   defaultSleepHours,
		SleepQuality: defaultSleepQuality,
		StressLevel:  defaultStressLevel,
		HeartRate:    defaultHeartRate,
		Steps:        defaultSteps,
		BloodOxygen:  defaultBloodOxygen,
	}

	var (
		sleepAt, qualityAt, stressAt, hrAt, stepsAt, spo2At time.Time
		stressHistory                                       []int
	)

	for _, r := range readings {
		if r.SleepHours != nil && r.Timestamp.After(sleepAt) {
			snapshot.SleepHours = *r.SleepHours
			sleepAt = r.Timestamp
		}
		if r.SleepQuality != nil && r.Timestamp.After(qualityAt) {
			snapshot.SleepQuality = *r.SleepQuality
			qualityAt = r.Timestamp
		}
		if r.StressLevel != nil {
			stressHistory = append(stressHistory, *r.StressLevel)
			if r.Timestamp.After(stressAt) {
				snapshot.StressLevel = *r.StressLevel
				stressAt = r.Timestamp
			}
		}
		if r.HeartRate != nil && r.Timestamp.After(hrAt) {
			snapshot.HeartRate = *r.HeartRate
			hrAt = r.Timestamp
		}
		if r.Steps != nil && r.Timestamp.After(stepsAt) {
			snapshot.Steps = *r.Steps
			stepsAt = r.Timestamp
		}
		if r.BloodOxygen != nil && r.Timestamp.After(spo2At) {
			snapshot.BloodOxygen = *r.BloodOxygen
			spo2At = r.Timestamp
		}
	}

	return snapshot, stressHistory
}
