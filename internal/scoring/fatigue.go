package scoring

import (
	"math"

	"pulsewatch/internal/domain"
)

// Snapshot is the set of current vitals the risk scores are derived from.
// BloodOxygen only participates in the overall status, not in the fatigue
// score itself.
type Snapshot struct {
	SleepHours   float64
	SleepQuality int
	StressLevel  int
	HeartRate    int
	Steps        int
	BloodOxygen  int
}

// FatigueScore computes the composite 0-100 fatigue index. Additive terms:
// sleep duration (0-30), sleep quality (0-20), stress (0-25), heart rate
// (0-15) and activity (0-10), clamped to [0,100].
func FatigueScore(s Snapshot) int {
	score := 0

	switch {
	case s.SleepHours < 5:
		score += 30
	case s.SleepHours < 6:
		score += 22
	case s.SleepHours < 7:
		score += 12
	default:
		score += 5
	}

	score += int(math.Round(float64(100-s.SleepQuality) * 0.2))
	score += int(math.Round(float64(s.StressLevel) * 0.25))

	switch {
	case s.HeartRate > 100:
		score += 15
	case s.HeartRate > 90:
		score += 10
	case s.HeartRate > 80:
		score += 5
	}

	switch {
	case s.Steps < 2000:
		score += 10
	case s.Steps < 4000:
		score += 6
	case s.Steps < 6000:
		score += 3
	}

	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// Assess computes the full fatigue assessment: score, trend classification
// and contributing-factor labels. Factors are not mutually exclusive.
func Assess(s Snapshot) domain.FatigueAssessment {
	score := FatigueScore(s)

	trend := domain.TrendImproving
	if score > 60 {
		trend = domain.TrendWorsening
	} else if score > 30 {
		trend = domain.TrendStable
	}

	factors := []string{}
	if s.SleepHours < 6 {
		factors = append(factors, "Poor sleep")
	}
	if s.StressLevel > 60 {
		factors = append(factors, "High stress")
	}
	if s.Steps < 4000 {
		factors = append(factors, "Low activity")
	}
	if s.HeartRate > 90 {
		factors = append(factors, "Elevated heart rate")
	}

	return domain.FatigueAssessment{Score: score, Trend: trend, Factors: factors}
}

// BurnoutRisk classifies burnout from the fatigue score and a recent stress
// history: combined = fatigue*0.6 + avgStress*0.4. Monotonic non-decreasing
// in average stress for a fixed fatigue score.
func BurnoutRisk(fatigue int, stressHistory []int) domain.BurnoutRisk {
	if len(stressHistory) == 0 {
		return classifyBurnout(float64(fatigue) * 0.6)
	}

	sum := 0
	for _, s := range stressHistory {
		sum += s
	}
	avgStress := float64(sum) / float64(len(stressHistory))

	return classifyBurnout(float64(fatigue)*0.6 + avgStress*0.4)
}

func classifyBurnout(combined float64) domain.BurnoutRisk {
	switch {
	case combined > 75:
		return domain.RiskCritical
	case combined > 55:
		return domain.RiskHigh
	case combined > 35:
		return domain.RiskModerate
	default:
		return domain.RiskLow
	}
}

// BurnoutScore blends fatigue with the current stress level. Unrounded.
func BurnoutScore(fatigue, currentStress int) float64 {
	return float64(fatigue)*0.5 + float64(currentStress)*0.5
}

// OverallStatus derives the reporting status for a person. Conditions are
// checked in fixed priority order: critical before warning, first match wins.
func OverallStatus(risk domain.BurnoutRisk, s Snapshot) domain.HealthStatus {
	if risk == domain.RiskCritical || s.HeartRate > 100 || s.BloodOxygen < 93 {
		return domain.StatusCritical
	}
	if risk == domain.RiskHigh || s.SleepHours < 5.5 || s.StressLevel > 65 {
		return domain.StatusWarning
	}
	return domain.StatusHealthy
}
