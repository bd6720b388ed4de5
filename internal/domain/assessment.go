package domain

// FatigueTrend classification derived from the fatigue score.
type FatigueTrend string

const (
	TrendImproving FatigueTrend = "improving"
	TrendStable    FatigueTrend = "stable"
	TrendWorsening FatigueTrend = "worsening"
)

// BurnoutRisk four-level classification.
type BurnoutRisk string

const (
	RiskLow      BurnoutRisk = "low"
	RiskModerate BurnoutRisk = "moderate"
	RiskHigh     BurnoutRisk = "high"
	RiskCritical BurnoutRisk = "critical"
)

// HealthStatus overall per-person status used by reporting.
type HealthStatus string

const (
	StatusHealthy  HealthStatus = "healthy"
	StatusWarning  HealthStatus = "warning"
	StatusCritical HealthStatus = "critical"
)

// FatigueAssessment is recomputed fresh from current vitals on every request.
// Factors are contributing-cause labels; order is not significant.
type FatigueAssessment struct {
	Score   int          `json:"score"` // 0-100
	Trend   FatigueTrend `json:"trend"`
	Factors []string     `json:"factors"`
}

// BurnoutAssessment blends the fatigue score with stress.
type BurnoutAssessment struct {
	Score float64     `json:"score"` // fatigue*0.5 + stress*0.5, not rounded
	Risk  BurnoutRisk `json:"risk"`
}
