package scoring

import "pulsewatch/internal/domain"

// Suggestions produces the wellness coaching strings shown alongside an
// assessment. Fixed catalog, evaluated top-to-bottom; the closing pair is
// the fallback when nothing else fires.
func Suggestions(s Snapshot, fatigue domain.FatigueAssessment, burnout domain.BurnoutAssessment) []string {
	suggestions := []string{}

	if s.SleepHours < 6 {
		suggestions = append(suggestions, "Aim for at least 7-8 hours of sleep. Consider setting a consistent bedtime routine.")
	}
	if s.StressLevel > 70 {
		suggestions = append(suggestions, "High stress detected. Try 10 minutes of deep breathing or a short walk.")
	}
	if s.HeartRate > 95 {
		suggestions = append(suggestions, "Elevated resting heart rate. Consider reducing caffeine and taking regular breaks.")
	}
	if s.Steps < 4000 {
		suggestions = append(suggestions, "Low physical activity today. A 15-minute walk can significantly improve energy levels.")
	}
	if s.BloodOxygen < 95 {
		suggestions = append(suggestions, "Blood oxygen is slightly low. Ensure good ventilation and practice deep breathing exercises.")
	}
	if fatigue.Score > 60 {
		suggestions = append(suggestions, "Fatigue level is high. Take a 20-minute power nap if possible, or switch to lighter tasks.")
	}
	if burnout.Risk == domain.RiskHigh || burnout.Risk == domain.RiskCritical {
		suggestions = append(suggestions, "Burnout risk is elevated. Consider scheduling time off or speaking with a wellness counselor.")
	}
	if s.SleepQuality < 50 {
		suggestions = append(suggestions, "Sleep quality is poor. Avoid screens 1 hour before bed and keep your bedroom cool and dark.")
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions,
			"Great health metrics! Keep maintaining your current healthy habits.",
			"Stay hydrated throughout the day and continue your regular exercise routine.",
		)
	}

	return suggestions
}
