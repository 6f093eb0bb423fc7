package matcher

import "github.com/rohitsadhu1947/arabiasanctions/screening/internal/screeningtypes"

// riskThresholds is the classification ladder from spec.md §4.5: the
// first threshold the highest combined score meets or exceeds, checked
// from the top down, wins.
var riskThresholds = []struct {
	level     screeningtypes.RiskLevel
	threshold float64
}{
	{screeningtypes.RiskCritical, 0.95},
	{screeningtypes.RiskHigh, 0.85},
	{screeningtypes.RiskMedium, 0.70},
	{screeningtypes.RiskLow, 0},
}

// classifyRisk maps a highest combined score to a RiskLevel.
func classifyRisk(highestScore float64) screeningtypes.RiskLevel {
	for _, rt := range riskThresholds {
		if highestScore >= rt.threshold {
			return rt.level
		}
	}
	return screeningtypes.RiskLow
}

// deriveOutcome decides OverallStatus/AutoReleased from the highest
// combined score, independent of classifyRisk's fixed band ladder.
// Escalation is driven solely by the configurable high_risk_threshold
// (spec.md §4.5, default 0.90), not by the RiskLevel: the risk band and
// the escalation cutoff are separate knobs and must not be conflated.
func deriveOutcome(matchCount int, highestScore float64, highRiskThreshold float64) (screeningtypes.OverallStatus, bool) {
	if matchCount == 0 {
		return screeningtypes.StatusReleased, true
	}
	switch {
	case highestScore >= highRiskThreshold:
		return screeningtypes.StatusEscalated, false
	default:
		return screeningtypes.StatusPendingReview, false
	}
}
