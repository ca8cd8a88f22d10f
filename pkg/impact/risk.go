// Package impact implements the CodeLens blast-radius engine: risk
// classification, dependent traversal, and per-file importance metrics over
// a single graph build.
package impact

// RiskLevel classifies a file's blast radius from its dependent count.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Fixed classification thresholds. Calibration changes are a constant edit,
// never a per-call parameter.
const (
	criticalThreshold = 30
	highThreshold     = 15
	mediumThreshold   = 5
)

// RiskFromDependents maps a dependent count to a risk tier. Total over all
// non-negative counts and monotonic: a higher count never yields a lower tier.
func RiskFromDependents(count int) RiskLevel {
	switch {
	case count >= criticalThreshold:
		return RiskCritical
	case count >= highThreshold:
		return RiskHigh
	case count >= mediumThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// riskRank orders tiers for max-reduction: low < medium < high < critical.
func riskRank(r RiskLevel) int {
	switch r {
	case RiskCritical:
		return 3
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

// MaxRisk returns the higher of two risk tiers.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if riskRank(b) > riskRank(a) {
		return b
	}
	return a
}
