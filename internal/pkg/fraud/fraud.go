// Package fraud holds the pure half of the anomaly engine: cohort
// statistics, severity classification and the sanction escalation rule.
// The DB-facing orchestration lives in services.ServiceFraud.
package fraud

import (
	"sort"

	"vibeos/internal/models"
)

// Thresholds are the tunable boundaries for the three anomaly signals.
// Each triple is ordered low <= medium <= high.
type Thresholds struct {
	// Daily earn total as a multiple of the cohort median.
	RatioLow    float64
	RatioMedium float64
	RatioHigh   float64

	// Earn transactions inside the rolling velocity window.
	BurstLow    int
	BurstMedium int
	BurstHigh   int

	// Distinct accounts sharing one device fingerprint.
	DeviceLow    int
	DeviceMedium int
	DeviceHigh   int
}

// DefaultThresholds returns the production boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RatioLow:    3,
		RatioMedium: 5,
		RatioHigh:   10,

		BurstLow:    25,
		BurstMedium: 40,
		BurstHigh:   60,

		DeviceLow:    2,
		DeviceMedium: 3,
		DeviceHigh:   5,
	}
}

// Median computes the cohort median with the average-of-two-middles
// convention for even counts. An empty cohort has median 0.
func Median(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

// ClassifyDailyOutlier rates a user's daily earn total against the
// cohort median. A zero median only flags when the user earned anything
// at all, and then at most low: a cohort of idle users is not evidence.
func (t Thresholds) ClassifyDailyOutlier(total int64, cohortMedian float64) models.FraudSeverity {
	if total <= 0 {
		return models.SeverityNone
	}
	if cohortMedian <= 0 {
		return models.SeverityLow
	}
	ratio := float64(total) / cohortMedian
	switch {
	case ratio >= t.RatioHigh:
		return models.SeverityHigh
	case ratio >= t.RatioMedium:
		return models.SeverityMedium
	case ratio >= t.RatioLow:
		return models.SeverityLow
	default:
		return models.SeverityNone
	}
}

// ClassifyVelocity rates the count of earn transactions observed inside
// the rolling window.
func (t Thresholds) ClassifyVelocity(earnCount int) models.FraudSeverity {
	switch {
	case earnCount >= t.BurstHigh:
		return models.SeverityHigh
	case earnCount >= t.BurstMedium:
		return models.SeverityMedium
	case earnCount >= t.BurstLow:
		return models.SeverityLow
	default:
		return models.SeverityNone
	}
}

// ClassifyDeviceOverlap rates how many distinct accounts transacted with
// the same device fingerprint. One account is normal.
func (t Thresholds) ClassifyDeviceOverlap(accounts int) models.FraudSeverity {
	switch {
	case accounts >= t.DeviceHigh:
		return models.SeverityHigh
	case accounts >= t.DeviceMedium:
		return models.SeverityMedium
	case accounts >= t.DeviceLow:
		return models.SeverityLow
	default:
		return models.SeverityNone
	}
}

// Worst returns the highest severity among the results.
func Worst(severities ...models.FraudSeverity) models.FraudSeverity {
	worst := models.SeverityNone
	for _, s := range severities {
		if s.Rank() > worst.Rank() {
			worst = s
		}
	}
	return worst
}

// highFlagCount is the flag total past which sanctions jump a step:
// bans need both high severity and more than this many flags.
const highFlagCount = 5

// reviewFlagCount is where medium severity starts mattering and high
// severity stops stopping at review.
const reviewFlagCount = 3

// DecideSanction maps the accumulated flag count (including the current
// check) and the current severity to a sanction. The escalation is
// monotone in both inputs: a higher severity or more flags never yields
// a softer action.
func DecideSanction(fraudFlags int, severity models.FraudSeverity) models.SanctionAction {
	switch severity {
	case models.SeverityHigh:
		switch {
		case fraudFlags > highFlagCount:
			return models.SanctionBan
		case fraudFlags >= reviewFlagCount:
			return models.SanctionSuspension
		default:
			return models.SanctionReview
		}
	case models.SeverityMedium:
		switch {
		case fraudFlags > highFlagCount:
			return models.SanctionSuspension
		case fraudFlags >= reviewFlagCount:
			return models.SanctionReview
		default:
			return models.SanctionNone
		}
	case models.SeverityLow:
		if fraudFlags > highFlagCount {
			return models.SanctionReview
		}
		return models.SanctionNone
	default:
		return models.SanctionNone
	}
}
