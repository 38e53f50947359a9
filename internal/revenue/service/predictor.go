package service

import (
	"math"
	"time"

	"github.com/smallbiznis/runway/internal/money"
	revenuedomain "github.com/smallbiznis/runway/internal/revenue/domain"
)

const daysPerDecayMonth = 30.0

// MilestoneDate picks expected completion, then delivery, then start.
func MilestoneDate(p revenuedomain.Project) *time.Time {
	switch {
	case p.ExpectedCompletion != nil:
		return p.ExpectedCompletion
	case p.DeliveryDate != nil:
		return p.DeliveryDate
	default:
		return p.StartDate
	}
}

// ReferenceDate shifts now by the configured offset in days.
func ReferenceDate(now time.Time, offsetDays int) time.Time {
	return now.AddDate(0, 0, offsetDays)
}

// DecayFactor returns exp(-lambda * months until milestone). Past milestones,
// a missing milestone or a non-positive lambda give 1.
func DecayFactor(milestone *time.Time, reference time.Time, lambda float64) float64 {
	if milestone == nil || lambda <= 0 {
		return 1
	}
	days := math.Floor(milestone.Sub(reference).Hours() / 24)
	if days <= 0 {
		return 1
	}
	return math.Exp(-lambda * days / daysPerDecayMonth)
}

// Predict returns contract × probability/100 × decay rounded to two places.
// Invalid probability or contract amount contributes 0.
func Predict(contractAmount, winProbabilityPct float64, milestone *time.Time, reference time.Time, lambda float64) float64 {
	if math.IsNaN(contractAmount) || contractAmount <= 0 {
		return 0
	}
	if math.IsNaN(winProbabilityPct) || winProbabilityPct < 0 || winProbabilityPct > 100 {
		return 0
	}
	factor := DecayFactor(milestone, reference, lambda)
	return money.Round2(contractAmount * winProbabilityPct / 100 * factor)
}
