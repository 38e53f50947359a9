package service

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/smallbiznis/runway/internal/money"
	revenuedomain "github.com/smallbiznis/runway/internal/revenue/domain"
)

// LatestOverrides indexes the most recent override per record id.
type LatestOverrides map[string]revenuedomain.Override

// ReduceOverrides keeps, per record, the override with the greatest UpdatedAt
// among those carrying an amount. Ties go to the later entry in the input.
func ReduceOverrides(overrides []revenuedomain.Override) LatestOverrides {
	latest := make(LatestOverrides, len(overrides))
	for _, o := range overrides {
		id := strings.TrimSpace(o.RecordID)
		if id == "" || o.Amount == nil || math.IsNaN(*o.Amount) {
			continue
		}
		current, ok := latest[id]
		if !ok || !o.UpdatedAt.Before(current.UpdatedAt) {
			o.RecordID = id
			latest[id] = o
		}
	}
	return latest
}

// Amount returns the latest override amount for a record, if any.
func (l LatestOverrides) Amount(recordID string) (float64, bool) {
	o, ok := l[recordID]
	if !ok || o.Amount == nil || math.IsNaN(*o.Amount) {
		return 0, false
	}
	return *o.Amount, true
}

// Resolve computes the final amount used by every downstream consumer.
// The latest override wins; otherwise the decayed prediction is used. The
// final amount is never negative, whatever the override source holds.
func Resolve(p revenuedomain.Project, overrides LatestOverrides, params revenuedomain.DecayParams, now time.Time) revenuedomain.Resolution {
	reference := ReferenceDate(now, params.BaseDateOffsetDays)
	milestone := MilestoneDate(p)
	factor := DecayFactor(milestone, reference, params.Lambda)
	predicted := Predict(p.ContractAmount, p.WinProbability, milestone, reference, params.Lambda)

	res := revenuedomain.Resolution{
		RecordID:        p.RecordID,
		PredictedAmount: predicted,
		DecayFactor:     factor,
	}

	switch {
	case hasOverride(overrides, p):
		amount, _ := overrides.Amount(p.RecordID)
		res.FinalAmount = money.NonNegative(money.Round2(amount))
		res.Source = revenuedomain.SourceOverride
	case p.ManualOverride != nil && !math.IsNaN(*p.ManualOverride):
		res.FinalAmount = money.NonNegative(money.Round2(*p.ManualOverride))
		res.Source = revenuedomain.SourceOverride
	case predicted > 0:
		res.FinalAmount = predicted
		res.Source = revenuedomain.SourcePrediction
	default:
		res.Source = revenuedomain.SourceAbsent
	}

	res.IncomeVariance = IncomeVariance(p, res.FinalAmount)
	return res
}

// ResolveAmount is Resolve reduced to the final amount.
func ResolveAmount(p revenuedomain.Project, overrides LatestOverrides, params revenuedomain.DecayParams, now time.Time) float64 {
	return Resolve(p, overrides, params, now).FinalAmount
}

// IncomeVariance compares the final amount against the undecayed
// probability-weighted contract amount.
func IncomeVariance(p revenuedomain.Project, finalAmount float64) float64 {
	expected := 0.0
	if p.ContractAmount > 0 && p.HasValidProbability() {
		expected = p.ContractAmount * p.WinProbability / 100
	}
	return money.Round2(finalAmount - expected)
}

// StaleOverrides lists override record ids that match no known project.
func StaleOverrides(projects []revenuedomain.Project, overrides LatestOverrides) []string {
	known := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		known[p.RecordID] = struct{}{}
	}
	stale := make([]string, 0)
	for id := range overrides {
		if _, ok := known[id]; !ok {
			stale = append(stale, id)
		}
	}
	sort.Strings(stale)
	return stale
}

func hasOverride(overrides LatestOverrides, p revenuedomain.Project) bool {
	if p.RecordID == "" || overrides == nil {
		return false
	}
	_, ok := overrides.Amount(p.RecordID)
	return ok
}
