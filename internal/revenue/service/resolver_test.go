package service

import (
	"testing"
	"time"

	revenuedomain "github.com/smallbiznis/runway/internal/revenue/domain"
	"github.com/stretchr/testify/assert"
)

func amount(v float64) *float64 { return &v }

var params = revenuedomain.DecayParams{Lambda: 0.0315}

func TestResolve_LatestOverrideWins(t *testing.T) {
	p := revenuedomain.Project{RecordID: "rec1", ContractAmount: 100, WinProbability: 80}
	overrides := ReduceOverrides([]revenuedomain.Override{
		{RecordID: "rec1", Amount: amount(40), UpdatedAt: now.Add(-2 * time.Hour)},
		{RecordID: "rec1", Amount: amount(55.555), UpdatedAt: now.Add(-time.Hour)},
		{RecordID: "rec1", Amount: amount(10), UpdatedAt: now.Add(-3 * time.Hour)},
	})

	res := Resolve(p, overrides, params, now)
	assert.Equal(t, 55.56, res.FinalAmount)
	assert.Equal(t, revenuedomain.SourceOverride, res.Source)
	assert.Equal(t, 80.0, res.PredictedAmount)
}

func TestResolve_NullOverrideIsIgnored(t *testing.T) {
	p := revenuedomain.Project{RecordID: "rec1", ContractAmount: 100, WinProbability: 50}
	overrides := ReduceOverrides([]revenuedomain.Override{
		{RecordID: "rec1", Amount: amount(70), UpdatedAt: now.Add(-2 * time.Hour)},
		{RecordID: "rec1", Amount: nil, UpdatedAt: now.Add(-time.Hour)},
	})
	assert.Equal(t, 70.0, ResolveAmount(p, overrides, params, now))

	onlyNull := ReduceOverrides([]revenuedomain.Override{{RecordID: "rec1", UpdatedAt: now}})
	assert.Equal(t, 50.0, ResolveAmount(p, onlyNull, params, now))
}

func TestResolve_RowOverrideUsedWithoutOverrideRecords(t *testing.T) {
	p := revenuedomain.Project{RecordID: "rec1", ContractAmount: 100, WinProbability: 50, ManualOverride: amount(12.345)}
	res := Resolve(p, nil, params, now)
	assert.Equal(t, 12.35, res.FinalAmount)
	assert.Equal(t, revenuedomain.SourceOverride, res.Source)
}

func TestResolve_AbsentDataDefaultsToZero(t *testing.T) {
	p := revenuedomain.Project{RecordID: "rec1", ContractAmount: 0, WinProbability: 80}
	res := Resolve(p, LatestOverrides{}, params, now)
	assert.Equal(t, 0.0, res.FinalAmount)
	assert.Equal(t, revenuedomain.SourceAbsent, res.Source)
}

func TestResolve_IncomeVariance(t *testing.T) {
	p := revenuedomain.Project{RecordID: "rec1", ContractAmount: 100, WinProbability: 80}
	overrides := ReduceOverrides([]revenuedomain.Override{{RecordID: "rec1", Amount: amount(90), UpdatedAt: now}})
	assert.Equal(t, 10.0, Resolve(p, overrides, params, now).IncomeVariance)
}

func TestReduceOverrides_TieKeepsLaterEntry(t *testing.T) {
	latest := ReduceOverrides([]revenuedomain.Override{
		{RecordID: "rec1", Amount: amount(1), UpdatedAt: now},
		{RecordID: "rec1", Amount: amount(2), UpdatedAt: now},
		{RecordID: " ", Amount: amount(3), UpdatedAt: now},
	})
	assert.Len(t, latest, 1)
	got, ok := latest.Amount("rec1")
	assert.True(t, ok)
	assert.Equal(t, 2.0, got)
}

func TestStaleOverrides(t *testing.T) {
	projects := []revenuedomain.Project{{RecordID: "rec1"}}
	overrides := ReduceOverrides([]revenuedomain.Override{
		{RecordID: "rec1", Amount: amount(1), UpdatedAt: now},
		{RecordID: "zzz", Amount: amount(1), UpdatedAt: now},
		{RecordID: "gone", Amount: amount(1), UpdatedAt: now},
	})
	assert.Equal(t, []string{"gone", "zzz"}, StaleOverrides(projects, overrides))
}

func TestResolve_NegativeOverridesClampToZero(t *testing.T) {
	p := revenuedomain.Project{RecordID: "rec1", ContractAmount: 100, WinProbability: 50}
	stored := ReduceOverrides([]revenuedomain.Override{{RecordID: "rec1", Amount: amount(-10), UpdatedAt: now}})

	res := Resolve(p, stored, params, now)
	assert.Equal(t, revenuedomain.SourceOverride, res.Source)
	assert.GreaterOrEqual(t, res.FinalAmount, 0.0)
	assert.Zero(t, res.FinalAmount)

	p.ManualOverride = amount(-25)
	res = Resolve(p, nil, params, now)
	assert.GreaterOrEqual(t, res.FinalAmount, 0.0)
	assert.Zero(t, res.FinalAmount)
	assert.Equal(t, -50.0, res.IncomeVariance)
}

