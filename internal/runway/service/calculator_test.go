package service

import (
	"testing"
	"time"

	cashflowdomain "github.com/smallbiznis/runway/internal/cashflow/domain"
	"github.com/smallbiznis/runway/internal/config"
	ledgerdomain "github.com/smallbiznis/runway/internal/ledger/domain"
	revenuedomain "github.com/smallbiznis/runway/internal/revenue/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_CountsLeadingPositiveMonths(t *testing.T) {
	income := []float64{0, 0, 50, 0, 0}
	costs := []float64{40, 40, 40, 40, 40}

	res := Compute(income, costs, 100, 5)
	require.Len(t, res.Months, 5)

	balances := []float64{60, 20, 30, -10, -50}
	for i, want := range balances {
		assert.InDelta(t, want, res.Months[i].Balance, 1e-9, "month %d", i)
	}
	assert.Equal(t, 3, res.RunwayMonths)
	assert.InDelta(t, -50, res.MinBalance, 1e-9)
	assert.False(t, res.Sufficient)
	assert.True(t, res.HasData)
}

func TestCompute_SteadyBurn(t *testing.T) {
	res := Compute([]float64{20, 20, 20}, []float64{50, 50, 50}, 100, 3)
	require.Len(t, res.Months, 3)
	for i, want := range []float64{70, 40, 10} {
		assert.InDelta(t, want, res.Months[i].Balance, 1e-9, "month %d", i)
	}
	assert.Equal(t, 3, res.RunwayMonths)
	assert.InDelta(t, 10, res.MinBalance, 1e-9)
	assert.True(t, res.Sufficient)

	res = Compute([]float64{20, 20, 20, 0}, []float64{50, 50, 50, 50}, 100, 4)
	require.Len(t, res.Months, 4)
	assert.InDelta(t, -40, res.Months[3].Balance, 1e-9)
	assert.Equal(t, 3, res.RunwayMonths)
	assert.InDelta(t, -40, res.MinBalance, 1e-9)
	assert.False(t, res.Sufficient)
}

func TestCompute_StopsAtFirstNonPositiveBalance(t *testing.T) {
	res := Compute([]float64{0, 100, 0}, []float64{100, 0, 0}, 100, 3)
	assert.Equal(t, 0, res.RunwayMonths)
	assert.InDelta(t, 0, res.MinBalance, 1e-9)
}

func TestCompute_CappedAtHorizon(t *testing.T) {
	income := make([]float64, 24)
	costs := make([]float64, 24)
	res := Compute(income, costs, 10, 12)
	assert.Len(t, res.Months, 12)
	assert.Equal(t, 12, res.RunwayMonths)
	assert.True(t, res.Sufficient)
}

func TestCompute_NoData(t *testing.T) {
	res := Compute(nil, nil, 100, 12)
	assert.Equal(t, 0, res.RunwayMonths)
	assert.InDelta(t, 100, res.MinBalance, 1e-9)
	assert.Empty(t, res.Months)
	assert.False(t, res.HasData)
}

func TestBuild_ComposesSeries(t *testing.T) {
	from := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	delivery := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	laborStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	in := BuildInput{
		From:        from,
		MonthsAhead: 3,
		InitialCash: 100,
		Entries: []cashflowdomain.Entry{
			{RecordID: "a", Amount: 50, Month: "2025-01"},
			{RecordID: "a", Amount: 40, Month: "2025-03"},
			{RecordID: "a", Amount: 10, Month: ""},
		},
		Projects: []cashflowdomain.ProjectAmount{{
			Project:     revenuedomain.Project{RecordID: "a", BusinessLine: "配液设备", DeliveryDate: &delivery},
			FinalAmount: 100,
		}},
		Ledger: ledgerdomain.Snapshot{
			Labor:    []ledgerdomain.LaborCost{{Amount: 10, Frequency: ledgerdomain.FrequencyMonthly, StartDate: &laborStart}},
			Overhead: []ledgerdomain.OverheadCost{{MonthlyAmount: 5}},
			OneOff: []ledgerdomain.OneOffItem{
				{Kind: ledgerdomain.OneOffIncome, Amount: 7, OccurredAt: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)},
				{Kind: ledgerdomain.OneOffExpense, Amount: 2, OccurredAt: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
			},
		},
		Cost: config.DefaultEngineConfig().Cost,
	}

	res := Build(in)
	require.Len(t, res.Months, 3)

	jan, feb, mar := res.Months[0], res.Months[1], res.Months[2]
	assert.Equal(t, "2025-01", jan.Month)
	assert.InDelta(t, 50, jan.SalesIncome, 1e-9)
	assert.InDelta(t, 6.5, jan.Tax, 1e-9)
	assert.InDelta(t, 10, jan.Labor, 1e-9)
	assert.InDelta(t, 5, jan.Overhead, 1e-9)
	assert.InDelta(t, 21.5, jan.TotalCost, 1e-9)
	assert.InDelta(t, 128.5, jan.Balance, 1e-9)

	assert.InDelta(t, 35, feb.Material, 1e-9)
	assert.InDelta(t, 7, feb.OneOffIncome, 1e-9)
	assert.InDelta(t, 7, feb.TotalIncome, 1e-9)
	assert.InDelta(t, 50, feb.TotalCost, 1e-9)

	assert.InDelta(t, 5.2, mar.Tax, 1e-9)
	assert.InDelta(t, 2, mar.OneOffExpense, 1e-9)
	assert.InDelta(t, 40, mar.TotalIncome, 1e-9)
	assert.InDelta(t, 22.2, mar.TotalCost, 1e-9)
	assert.InDelta(t, 103.3, mar.Balance, 1e-9)
	assert.Equal(t, 3, res.RunwayMonths)
}

func TestBuild_NoEntriesMeansNoData(t *testing.T) {
	res := Build(BuildInput{
		From:        time.Now(),
		MonthsAhead: 12,
		InitialCash: 42,
		Ledger:      ledgerdomain.Snapshot{Overhead: []ledgerdomain.OverheadCost{{MonthlyAmount: 5}}},
	})
	assert.Equal(t, 0, res.RunwayMonths)
	assert.InDelta(t, 42, res.MinBalance, 1e-9)
	assert.Empty(t, res.Months)
}
