package service

import (
	"math"
	"testing"
	"time"

	cashflowdomain "github.com/smallbiznis/runway/internal/cashflow/domain"
	revenuedomain "github.com/smallbiznis/runway/internal/revenue/domain"
	revenueservice "github.com/smallbiznis/runway/internal/revenue/service"
	"github.com/smallbiznis/runway/internal/schedule/catalog"
	scheduledomain "github.com/smallbiznis/runway/internal/schedule/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func amountOf(id, line string, final float64, start, delivery *time.Time) cashflowdomain.ProjectAmount {
	return cashflowdomain.ProjectAmount{
		Project: revenuedomain.Project{
			RecordID:     id,
			Customer:     "customer-" + id,
			BusinessLine: line,
			StartDate:    start,
			DeliveryDate: delivery,
		},
		FinalAmount: final,
	}
}

func sumEntries(entries []cashflowdomain.Entry) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.Amount
	}
	return total
}

func TestProject_DefaultTemplateSplitsAmount(t *testing.T) {
	projects := []cashflowdomain.ProjectAmount{
		amountOf("a", "配液设备", 100, day(2025, 2, 10), day(2025, 6, 15)),
	}

	entries := Project(projects, nil, catalog.Default())
	require.Len(t, entries, 3)

	assert.Equal(t, "首付款", entries[0].StageName)
	assert.InDelta(t, 50, entries[0].Amount, 1e-9)
	assert.Equal(t, "2025-01", entries[0].Month)
	assert.InDelta(t, 40, entries[1].Amount, 1e-9)
	assert.Equal(t, "2025-06", entries[1].Month)
	assert.Equal(t, "2026-06", entries[2].Month)
	assert.InDelta(t, 100, sumEntries(entries), 1e-9)
}

func TestProject_SkipsNonPositiveAmountsAndRatios(t *testing.T) {
	projects := []cashflowdomain.ProjectAmount{
		amountOf("zero", "配液设备", 0, day(2025, 1, 1), day(2025, 2, 1)),
		amountOf("p", "配液设备", 10, day(2025, 1, 1), day(2025, 2, 1)),
	}
	schedules := map[string]*scheduledomain.PersistedSchedule{
		"p": {RecordID: "p", Stages: []scheduledomain.Stage{
			{Name: "deposit", Ratio: 1, Date: day(2025, 3, 1)},
			{Name: "nothing", Ratio: 0, Date: day(2025, 4, 1)},
		}},
	}

	entries := Project(projects, schedules, catalog.Default())
	require.Len(t, entries, 1)
	assert.Equal(t, "p", entries[0].RecordID)
	assert.Equal(t, "deposit", entries[0].StageName)
	assert.InDelta(t, 10, entries[0].Amount, 1e-9)
}

func TestAggregateMonthly_ConservesAmountWithUnscheduledBucket(t *testing.T) {
	projects := []cashflowdomain.ProjectAmount{
		amountOf("a", "配液设备", 100, day(2025, 2, 10), nil),
		amountOf("b", "自动化项目", 80, day(2025, 3, 1), day(2025, 8, 1)),
	}
	entries := Project(projects, nil, catalog.Default())

	agg := AggregateMonthly(entries)

	scheduled := 0.0
	for i, row := range agg.Months {
		scheduled += row.Total
		if i > 0 {
			assert.Less(t, agg.Months[i-1].Month, row.Month)
		}
	}
	assert.InDelta(t, 180, scheduled+agg.Unscheduled.Total, 1e-6)
	assert.InDelta(t, 50, agg.Unscheduled.Total, 1e-6)
	assert.Equal(t, 2, agg.Unscheduled.EntryCount)
	assert.Equal(t, 1, agg.Unscheduled.ProjectCount)
}

func TestAggregateMonthly_OrderIndependent(t *testing.T) {
	entries := []cashflowdomain.Entry{
		{RecordID: "a", StageName: "x", Amount: 1.1, Month: "2025-02"},
		{RecordID: "b", StageName: "x", Amount: 2.2, Month: "2025-01"},
		{RecordID: "a", StageName: "y", Amount: 3.3, Month: "2025-01"},
	}
	reversed := []cashflowdomain.Entry{entries[2], entries[1], entries[0]}

	assert.Equal(t, AggregateMonthly(entries), AggregateMonthly(reversed))

	agg := AggregateMonthly(entries)
	require.Len(t, agg.Months, 2)
	assert.Equal(t, "2025-01", agg.Months[0].Month)
	assert.InDelta(t, 5.5, agg.Months[0].Total, 1e-9)
	assert.Equal(t, 2, agg.Months[0].ProjectCount)
}

func TestAggregateByBusinessLine_SortedDescending(t *testing.T) {
	entries := []cashflowdomain.Entry{
		{RecordID: "a", BusinessLine: "small", Amount: 5},
		{RecordID: "b", BusinessLine: "big", Amount: 20},
		{RecordID: "c", BusinessLine: "big", Amount: 1},
		{RecordID: "d", BusinessLine: "tie", Amount: 5},
	}

	rows := AggregateByBusinessLine(entries)
	require.Len(t, rows, 3)
	assert.Equal(t, "big", rows[0].Key)
	assert.InDelta(t, 21, rows[0].Total, 1e-9)
	assert.Equal(t, 2, rows[0].ProjectCount)
	assert.Equal(t, "small", rows[1].Key)
	assert.Equal(t, "tie", rows[2].Key)
}

func TestAggregateByStageType(t *testing.T) {
	entries := []cashflowdomain.Entry{
		{RecordID: "a", StageName: "质保金", Amount: 10},
		{RecordID: "a", StageName: "首付款", Amount: 50},
		{RecordID: "b", StageName: "首付款", Amount: 30},
	}
	rows := AggregateByStageType(entries)
	require.Len(t, rows, 2)
	assert.Equal(t, "首付款", rows[0].Key)
	assert.InDelta(t, 80, rows[0].Total, 1e-9)
	assert.Equal(t, 2, rows[0].ProjectCount)
}

func TestAggregateMonthly_CountsProjectsByName(t *testing.T) {
	entries := []cashflowdomain.Entry{
		{RecordID: "r1", ProjectName: "Acme", StageName: "首付款", Amount: 10, Month: "2025-03"},
		{RecordID: "r2", ProjectName: "Acme", StageName: "首付款", Amount: 20, Month: "2025-03"},
		{RecordID: "r3", ProjectName: "Globex", StageName: "首付款", Amount: 5, Month: "2025-03"},
		{RecordID: "r4", StageName: "首付款", Amount: 1, Month: "2025-03"},
		{RecordID: "r1", ProjectName: "Acme", StageName: "质保金", Amount: 3},
		{RecordID: "r2", ProjectName: "Acme", StageName: "质保金", Amount: 4},
	}

	agg := AggregateMonthly(entries)
	require.Len(t, agg.Months, 1)
	assert.Equal(t, 3, agg.Months[0].ProjectCount)
	assert.Equal(t, 1, agg.Unscheduled.ProjectCount)
	assert.Equal(t, 2, agg.Unscheduled.EntryCount)

	rows := AggregateByStageType(entries)
	require.Len(t, rows, 2)
	assert.Equal(t, "首付款", rows[0].Key)
	assert.Equal(t, 3, rows[0].ProjectCount)
	assert.Equal(t, 1, rows[1].ProjectCount)
}

func TestProject_OverrideDrivesStageAmounts(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	milestone := now.AddDate(0, 0, 30)
	p := revenuedomain.Project{
		RecordID:       "rec1",
		Customer:       "Acme",
		BusinessLine:   "配液设备",
		ContractAmount: 100,
		WinProbability: 50,
		DeliveryDate:   &milestone,
	}
	params := revenuedomain.DecayParams{Lambda: -math.Log(0.9)}

	require.InDelta(t, 0.9, revenueservice.DecayFactor(&milestone, now, params.Lambda), 1e-9)
	plain := revenueservice.Resolve(p, nil, params, now)
	assert.InDelta(t, 45, plain.PredictedAmount, 1e-9)
	assert.InDelta(t, 45, plain.FinalAmount, 1e-9)

	override := 60.0
	overrides := revenueservice.ReduceOverrides([]revenuedomain.Override{
		{RecordID: "rec1", Amount: &override, UpdatedAt: now},
	})
	res := revenueservice.Resolve(p, overrides, params, now)
	assert.InDelta(t, 45, res.PredictedAmount, 1e-9)
	assert.Equal(t, 60.0, res.FinalAmount)

	schedules := map[string]*scheduledomain.PersistedSchedule{
		"rec1": {RecordID: "rec1", Stages: []scheduledomain.Stage{
			{Name: "首付款", Ratio: 0.5, Date: day(2025, 1, 15)},
			{Name: "验收款", Ratio: 0.5, Date: day(2025, 2, 15)},
		}},
	}
	entries := Project([]cashflowdomain.ProjectAmount{{Project: p, FinalAmount: res.FinalAmount}}, schedules, catalog.Default())
	require.Len(t, entries, 2)
	assert.InDelta(t, 30, entries[0].Amount, 1e-9)
	assert.InDelta(t, 30, entries[1].Amount, 1e-9)
}

