// Package service builds the monthly cost and income series and walks the
// cash balance forward to find the runway.
package service

import (
	"time"

	"github.com/smallbiznis/runway/internal/calendar"
	cashflowdomain "github.com/smallbiznis/runway/internal/cashflow/domain"
	"github.com/smallbiznis/runway/internal/config"
	ledgerdomain "github.com/smallbiznis/runway/internal/ledger/domain"
	"github.com/smallbiznis/runway/internal/money"
	runwaydomain "github.com/smallbiznis/runway/internal/runway/domain"
)

// Compute walks balance[i] = balance[i-1] + income[i] - costs[i] from
// initialCash over the first monthsAhead months. The runway is the count of
// leading months with a positive balance. Empty input yields no data: a
// runway of 0 with the initial cash as minimum balance.
func Compute(income, costs []float64, initialCash float64, monthsAhead int) runwaydomain.Result {
	n := min(len(income), len(costs), max(monthsAhead, 0))

	res := runwaydomain.Result{
		MinBalance:  initialCash,
		InitialCash: initialCash,
		Months:      make([]runwaydomain.MonthRow, 0, n),
	}
	if n == 0 {
		return res
	}
	res.HasData = true

	balance := initialCash
	counting := true
	for i := 0; i < n; i++ {
		net := money.Sum(income[i], -costs[i])
		balance = money.Sum(balance, net)
		res.Months = append(res.Months, runwaydomain.MonthRow{
			TotalIncome: money.Round2(income[i]),
			TotalCost:   money.Round2(costs[i]),
			Net:         net,
			Balance:     balance,
		})

		if counting && balance > 0 {
			res.RunwayMonths++
		} else {
			counting = false
		}
		if i == 0 || balance < res.MinBalance {
			res.MinBalance = balance
		}
	}
	res.Sufficient = res.RunwayMonths == n
	return res
}

// BuildInput is everything a runway table is derived from.
type BuildInput struct {
	From        time.Time
	MonthsAhead int
	InitialCash float64
	Entries     []cashflowdomain.Entry
	Projects    []cashflowdomain.ProjectAmount
	Ledger      ledgerdomain.Snapshot
	Cost        config.CostConfig
}

// Build composes every income and cost series over monthsAhead months from
// the From month and computes the runway. Without any cash-flow entries the
// result carries no data.
func Build(in BuildInput) runwaydomain.Result {
	if len(in.Entries) == 0 {
		return Compute(nil, nil, in.InitialCash, in.MonthsAhead)
	}

	months := calendar.MonthRange(in.From, in.MonthsAhead)
	sales := SalesIncome(in.Entries, months)
	tax := TaxSeries(in.Entries, in.Cost.TaxRate, months)
	material := MaterialSeries(in.Projects, in.Cost, months)
	labor := LaborSeries(in.Ledger.Labor, months)
	overhead := OverheadSeries(in.Ledger.Overhead, months)
	oneOffIncome, oneOffExpense := OneOffSeries(in.Ledger.OneOff, months)

	income := make([]float64, len(months))
	costs := make([]float64, len(months))
	for i := range months {
		income[i] = money.Sum(sales[i], oneOffIncome[i])
		costs[i] = money.Sum(labor[i], overhead[i], material[i], tax[i], oneOffExpense[i])
	}

	res := Compute(income, costs, in.InitialCash, in.MonthsAhead)
	for i := range res.Months {
		row := &res.Months[i]
		row.Month = months[i]
		row.SalesIncome = sales[i]
		row.OneOffIncome = oneOffIncome[i]
		row.Labor = labor[i]
		row.Overhead = overhead[i]
		row.Material = material[i]
		row.Tax = tax[i]
		row.OneOffExpense = oneOffExpense[i]
	}
	return res
}
