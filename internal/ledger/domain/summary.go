package domain

import (
	"time"

	"github.com/smallbiznis/runway/internal/money"
)

// Summarize totals the ledger. One-off items are limited to [from, to] when
// either bound is set.
func Summarize(s Snapshot, from, to *time.Time) Summary {
	var out Summary

	var laborAll, laborMonthly []float64
	for _, c := range s.Labor {
		laborAll = append(laborAll, c.Amount)
		if c.Frequency == FrequencyMonthly {
			laborMonthly = append(laborMonthly, c.Amount)
		}
	}
	out.LaborTotal = money.Sum(laborAll...)
	out.LaborMonthly = money.Sum(laborMonthly...)

	overhead := make([]float64, 0, len(s.Overhead))
	for _, c := range s.Overhead {
		overhead = append(overhead, c.MonthlyAmount)
	}
	out.OverheadMonthly = money.Sum(overhead...)

	var income, expense []float64
	for _, item := range s.OneOff {
		if from != nil && item.OccurredAt.Before(*from) {
			continue
		}
		if to != nil && item.OccurredAt.After(*to) {
			continue
		}
		switch item.Kind {
		case OneOffIncome:
			income = append(income, item.Amount)
		case OneOffExpense:
			expense = append(expense, item.Amount)
		}
	}
	out.OneOffIncome = money.Sum(income...)
	out.OneOffExpense = money.Sum(expense...)
	out.OneOffNet = money.Sum(out.OneOffIncome, -out.OneOffExpense)
	out.IncomeCount = len(income)
	out.ExpenseCount = len(expense)
	return out
}
