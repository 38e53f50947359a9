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

// series accumulates amounts per month key and rounds them on read.
type series struct {
	index  map[string]int
	values [][]float64
}

func newSeries(months []string) *series {
	s := &series{index: make(map[string]int, len(months)), values: make([][]float64, len(months))}
	for i, m := range months {
		s.index[m] = i
	}
	return s
}

func (s *series) add(month string, v float64) {
	if i, ok := s.index[month]; ok {
		s.values[i] = append(s.values[i], v)
	}
}

func (s *series) totals() []float64 {
	out := make([]float64, len(s.values))
	for i, vals := range s.values {
		out[i] = money.Sum(vals...)
	}
	return out
}

// SalesIncome sums scheduled payment entries per month.
func SalesIncome(entries []cashflowdomain.Entry, months []string) []float64 {
	s := newSeries(months)
	for _, e := range entries {
		if e.Scheduled() {
			s.add(e.Month, e.Amount)
		}
	}
	return s.totals()
}

// TaxSeries charges amount × rate in the month each payment is received.
func TaxSeries(entries []cashflowdomain.Entry, taxRate float64, months []string) []float64 {
	s := newSeries(months)
	for _, e := range entries {
		if e.Scheduled() {
			s.add(e.Month, e.Amount*taxRate)
		}
	}
	return s.totals()
}

// MaterialSeries books final amount × business-line ratio one month before
// delivery, or before expected completion when delivery is unknown.
func MaterialSeries(projects []cashflowdomain.ProjectAmount, cost config.CostConfig, months []string) []float64 {
	s := newSeries(months)
	for _, pa := range projects {
		due := pa.Project.EffectiveDeliveryDate()
		if due == nil || !(pa.FinalAmount > 0) {
			continue
		}
		month := calendar.MonthKey(calendar.AddMonths(*due, -1))
		s.add(month, pa.FinalAmount*cost.MaterialRatio(pa.Project.BusinessLine))
	}
	return s.totals()
}

// LaborSeries charges each labor cost in the months it falls due. Monthly
// costs are due in every month overlapping their active range, one-time costs
// only in their start month, quarterly and annual costs every 3 or 12 months
// counted from the start month.
func LaborSeries(labor []ledgerdomain.LaborCost, months []string) []float64 {
	out := make([]float64, len(months))
	for i, key := range months {
		monthStart, err := calendar.ParseMonth(key)
		if err != nil {
			continue
		}
		monthEnd := calendar.MonthEnd(monthStart)

		var due []float64
		for _, c := range labor {
			start, end := activeRange(c.StartDate, c.EndDate)
			if laborDue(c.Frequency, start, end, monthStart, monthEnd) {
				due = append(due, c.Amount)
			}
		}
		out[i] = money.Sum(due...)
	}
	return out
}

func laborDue(freq ledgerdomain.Frequency, start, end, monthStart, monthEnd time.Time) bool {
	if freq == ledgerdomain.FrequencyOneTime {
		return calendar.MonthKey(start) == calendar.MonthKey(monthStart)
	}
	if !overlaps(start, end, monthStart, monthEnd) {
		return false
	}
	interval := freq.IntervalMonths()
	if interval <= 1 {
		return true
	}
	return calendar.MonthsBetween(start, monthStart)%interval == 0
}

// OverheadSeries charges the monthly amount in every month overlapping the
// item's active range.
func OverheadSeries(overhead []ledgerdomain.OverheadCost, months []string) []float64 {
	out := make([]float64, len(months))
	for i, key := range months {
		monthStart, err := calendar.ParseMonth(key)
		if err != nil {
			continue
		}
		monthEnd := calendar.MonthEnd(monthStart)

		var due []float64
		for _, c := range overhead {
			start, end := activeRange(c.StartDate, c.EndDate)
			if overlaps(start, end, monthStart, monthEnd) {
				due = append(due, c.MonthlyAmount)
			}
		}
		out[i] = money.Sum(due...)
	}
	return out
}

// OneOffSeries splits occasional items into income and expense per month.
func OneOffSeries(items []ledgerdomain.OneOffItem, months []string) (income, expense []float64) {
	in, out := newSeries(months), newSeries(months)
	for _, item := range items {
		if item.OccurredAt.IsZero() {
			continue
		}
		month := calendar.MonthKey(item.OccurredAt)
		switch item.Kind {
		case ledgerdomain.OneOffIncome:
			in.add(month, item.Amount)
		case ledgerdomain.OneOffExpense:
			out.add(month, item.Amount)
		}
	}
	return in.totals(), out.totals()
}

func activeRange(start, end *time.Time) (time.Time, time.Time) {
	s, e := runwaydomain.OpenStart, runwaydomain.OpenEnd
	if start != nil {
		s = dateOnly(*start)
	}
	if end != nil {
		e = dateOnly(*end)
	}
	return s, e
}

func overlaps(start, end, monthStart, monthEnd time.Time) bool {
	return !start.After(monthEnd) && !end.Before(monthStart)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
