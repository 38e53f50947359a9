package service

import (
	"time"

	"github.com/smallbiznis/runway/internal/calendar"
	cashflowdomain "github.com/smallbiznis/runway/internal/cashflow/domain"
	"github.com/smallbiznis/runway/internal/money"
)

// Forecast lays scheduled cash onto monthsAhead consecutive months starting
// at from's month. Months without cash carry 0 and the running total is kept
// across them; with fillZeroMonths false those months are dropped afterwards.
func Forecast(entries []cashflowdomain.Entry, from time.Time, monthsAhead int, fillZeroMonths bool) []cashflowdomain.ForecastRow {
	months := calendar.MonthRange(from, monthsAhead)
	if len(months) == 0 {
		return []cashflowdomain.ForecastRow{}
	}

	byMonth := make(map[string][]float64, len(months))
	for _, e := range entries {
		if e.Scheduled() {
			byMonth[e.Month] = append(byMonth[e.Month], e.Amount)
		}
	}

	rows := make([]cashflowdomain.ForecastRow, 0, len(months))
	cumulative := 0.0
	for _, m := range months {
		amount := money.Sum(byMonth[m]...)
		cumulative = money.Sum(cumulative, amount)
		if !fillZeroMonths && amount == 0 {
			continue
		}
		rows = append(rows, cashflowdomain.ForecastRow{Month: m, Amount: amount, Cumulative: cumulative})
	}
	return rows
}
