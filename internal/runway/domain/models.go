// Package domain holds the runway table shapes.
package domain

import "time"

var (
	// OpenStart and OpenEnd bound cost items that leave a date blank.
	OpenStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	OpenEnd   = time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)
)

// MonthRow is one month of the runway table. Costs are positive numbers.
type MonthRow struct {
	Month         string  `json:"month"`
	SalesIncome   float64 `json:"sales_income"`
	OneOffIncome  float64 `json:"one_off_income"`
	Labor         float64 `json:"labor"`
	Overhead      float64 `json:"overhead"`
	Material      float64 `json:"material"`
	Tax           float64 `json:"tax"`
	OneOffExpense float64 `json:"one_off_expense"`
	TotalIncome   float64 `json:"total_income"`
	TotalCost     float64 `json:"total_cost"`
	Net           float64 `json:"net"`
	Balance       float64 `json:"balance"`
}

// Result is the outcome of a runway computation. Sufficient is set when the
// balance stays positive for the whole horizon, so the real runway is longer
// than RunwayMonths.
type Result struct {
	RunwayMonths int        `json:"runway_months"`
	MinBalance   float64    `json:"min_balance"`
	InitialCash  float64    `json:"initial_cash"`
	Sufficient   bool       `json:"sufficient"`
	HasData      bool       `json:"has_data"`
	Months       []MonthRow `json:"months"`
}
