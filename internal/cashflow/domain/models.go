// Package domain holds the derived cash-flow shapes. Nothing here is persisted.
package domain

import (
	"time"

	revenuedomain "github.com/smallbiznis/runway/internal/revenue/domain"
)

// UnscheduledMonth is the month key of entries whose date is unknown.
const UnscheduledMonth = ""

// BudgetTotalKey labels the grand total row of a budget summary.
const BudgetTotalKey = "总计"

// ProjectAmount pairs a project with its resolved final amount.
type ProjectAmount struct {
	Project     revenuedomain.Project
	FinalAmount float64
}

// Entry is one dated partial payment of a project.
type Entry struct {
	RecordID     string     `json:"record_id"`
	ProjectName  string     `json:"project_name"`
	BusinessLine string     `json:"business_line"`
	StageName    string     `json:"stage_name"`
	Ratio        float64    `json:"ratio"`
	Amount       float64    `json:"amount"`
	Date         *time.Time `json:"date"`
	Month        string     `json:"month"`
}

// Scheduled reports whether the entry has a known payment month.
func (e Entry) Scheduled() bool {
	return e.Month != UnscheduledMonth
}

type MonthlyRow struct {
	Month        string  `json:"month"`
	Total        float64 `json:"total"`
	ProjectCount int     `json:"project_count"`
}

// UnscheduledRow collects entries without a payment date so that totals
// across months plus this bucket equal the projected amount.
type UnscheduledRow struct {
	Total        float64 `json:"total"`
	EntryCount   int     `json:"entry_count"`
	ProjectCount int     `json:"project_count"`
}

type MonthlyAggregate struct {
	Months      []MonthlyRow   `json:"months"`
	Unscheduled UnscheduledRow `json:"unscheduled"`
}

// GroupRow is a total keyed by business line or stage name.
type GroupRow struct {
	Key          string  `json:"key"`
	Total        float64 `json:"total"`
	ProjectCount int     `json:"project_count"`
}

type ForecastRow struct {
	Month      string  `json:"month"`
	Amount     float64 `json:"amount"`
	Cumulative float64 `json:"cumulative"`
}

// MergedRow is a source project annotated with derived per-stage cash.
// StageCash is keyed by display column name; StageKeys maps the same
// names to stable slug keys.
type MergedRow struct {
	RecordID     string             `json:"record_id"`
	Customer     string             `json:"customer"`
	BusinessLine string             `json:"business_line"`
	FinalAmount  float64            `json:"final_amount"`
	StageCash    map[string]float64 `json:"stage_cash"`
	StageKeys    map[string]string  `json:"stage_keys"`
}

// ScheduleLine is one row of a single project's payment plan.
type ScheduleLine struct {
	RecordID       string     `json:"record_id"`
	Customer       string     `json:"customer"`
	BusinessLine   string     `json:"business_line"`
	StageName      string     `json:"stage_name"`
	Ratio          float64    `json:"ratio"`
	Amount         float64    `json:"amount"`
	Date           *time.Time `json:"date"`
	ContractAmount float64    `json:"contract_amount"`
	ExpectedIncome float64    `json:"expected_income"`
}

// BudgetRow summarizes expected income per business line, split by the
// stage ratios carried on each project row.
type BudgetRow struct {
	BusinessLine      string             `json:"business_line"`
	Total             float64            `json:"total"`
	ByStage           map[string]float64 `json:"by_stage"`
	ProjectCount      int                `json:"project_count"`
	AveragePerProject float64            `json:"average_per_project"`
}
