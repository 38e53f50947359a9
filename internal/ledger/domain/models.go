package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Frequency is how often a labor or overhead cost is charged.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyOneTime   Frequency = "one_time"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnual    Frequency = "annual"
)

// ParseFrequency accepts the canonical values and the legacy labels
// 月度/一次性/季度/年度. Empty input means monthly.
func ParseFrequency(raw string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "monthly", "月度":
		return FrequencyMonthly, nil
	case "one_time", "once", "一次性":
		return FrequencyOneTime, nil
	case "quarterly", "季度":
		return FrequencyQuarterly, nil
	case "annual", "yearly", "年度":
		return FrequencyAnnual, nil
	default:
		return "", ErrInvalidFrequency
	}
}

// IntervalMonths returns the charge period in months, or 0 for one-time costs.
func (f Frequency) IntervalMonths() int {
	switch f {
	case FrequencyMonthly:
		return 1
	case FrequencyQuarterly:
		return 3
	case FrequencyAnnual:
		return 12
	default:
		return 0
	}
}

// OneOffKind separates occasional income from occasional expense.
type OneOffKind string

const (
	OneOffIncome  OneOffKind = "income"
	OneOffExpense OneOffKind = "expense"
)

// ParseOneOffKind accepts income/expense and the legacy labels 所得/支出.
func ParseOneOffKind(raw string) (OneOffKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "income", "所得":
		return OneOffIncome, nil
	case "expense", "支出":
		return OneOffExpense, nil
	default:
		return "", ErrInvalidKind
	}
}

// ItemType names the three ledger tables.
type ItemType string

const (
	ItemLabor    ItemType = "labor"
	ItemOverhead ItemType = "overhead"
	ItemOneOff   ItemType = "one_off"
)

func ParseItemType(raw string) (ItemType, error) {
	switch ItemType(strings.ToLower(strings.TrimSpace(raw))) {
	case ItemLabor:
		return ItemLabor, nil
	case ItemOverhead:
		return ItemOverhead, nil
	case ItemOneOff, "one-off":
		return ItemOneOff, nil
	default:
		return "", ErrInvalidItemType
	}
}

// LaborCost is a salary-like cost. Amount is per charge period.
type LaborCost struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CostType  string       `gorm:"type:text;not null" json:"cost_type"`
	Item      string       `gorm:"type:text;not null" json:"item"`
	Amount    float64      `gorm:"type:numeric(18,2);not null" json:"amount"`
	Frequency Frequency    `gorm:"type:text;not null" json:"frequency"`
	StartDate *time.Time   `json:"start_date"`
	EndDate   *time.Time   `json:"end_date"`
	Remark    string       `gorm:"type:text" json:"remark,omitempty"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
}

func (LaborCost) TableName() string { return "labor_costs" }

// OverheadCost is a recurring operating expense charged every active month.
type OverheadCost struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	Category      string       `gorm:"type:text;not null" json:"category"`
	ExpenseType   string       `gorm:"type:text" json:"expense_type"`
	Item          string       `gorm:"type:text;not null" json:"item"`
	MonthlyAmount float64      `gorm:"type:numeric(18,2);not null" json:"monthly_amount"`
	StartDate     *time.Time   `json:"start_date"`
	EndDate       *time.Time   `json:"end_date"`
	Frequency     Frequency    `gorm:"type:text;not null" json:"frequency"`
	Remark        string       `gorm:"type:text" json:"remark,omitempty"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
}

func (OverheadCost) TableName() string { return "overhead_costs" }

// OneOffItem is an occasional income or expense on a single date.
type OneOffItem struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Kind       OneOffKind   `gorm:"type:text;not null;index" json:"kind"`
	Category   string       `gorm:"type:text" json:"category"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	Amount     float64      `gorm:"type:numeric(18,2);not null" json:"amount"`
	OccurredAt time.Time    `gorm:"not null" json:"occurred_at"`
	Remark     string       `gorm:"type:text" json:"remark,omitempty"`
	CreatedAt  time.Time    `gorm:"not null" json:"created_at"`
}

func (OneOffItem) TableName() string { return "one_off_items" }

// Snapshot is the full cost ledger at one point in time.
type Snapshot struct {
	Labor    []LaborCost    `json:"labor"`
	Overhead []OverheadCost `json:"overhead"`
	OneOff   []OneOffItem   `json:"one_off"`
}

// Summary is a headline view of the ledger.
type Summary struct {
	LaborMonthly    float64 `json:"labor_monthly"`
	LaborTotal      float64 `json:"labor_total"`
	OverheadMonthly float64 `json:"overhead_monthly"`
	OneOffIncome    float64 `json:"one_off_income"`
	OneOffExpense   float64 `json:"one_off_expense"`
	OneOffNet       float64 `json:"one_off_net"`
	IncomeCount     int     `json:"income_count"`
	ExpenseCount    int     `json:"expense_count"`
}
