package domain

import (
	"time"

	cashflowdomain "github.com/smallbiznis/runway/internal/cashflow/domain"
	ledgerdomain "github.com/smallbiznis/runway/internal/ledger/domain"
	revenuedomain "github.com/smallbiznis/runway/internal/revenue/domain"
	runwaydomain "github.com/smallbiznis/runway/internal/runway/domain"
)

// Request overrides engine configuration for a single run. Nil fields keep
// the configured value.
type Request struct {
	MonthsAhead         *int     `json:"months_ahead,omitempty"`
	RunwayMonthsAhead   *int     `json:"runway_months_ahead,omitempty"`
	InitialCash         *float64 `json:"initial_cash,omitempty"`
	ReferenceOffsetDays *int     `json:"reference_offset_days,omitempty"`
	FillZeroMonths      *bool    `json:"fill_zero_months,omitempty"`
}

type WarningKind string

const (
	WarningAmbiguousWinProbability WarningKind = "ambiguous_win_probability"
	WarningInvalidField            WarningKind = "invalid_field"
	WarningMissingRecordID         WarningKind = "missing_record_id"
	WarningStaleOverride           WarningKind = "stale_override"
	WarningScheduleConfig          WarningKind = "schedule_config"
	WarningScheduleUnreadable      WarningKind = "schedule_unreadable"
	WarningCatalogConfig           WarningKind = "catalog_config"
)

// Warning reports a per-project problem that degraded, but did not abort, a run.
type Warning struct {
	Kind     WarningKind `json:"kind"`
	RecordID string      `json:"record_id,omitempty"`
	Message  string      `json:"message"`
}

type ScheduleSource string

const (
	ScheduleSourcePersisted ScheduleSource = "persisted"
	ScheduleSourceTemplate  ScheduleSource = "template"
)

// ProjectResult is the resolved view of one project. WinProbability is nil
// when the raw value could not be read.
type ProjectResult struct {
	RecordID        string                     `json:"record_id"`
	Customer        string                     `json:"customer"`
	BusinessLine    string                     `json:"business_line"`
	ContractAmount  float64                    `json:"contract_amount"`
	WinProbability  *float64                   `json:"win_probability"`
	FinalAmount     float64                    `json:"final_amount"`
	PredictedAmount float64                    `json:"predicted_amount"`
	DecayFactor     float64                    `json:"decay_factor"`
	Source          revenuedomain.AmountSource `json:"source"`
	IncomeVariance  float64                    `json:"income_variance"`
	ScheduleSource  ScheduleSource             `json:"schedule_source"`
	Degraded        bool                       `json:"degraded"`
}

// Report is the full output of one forecast run.
type Report struct {
	RunID          string                          `json:"run_id"`
	GeneratedAt    time.Time                       `json:"generated_at"`
	ReferenceDate  time.Time                       `json:"reference_date"`
	Projects       []ProjectResult                 `json:"projects"`
	Entries        []cashflowdomain.Entry          `json:"entries"`
	Monthly        cashflowdomain.MonthlyAggregate `json:"monthly"`
	ByBusinessLine []cashflowdomain.GroupRow       `json:"by_business_line"`
	ByStage        []cashflowdomain.GroupRow       `json:"by_stage"`
	Forecast       []cashflowdomain.ForecastRow    `json:"forecast"`
	Merged         []cashflowdomain.MergedRow      `json:"merged"`
	Budget         []cashflowdomain.BudgetRow      `json:"budget"`
	Runway         runwaydomain.Result             `json:"runway"`
	Costs          ledgerdomain.Summary            `json:"costs"`
	Warnings       []Warning                       `json:"warnings"`
}

// SaveScheduleRequest stores explicit stages, or expands TemplateName against
// the project dates when Stages is empty.
type SaveScheduleRequest struct {
	RecordID     string                 `json:"record_id"`
	TemplateName string                 `json:"template_name"`
	Stages       []ScheduleStageRequest `json:"stages"`
}

type ScheduleStageRequest struct {
	Name  string     `json:"name"`
	Ratio float64    `json:"ratio"`
	Date  *time.Time `json:"date"`
}
