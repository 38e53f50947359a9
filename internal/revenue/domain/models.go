package domain

import (
	"math"
	"time"
)

// StageCount is the number of payment stages carried on a project row.
const StageCount = 4

// Project is the fixed-shape view of an opportunity row. Optional dates are nil
// when absent; WinProbability is NaN when the raw value could not be parsed.
type Project struct {
	RecordID     string
	Customer     string
	BusinessLine string

	ContractAmount    float64
	WinProbability    float64
	WinProbabilityRaw string

	StartDate          *time.Time
	DeliveryDate       *time.Time
	ExpectedCompletion *time.Time

	// StageRatios are percentages as entered (first, second, third, warranty).
	StageRatios [StageCount]float64
	StageDates  [StageCount]*time.Time

	ManualOverride *float64
}

// EffectiveDeliveryDate falls back to the expected completion date.
func (p Project) EffectiveDeliveryDate() *time.Time {
	if p.DeliveryDate != nil {
		return p.DeliveryDate
	}
	return p.ExpectedCompletion
}

// HasValidProbability reports whether WinProbability holds a usable value.
func (p Project) HasValidProbability() bool {
	return !math.IsNaN(p.WinProbability)
}

// Override is a manual replacement of the predicted amount.
// A nil Amount records a cleared override.
type Override struct {
	RecordID  string
	Amount    *float64
	UpdatedAt time.Time
}

// DecayParams are the tunables of the time decay model.
type DecayParams struct {
	Lambda             float64
	BaseDateOffsetDays int
}

// AmountSource tells where a final amount came from.
type AmountSource string

const (
	SourceOverride   AmountSource = "override"
	SourcePrediction AmountSource = "prediction"
	SourceAbsent     AmountSource = "absent"
)

// Resolution is the outcome of resolving a project's revenue base.
type Resolution struct {
	RecordID        string       `json:"record_id"`
	FinalAmount     float64      `json:"final_amount"`
	PredictedAmount float64      `json:"predicted_amount"`
	DecayFactor     float64      `json:"decay_factor"`
	Source          AmountSource `json:"source"`
	// IncomeVariance is FinalAmount minus the undecayed probability-weighted amount.
	IncomeVariance float64 `json:"income_variance"`
}
