package domain

import (
	"fmt"
	"math"
	"strings"
)

// RatioTolerance is the allowed deviation of a ratio sum from 1.0.
const RatioTolerance = 0.01

type ratioStage struct {
	name  string
	ratio float64
}

// Validate checks stage names, positive ratios and the ratio sum.
func (t Template) Validate() error {
	stages := make([]ratioStage, 0, len(t.Stages))
	for _, s := range t.Stages {
		stages = append(stages, ratioStage{name: s.Name, ratio: s.Ratio})
	}
	if err := validateRatios(t.Name, stages); err != nil {
		return err
	}
	for i, s := range t.Stages {
		if s.Base != BaseStart && s.Base != BaseDelivery {
			return &ScheduleConfigError{Template: t.Name, Index: i, Reason: fmt.Sprintf("unknown base %q", s.Base)}
		}
	}
	return nil
}

// ValidateStages applies the template rules to a concrete stage list.
func ValidateStages(templateName string, stages []Stage) error {
	rs := make([]ratioStage, 0, len(stages))
	for _, s := range stages {
		rs = append(rs, ratioStage{name: s.Name, ratio: s.Ratio})
	}
	return validateRatios(templateName, rs)
}

func validateRatios(templateName string, stages []ratioStage) error {
	if len(stages) == 0 {
		return &ScheduleConfigError{Template: templateName, Index: -1, Reason: "stages cannot be empty"}
	}

	total := 0.0
	for _, s := range stages {
		if !math.IsNaN(s.ratio) {
			total += s.ratio
		}
	}
	if math.Abs(total-1.0) > RatioTolerance {
		return &ScheduleConfigError{
			Template: templateName,
			Index:    -1,
			Reason:   fmt.Sprintf("ratios must sum to 100%%, got %.1f%%", total*100),
		}
	}

	for i, s := range stages {
		if strings.TrimSpace(s.name) == "" {
			return &ScheduleConfigError{Template: templateName, Index: i, Reason: "missing name"}
		}
		if math.IsNaN(s.ratio) || s.ratio <= 0 {
			return &ScheduleConfigError{Template: templateName, Index: i, Reason: "ratio must be greater than 0"}
		}
	}
	return nil
}
