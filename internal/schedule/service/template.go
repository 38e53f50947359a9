package service

import (
	"time"

	"github.com/smallbiznis/runway/internal/calendar"
	"github.com/smallbiznis/runway/internal/money"
	revenuedomain "github.com/smallbiznis/runway/internal/revenue/domain"
	scheduledomain "github.com/smallbiznis/runway/internal/schedule/domain"
)

// ValidateTemplate rejects empty stage lists, ratio sums off 1.0 by more than
// the tolerance, unnamed stages and non-positive ratios.
func ValidateTemplate(tpl scheduledomain.Template) error {
	return tpl.Validate()
}

// ApplyTemplate expands template stages against the project milestones.
// Offsets are calendar months with the day clamped to the month end; a
// missing base milestone leaves the stage date unknown.
func ApplyTemplate(stages []scheduledomain.TemplateStage, start, delivery *time.Time) []scheduledomain.Stage {
	out := make([]scheduledomain.Stage, 0, len(stages))
	for _, st := range stages {
		base := start
		if st.Base == scheduledomain.BaseDelivery {
			base = delivery
		}

		var date *time.Time
		if base != nil {
			d := calendar.AddMonths(*base, st.OffsetMonths)
			date = &d
		}
		out = append(out, scheduledomain.Stage{Name: st.Name, Ratio: st.Ratio, Date: date})
	}
	return out
}

// ResolveStages returns the persisted stages verbatim when present, otherwise
// the business line's default template applied to the project dates.
func ResolveStages(p revenuedomain.Project, persisted *scheduledomain.PersistedSchedule, catalog scheduledomain.Catalog) []scheduledomain.Stage {
	if persisted != nil && len(persisted.Stages) > 0 {
		out := make([]scheduledomain.Stage, len(persisted.Stages))
		copy(out, persisted.Stages)
		return out
	}
	tpl := catalog.DefaultFor(p.BusinessLine)
	return ApplyTemplate(tpl.Stages, p.StartDate, p.EffectiveDeliveryDate())
}

// WithAmounts fills each stage amount as total × ratio rounded to two places.
func WithAmounts(stages []scheduledomain.Stage, total float64) []scheduledomain.Stage {
	out := make([]scheduledomain.Stage, len(stages))
	for i, st := range stages {
		st.Amount = money.Round2(total * st.Ratio)
		out[i] = st
	}
	return out
}

// RowStageNames are the stage labels of the four ratio columns on a project row.
var RowStageNames = [revenuedomain.StageCount]string{"首付款", "次付款", "尾款", "质保金"}

// RowStages derives stages from the four ratio and date fields carried on the
// project row. Missing dates fall back to start, delivery, and delivery plus
// one month for the last two stages.
func RowStages(p revenuedomain.Project) []scheduledomain.Stage {
	delivery := p.EffectiveDeliveryDate()

	var deliveryPlusOne *time.Time
	if delivery != nil {
		d := calendar.AddMonths(*delivery, 1)
		deliveryPlusOne = &d
	}
	fallbacks := [revenuedomain.StageCount]*time.Time{p.StartDate, delivery, deliveryPlusOne, deliveryPlusOne}

	out := make([]scheduledomain.Stage, 0, revenuedomain.StageCount)
	for i := 0; i < revenuedomain.StageCount; i++ {
		ratio := p.StageRatios[i]
		if ratio <= 0 {
			continue
		}
		date := p.StageDates[i]
		if date == nil {
			date = fallbacks[i]
		}
		out = append(out, scheduledomain.Stage{Name: RowStageNames[i], Ratio: ratio / 100, Date: date})
	}
	return out
}
