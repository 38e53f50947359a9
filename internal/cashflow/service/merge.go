package service

import (
	"sort"
	"strings"

	"github.com/gosimple/slug"
	cashflowdomain "github.com/smallbiznis/runway/internal/cashflow/domain"
	"github.com/smallbiznis/runway/internal/money"
	scheduledomain "github.com/smallbiznis/runway/internal/schedule/domain"
	scheduleservice "github.com/smallbiznis/runway/internal/schedule/service"
)

// DefaultStageCashSuffix is appended to stage names to form merged column names.
const DefaultStageCashSuffix = "现金"

// MergeIntoSource annotates each project with the cash of every stage seen in
// entries, summed per record. Projects without a given stage get 0 for it.
// Authoritative revenue fields are copied, never recomputed.
func MergeIntoSource(projects []cashflowdomain.ProjectAmount, entries []cashflowdomain.Entry, suffix string) []cashflowdomain.MergedRow {
	if strings.TrimSpace(suffix) == "" {
		suffix = DefaultStageCashSuffix
	}

	stageNames := make(map[string]struct{})
	cash := make(map[string]map[string][]float64)
	for _, e := range entries {
		stageNames[e.StageName] = struct{}{}
		if cash[e.RecordID] == nil {
			cash[e.RecordID] = map[string][]float64{}
		}
		cash[e.RecordID][e.StageName] = append(cash[e.RecordID][e.StageName], e.Amount)
	}

	columns := make(map[string]string, len(stageNames))
	keys := make(map[string]string, len(stageNames))
	for name := range stageNames {
		col := name + suffix
		columns[name] = col
		keys[col] = slug.Make(col)
	}

	out := make([]cashflowdomain.MergedRow, 0, len(projects))
	for _, pa := range projects {
		row := cashflowdomain.MergedRow{
			RecordID:     pa.Project.RecordID,
			Customer:     pa.Project.Customer,
			BusinessLine: pa.Project.BusinessLine,
			FinalAmount:  pa.FinalAmount,
			StageCash:    make(map[string]float64, len(columns)),
			StageKeys:    make(map[string]string, len(columns)),
		}
		for name, col := range columns {
			row.StageCash[col] = money.Sum(cash[pa.Project.RecordID][name]...)
			row.StageKeys[col] = keys[col]
		}
		out = append(out, row)
	}
	return out
}

// ProjectSchedule returns one project's payment plan ordered by date, with
// undated stages last.
func ProjectSchedule(pa cashflowdomain.ProjectAmount, persisted *scheduledomain.PersistedSchedule, catalog scheduledomain.Catalog) []cashflowdomain.ScheduleLine {
	stages := scheduleservice.ResolveStages(pa.Project, persisted, catalog)
	stages = scheduleservice.WithAmounts(stages, pa.FinalAmount)

	lines := make([]cashflowdomain.ScheduleLine, 0, len(stages))
	for _, st := range stages {
		if !(st.Ratio > 0) {
			continue
		}
		lines = append(lines, cashflowdomain.ScheduleLine{
			RecordID:       pa.Project.RecordID,
			Customer:       pa.Project.Customer,
			BusinessLine:   pa.Project.BusinessLine,
			StageName:      st.Name,
			Ratio:          st.Ratio,
			Amount:         st.Amount,
			Date:           st.Date,
			ContractAmount: pa.Project.ContractAmount,
			ExpectedIncome: pa.FinalAmount,
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i].Date, lines[j].Date
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return lines
}

// BudgetByBusinessLine splits each project's final amount by the stage ratios
// on its row and totals them per business line, followed by a grand total row.
func BudgetByBusinessLine(projects []cashflowdomain.ProjectAmount) []cashflowdomain.BudgetRow {
	if len(projects) == 0 {
		return []cashflowdomain.BudgetRow{}
	}

	type acc struct {
		totals  []float64
		byStage map[string][]float64
	}
	lines := make(map[string]*acc)
	for _, pa := range projects {
		line := pa.Project.BusinessLine
		a := lines[line]
		if a == nil {
			a = &acc{byStage: map[string][]float64{}}
			lines[line] = a
		}
		a.totals = append(a.totals, pa.FinalAmount)
		for _, st := range scheduleservice.RowStages(pa.Project) {
			a.byStage[st.Name] = append(a.byStage[st.Name], pa.FinalAmount*st.Ratio)
		}
	}

	names := make([]string, 0, len(lines))
	for name := range lines {
		names = append(names, name)
	}
	sort.Strings(names)

	grand := cashflowdomain.BudgetRow{BusinessLine: cashflowdomain.BudgetTotalKey, ByStage: emptyStageMap()}
	rows := make([]cashflowdomain.BudgetRow, 0, len(names)+1)
	for _, name := range names {
		a := lines[name]
		row := cashflowdomain.BudgetRow{
			BusinessLine: name,
			Total:        money.Sum(a.totals...),
			ByStage:      emptyStageMap(),
			ProjectCount: len(a.totals),
		}
		for stage, vals := range a.byStage {
			row.ByStage[stage] = money.Sum(vals...)
		}
		row.AveragePerProject = money.Round2(row.Total / float64(row.ProjectCount))
		rows = append(rows, row)

		grand.Total = money.Sum(grand.Total, row.Total)
		grand.ProjectCount += row.ProjectCount
		for stage, v := range row.ByStage {
			grand.ByStage[stage] = money.Sum(grand.ByStage[stage], v)
		}
	}
	grand.AveragePerProject = money.Round2(grand.Total / float64(grand.ProjectCount))
	return append(rows, grand)
}

func emptyStageMap() map[string]float64 {
	m := make(map[string]float64, len(scheduleservice.RowStageNames))
	for _, name := range scheduleservice.RowStageNames {
		m[name] = 0
	}
	return m
}
