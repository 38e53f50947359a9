// Package service projects resolved project amounts onto dated payments and
// aggregates them. Every function is pure and independent of input order.
package service

import (
	"sort"

	"github.com/smallbiznis/runway/internal/calendar"
	cashflowdomain "github.com/smallbiznis/runway/internal/cashflow/domain"
	"github.com/smallbiznis/runway/internal/money"
	scheduledomain "github.com/smallbiznis/runway/internal/schedule/domain"
	scheduleservice "github.com/smallbiznis/runway/internal/schedule/service"
)

// Project expands every project with a positive final amount into one entry
// per stage with a positive ratio. Persisted schedules take precedence over
// the catalog default for the project's business line.
func Project(projects []cashflowdomain.ProjectAmount, schedules map[string]*scheduledomain.PersistedSchedule, catalog scheduledomain.Catalog) []cashflowdomain.Entry {
	entries := make([]cashflowdomain.Entry, 0, len(projects)*4)
	for _, pa := range projects {
		if !(pa.FinalAmount > 0) {
			continue
		}
		stages := scheduleservice.ResolveStages(pa.Project, schedules[pa.Project.RecordID], catalog)
		entries = append(entries, stageEntries(pa, stages)...)
	}
	return entries
}

func stageEntries(pa cashflowdomain.ProjectAmount, stages []scheduledomain.Stage) []cashflowdomain.Entry {
	out := make([]cashflowdomain.Entry, 0, len(stages))
	for _, st := range stages {
		if !(st.Ratio > 0) {
			continue
		}
		out = append(out, cashflowdomain.Entry{
			RecordID:     pa.Project.RecordID,
			ProjectName:  pa.Project.Customer,
			BusinessLine: pa.Project.BusinessLine,
			StageName:    st.Name,
			Ratio:        st.Ratio,
			Amount:       pa.FinalAmount * st.Ratio,
			Date:         st.Date,
			Month:        calendar.MonthKeyOf(st.Date),
		})
	}
	return out
}

// AggregateMonthly sums scheduled entries per month in ascending order and
// collects undated entries into the unscheduled bucket.
func AggregateMonthly(entries []cashflowdomain.Entry) cashflowdomain.MonthlyAggregate {
	type bucket struct {
		amounts  []float64
		projects map[string]struct{}
	}
	months := make(map[string]*bucket)
	unscheduled := &bucket{projects: map[string]struct{}{}}

	for _, e := range entries {
		b := unscheduled
		if e.Scheduled() {
			b = months[e.Month]
			if b == nil {
				b = &bucket{projects: map[string]struct{}{}}
				months[e.Month] = b
			}
		}
		b.amounts = append(b.amounts, e.Amount)
		b.projects[projectKey(e)] = struct{}{}
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := cashflowdomain.MonthlyAggregate{Months: make([]cashflowdomain.MonthlyRow, 0, len(keys))}
	for _, k := range keys {
		b := months[k]
		out.Months = append(out.Months, cashflowdomain.MonthlyRow{
			Month:        k,
			Total:        money.Sum(b.amounts...),
			ProjectCount: len(b.projects),
		})
	}
	out.Unscheduled = cashflowdomain.UnscheduledRow{
		Total:        money.Sum(unscheduled.amounts...),
		EntryCount:   len(unscheduled.amounts),
		ProjectCount: len(unscheduled.projects),
	}
	return out
}

// AggregateByBusinessLine totals entries per business line, largest first.
func AggregateByBusinessLine(entries []cashflowdomain.Entry) []cashflowdomain.GroupRow {
	return groupBy(entries, func(e cashflowdomain.Entry) string { return e.BusinessLine })
}

// AggregateByStageType totals entries per stage name, largest first.
func AggregateByStageType(entries []cashflowdomain.Entry) []cashflowdomain.GroupRow {
	return groupBy(entries, func(e cashflowdomain.Entry) string { return e.StageName })
}

func groupBy(entries []cashflowdomain.Entry, key func(cashflowdomain.Entry) string) []cashflowdomain.GroupRow {
	amounts := make(map[string][]float64)
	projects := make(map[string]map[string]struct{})
	for _, e := range entries {
		k := key(e)
		amounts[k] = append(amounts[k], e.Amount)
		if projects[k] == nil {
			projects[k] = map[string]struct{}{}
		}
		projects[k][projectKey(e)] = struct{}{}
	}

	rows := make([]cashflowdomain.GroupRow, 0, len(amounts))
	for k, vals := range amounts {
		rows = append(rows, cashflowdomain.GroupRow{
			Key:          k,
			Total:        money.Sum(vals...),
			ProjectCount: len(projects[k]),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// projectKey counts projects by display name, so several opportunities
// with one customer count once. Unnamed rows fall back to their record id.
func projectKey(e cashflowdomain.Entry) string {
	if e.ProjectName != "" {
		return "name:" + e.ProjectName
	}
	return "id:" + e.RecordID
}
