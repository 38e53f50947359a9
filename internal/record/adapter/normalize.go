// Package adapter turns raw record-store rows into engine projects. It is the
// only place where cell values of mixed types are interpreted.
package adapter

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/runway/internal/calendar"
	recorddomain "github.com/smallbiznis/runway/internal/record/domain"
	revenuedomain "github.com/smallbiznis/runway/internal/revenue/domain"
	revenueservice "github.com/smallbiznis/runway/internal/revenue/service"
)

// FieldError reports a cell that could not be interpreted. The affected
// value is defaulted on the returned project.
type FieldError struct {
	RecordID string
	Field    string
	Raw      any
	Err      error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("record %s field %s: %v", e.RecordID, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// NormalizeProject builds a fixed-shape Project from a row. Missing values
// default silently; unreadable values default and are reported.
func NormalizeProject(row recorddomain.Row) (revenuedomain.Project, []error) {
	n := normalizer{row: row, recordID: row.RecordID()}

	p := revenuedomain.Project{
		RecordID:     n.recordID,
		Customer:     n.text(customerFields),
		BusinessLine: n.text(businessLineFields),
	}
	if p.RecordID == "" {
		n.errs = append(n.errs, &FieldError{Field: recorddomain.RecordIDKey, Err: revenuedomain.ErrInvalidRecordID})
	}

	if amount, ok := n.amount(contractAmountFields); ok {
		if amount < 0 {
			n.fail(contractAmountFields, amount, revenuedomain.ErrInvalidAmount)
		} else {
			p.ContractAmount = amount
		}
	}

	p.WinProbability, p.WinProbabilityRaw = n.probability(winProbabilityFields)
	p.StartDate = n.date(startDateFields)
	p.DeliveryDate = n.date(deliveryDateFields)
	p.ExpectedCompletion = n.date(expectedCompletionFields)

	for i := 0; i < revenuedomain.StageCount; i++ {
		if ratio, ok := n.amount(stageRatioFields[i]); ok {
			p.StageRatios[i] = ratio
		}
		p.StageDates[i] = n.date(stageDateFields[i])
	}

	if override, ok := n.amount(manualOverrideFields); ok {
		if override < 0 {
			n.fail(manualOverrideFields, override, revenuedomain.ErrInvalidAmount)
		} else {
			p.ManualOverride = &override
		}
	}

	return p, n.errs
}

// NormalizeProjects normalizes every row, keeping per-row errors keyed by position.
func NormalizeProjects(rows []recorddomain.Row) ([]revenuedomain.Project, map[int][]error) {
	projects := make([]revenuedomain.Project, 0, len(rows))
	errs := make(map[int][]error)
	for i, row := range rows {
		p, rowErrs := NormalizeProject(row)
		projects = append(projects, p)
		if len(rowErrs) > 0 {
			errs[i] = rowErrs
		}
	}
	return projects, errs
}

type normalizer struct {
	row      recorddomain.Row
	recordID string
	errs     []error
}

func (n *normalizer) lookup(keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := n.row[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (n *normalizer) fail(keys []string, raw any, err error) {
	n.errs = append(n.errs, &FieldError{RecordID: n.recordID, Field: keys[0], Raw: raw, Err: err})
}

func (n *normalizer) text(keys []string) string {
	v, ok := n.lookup(keys)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		// multi-select cells arrive as lists; the first option wins
		if len(val) > 0 {
			return strings.TrimSpace(fmt.Sprint(val[0]))
		}
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// amount reads a numeric cell, stripping currency symbols and separators.
// Absent or blank cells report false without an error.
func (n *normalizer) amount(keys []string) (float64, bool) {
	v, ok := n.lookup(keys)
	if !ok {
		return 0, false
	}
	f, present, err := parseNumber(v)
	if err != nil {
		n.fail(keys, v, fmt.Errorf("%w: %v", revenuedomain.ErrInvalidAmount, err))
		return 0, false
	}
	return f, present
}

func (n *normalizer) probability(keys []string) (float64, string) {
	v, ok := n.lookup(keys)
	if !ok {
		return math.NaN(), ""
	}

	var raw string
	switch val := v.(type) {
	case float64:
		raw = strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		raw = strconv.Itoa(val)
	case int64:
		raw = strconv.FormatInt(val, 10)
	case json.Number:
		raw = val.String()
	default:
		raw = fmt.Sprint(val)
	}

	pct, err := revenueservice.ParseWinProbability(raw)
	if err != nil {
		n.fail(keys, v, err)
	}
	return pct, raw
}

func (n *normalizer) date(keys []string) *time.Time {
	v, ok := n.lookup(keys)
	if !ok {
		return nil
	}
	t, ok := calendar.ParseDate(v)
	if !ok {
		if s, isString := v.(string); isString && blank(s) {
			return nil
		}
		n.fail(keys, v, fmt.Errorf("unreadable date %v", v))
		return nil
	}
	return t
}

func parseNumber(v any) (float64, bool, error) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) {
			return 0, false, nil
		}
		return val, true, nil
	case float32:
		return float64(val), true, nil
	case int:
		return float64(val), true, nil
	case int64:
		return float64(val), true, nil
	case json.Number:
		f, err := val.Float64()
		return f, err == nil, err
	case string:
		s := strings.TrimSpace(val)
		s = strings.NewReplacer("¥", "", "￥", "", ",", "", "，", "", "%", "").Replace(s)
		if blank(s) {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, err
		}
		return f, true, nil
	default:
		return 0, false, fmt.Errorf("unsupported type %T", v)
	}
}

func blank(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "nat", "none", "null":
		return true
	}
	return false
}
