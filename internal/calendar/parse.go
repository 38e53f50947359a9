package calendar

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// epochMillisFloor separates epoch milliseconds from compact date digits
// such as 20240115.
const epochMillisFloor = 100_000_000_000

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"02/01/2006",
	"02-01-2006",
	"20060102",
	"200601",
	"2006-01",
}

// ParseDate converts a raw cell value into a UTC time. Supported inputs are
// time values, epoch milliseconds (numeric or numeric string) and the common
// textual layouts. Empty or unparsable input reports false.
func ParseDate(v any) (*time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case time.Time:
		if val.IsZero() {
			return nil, false
		}
		t := val.UTC()
		return &t, true
	case *time.Time:
		if val == nil || val.IsZero() {
			return nil, false
		}
		t := val.UTC()
		return &t, true
	case int:
		return fromMillis(float64(val))
	case int64:
		return fromMillis(float64(val))
	case float64:
		return fromMillis(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, false
		}
		return fromMillis(f)
	case string:
		return parseString(val)
	default:
		return nil, false
	}
}

func parseString(raw string) (*time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, false
	}
	switch strings.ToLower(s) {
	case "nan", "nat", "none", "null":
		return nil, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= epochMillisFloor {
		return fromMillis(f)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	return nil, false
}

func fromMillis(ms float64) (*time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms <= 0 {
		return nil, false
	}
	t := time.UnixMilli(int64(ms)).UTC()
	return &t, true
}

// ToMillis converts a date into epoch milliseconds; nil maps to nil.
func ToMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}
