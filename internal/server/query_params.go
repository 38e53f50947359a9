package server

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/runway/internal/calendar"
)

var (
	errInvalidNumber = errors.New("invalid_number")
	errInvalidTime   = errors.New("invalid_time")
	errInvalidID     = errors.New("invalid_snowflake_id")
)

// optional runs parse on a trimmed value. Blank input means "not provided"
// and yields nil without error.
func optional[T any](raw string, parse func(string) (T, error)) (*T, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := parse(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseOptionalBool(raw string) (*bool, error) { return optional(raw, strconv.ParseBool) }

func parseOptionalInt(raw string) (*int, error) { return optional(raw, strconv.Atoi) }

func parseOptionalFloat(raw string) (*float64, error) {
	return optional(raw, func(s string) (float64, error) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, errInvalidNumber
		}
		return f, nil
	})
}

// parseOptionalTime accepts every layout calendar.ParseDate knows, including
// epoch milliseconds. With endOfDay a bare date covers the whole day.
func parseOptionalTime(raw string, endOfDay bool) (*time.Time, error) {
	t, err := optional(raw, func(s string) (time.Time, error) {
		parsed, ok := calendar.ParseDate(s)
		if !ok {
			return time.Time{}, errInvalidTime
		}
		return *parsed, nil
	})
	if err != nil || t == nil {
		return nil, err
	}
	if endOfDay && t.Equal(t.Truncate(24*time.Hour)) {
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		return &end, nil
	}
	return t, nil
}

func parseSnowflakeID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
