package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	revenuedomain "github.com/smallbiznis/runway/internal/revenue/domain"
)

// ParseWinProbability reads a percentage such as "80", "80%" or the range
// "50-80" (midpoint). Absent input yields NaN with no error. Values outside
// [0, 100] or unreadable text yield NaN with ErrAmbiguousWinProbability.
func ParseWinProbability(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "％", "%")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, "～", "-")
	s = strings.ReplaceAll(s, "~", "-")
	s = strings.TrimSpace(s)

	switch strings.ToLower(s) {
	case "", "nan", "none", "null":
		return math.NaN(), nil
	}

	var value float64
	if lo, hi, ok := splitRange(s); ok {
		a, errA := strconv.ParseFloat(lo, 64)
		b, errB := strconv.ParseFloat(hi, 64)
		if errA != nil || errB != nil {
			return math.NaN(), fmt.Errorf("%w: %q", revenuedomain.ErrAmbiguousWinProbability, raw)
		}
		value = (a + b) / 2
	} else {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN(), fmt.Errorf("%w: %q", revenuedomain.ErrAmbiguousWinProbability, raw)
		}
		value = v
	}

	if math.IsNaN(value) || value < 0 || value > 100 {
		return math.NaN(), fmt.Errorf("%w: %q out of range", revenuedomain.ErrAmbiguousWinProbability, raw)
	}
	return value, nil
}

// splitRange splits "a-b" while leaving a leading minus sign alone.
func splitRange(s string) (string, string, bool) {
	idx := strings.Index(s[1:], "-")
	if idx < 0 {
		return "", "", false
	}
	idx++
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+1:]), true
}
