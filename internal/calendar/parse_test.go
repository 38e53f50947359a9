package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_EpochMillis(t *testing.T) {
	want := date(2024, 3, 15)
	ms := want.UnixMilli()

	for _, raw := range []any{ms, float64(ms), json.Number("1710460800000"), "1710460800000"} {
		got, ok := ParseDate(raw)
		require.True(t, ok, "%v", raw)
		assert.True(t, want.Equal(*got), "%v", raw)
	}
}

func TestParseDate_Strings(t *testing.T) {
	cases := map[string]time.Time{
		"2024-03-15":           date(2024, 3, 15),
		"2024/03/15":           date(2024, 3, 15),
		"15/03/2024":           date(2024, 3, 15),
		"20240315":             date(2024, 3, 15),
		"2024-03-15 10:30:00":  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		"2024-03-15T00:00:00Z": date(2024, 3, 15),
	}
	for raw, want := range cases {
		got, ok := ParseDate(raw)
		require.True(t, ok, raw)
		assert.True(t, want.Equal(*got), raw)
	}
}

func TestParseDate_Absent(t *testing.T) {
	for _, raw := range []any{nil, "", "  ", "NaT", "nan", "not a date", 0, time.Time{}, struct{}{}} {
		got, ok := ParseDate(raw)
		assert.False(t, ok, "%v", raw)
		assert.Nil(t, got)
	}
}

func TestToMillis(t *testing.T) {
	assert.Nil(t, ToMillis(nil))
	d := date(2024, 1, 1)
	assert.Equal(t, d.UnixMilli(), *ToMillis(&d))
}
