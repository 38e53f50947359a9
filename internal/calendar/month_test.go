package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths_ClampsToMonthEnd(t *testing.T) {
	assert.Equal(t, date(2024, 2, 29), AddMonths(date(2024, 1, 31), 1))
	assert.Equal(t, date(2023, 2, 28), AddMonths(date(2023, 1, 31), 1))
	assert.Equal(t, date(2024, 4, 30), AddMonths(date(2024, 3, 31), 1))
	assert.Equal(t, date(2025, 1, 15), AddMonths(date(2024, 1, 15), 12))
}

func TestAddMonths_Negative(t *testing.T) {
	assert.Equal(t, date(2023, 12, 31), AddMonths(date(2024, 1, 31), -1))
	assert.Equal(t, date(2024, 2, 29), AddMonths(date(2024, 3, 31), -1))
	assert.Equal(t, date(2022, 11, 15), AddMonths(date(2024, 1, 15), -14))
}

func TestMonthRange(t *testing.T) {
	keys := MonthRange(date(2024, 11, 20), 4)
	assert.Equal(t, []string{"2024-11", "2024-12", "2025-01", "2025-02"}, keys)
	assert.Empty(t, MonthRange(date(2024, 1, 1), 0))
}

func TestMonthHelpers(t *testing.T) {
	assert.Equal(t, date(2024, 2, 1), MonthStart(date(2024, 2, 17)))
	assert.Equal(t, date(2024, 2, 29), MonthEnd(date(2024, 2, 17)))
	assert.Equal(t, 14, MonthsBetween(date(2023, 11, 30), date(2025, 1, 1)))
	assert.Equal(t, "", MonthKeyOf(nil))

	m, err := ParseMonth("2024-07")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 7, 1), m)
	_, err = ParseMonth("07/2024")
	assert.Error(t, err)
}
