package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStagesCodec_RoundTripKeepsEpochMillis(t *testing.T) {
	d := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	raw, err := EncodeStages([]Stage{
		{Name: "首付款", Ratio: 0.5, Date: &d, Amount: 12},
		{Name: "质保金", Ratio: 0.5},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"首付款","ratio":0.5,"date":1717113600000},{"name":"质保金","ratio":0.5,"date":null}]`, string(raw))

	stages, err := DecodeStages(raw)
	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.True(t, d.Equal(*stages[0].Date))
	assert.Nil(t, stages[1].Date)
	assert.Equal(t, 0.0, stages[0].Amount)
}

func TestDecodeStages_AcceptsDateStrings(t *testing.T) {
	stages, err := DecodeStages([]byte(`[{"name":"a","ratio":1,"date":"2024-03-01"}]`))
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.Equal(t, "2024-03", stages[0].Month())
}

func TestDecodeStages_Invalid(t *testing.T) {
	_, err := DecodeStages([]byte(`{"name":"a"}`))
	assert.True(t, errors.Is(err, ErrInvalidStages))

	stages, err := DecodeStages(nil)
	require.NoError(t, err)
	assert.Empty(t, stages)
}
