package pdf

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	cashflowdomain "github.com/smallbiznis/runway/internal/cashflow/domain"
	forecastdomain "github.com/smallbiznis/runway/internal/forecast/domain"
	runwaydomain "github.com/smallbiznis/runway/internal/runway/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReport(t *testing.T) {
	report := &forecastdomain.Report{
		RunID:         "01J000000000000000000000",
		GeneratedAt:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		ReferenceDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Forecast: []cashflowdomain.ForecastRow{
			{Month: "2025-03", Amount: 10, Cumulative: 10},
			{Month: "2025-04", Amount: 5, Cumulative: 15},
		},
		Runway: runwaydomain.Result{
			RunwayMonths: 2,
			InitialCash:  100,
			MinBalance:   80,
			HasData:      true,
			Months: []runwaydomain.MonthRow{
				{Month: "2025-03", TotalIncome: 10, TotalCost: 20, Balance: 90},
				{Month: "2025-04", TotalIncome: 5, TotalCost: 15, Balance: 80},
			},
		},
		Warnings: []forecastdomain.Warning{
			{Kind: forecastdomain.WarningStaleOverride, RecordID: "rec9", Message: "override references no known project"},
		},
	}

	r, err := New().GenerateReport(context.Background(), report)
	require.NoError(t, err)
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestGenerateReport_NilReport(t *testing.T) {
	_, err := New().GenerateReport(context.Background(), nil)
	assert.Error(t, err)
}

func TestNew_RendersEmptyReport(t *testing.T) {
	p := New()
	require.IsType(t, &PDFProvider{}, p)

	r, err := p.GenerateReport(context.Background(), &forecastdomain.Report{})
	require.NoError(t, err)
	require.NotNil(t, r)
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

