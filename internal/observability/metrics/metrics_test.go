package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

func TestFilterAttributesDropsUnknownLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("record_id", "rec1"),
		attribute.String("customer", "acme"),
		attribute.String("reason", "ambiguous_win_probability"),
	)
	require.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("reason"), attrs[0].Key)
}

func TestDisabledProviderRecordsWithoutPanicking(t *testing.T) {
	cfg := Config{Enabled: false, ServiceName: "runway-test"}
	provider, err := NewProvider(nil, cfg, zap.NewNop())
	require.NoError(t, err)

	m, err := New(cfg, provider)
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordForecastRun(ctx, "ok")
		m.RecordDegradedProject(ctx, "ambiguous_win_probability")
		m.RecordStaleOverrides(ctx, 2)
		m.RecordScheduleRejection(ctx)
		m.RecordOverrideWrite(ctx)
	})
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordForecastRun(context.Background(), "ok")
		m.RecordScheduleRejection(context.Background())
	})
}
