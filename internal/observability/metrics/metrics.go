package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes forecasting instruments.
type Metrics struct {
	forecastRuns       metric.Int64Counter
	degradedProjects   metric.Int64Counter
	staleOverrides     metric.Int64Counter
	scheduleRejections metric.Int64Counter
	overrideWrites     metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "runway"
	}
	meter := provider.Meter(name)

	forecastRuns, err := meter.Int64Counter("runway_forecast_runs_total")
	if err != nil {
		return nil, err
	}
	degradedProjects, err := meter.Int64Counter("runway_degraded_projects_total")
	if err != nil {
		return nil, err
	}
	staleOverrides, err := meter.Int64Counter("runway_stale_overrides_total")
	if err != nil {
		return nil, err
	}
	scheduleRejections, err := meter.Int64Counter("runway_schedule_rejections_total")
	if err != nil {
		return nil, err
	}
	overrideWrites, err := meter.Int64Counter("runway_override_writes_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		forecastRuns:       forecastRuns,
		degradedProjects:   degradedProjects,
		staleOverrides:     staleOverrides,
		scheduleRejections: scheduleRejections,
		overrideWrites:     overrideWrites,
	}, nil
}

// RecordForecastRun counts completed forecast runs by outcome.
func (m *Metrics) RecordForecastRun(ctx context.Context, status string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("status", strings.TrimSpace(status)))
	m.forecastRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordDegradedProject counts projects whose contribution was defaulted.
func (m *Metrics) RecordDegradedProject(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.degradedProjects.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordStaleOverrides counts overrides pointing at unknown projects.
func (m *Metrics) RecordStaleOverrides(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.staleOverrides.Add(ctx, int64(n))
}

// RecordScheduleRejection counts schedule saves rejected by validation.
func (m *Metrics) RecordScheduleRejection(ctx context.Context) {
	if m == nil {
		return
	}
	m.scheduleRejections.Add(ctx, 1)
}

// RecordOverrideWrite counts override upserts.
func (m *Metrics) RecordOverrideWrite(ctx context.Context) {
	if m == nil {
		return
	}
	m.overrideWrites.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"status":        {},
	"reason":        {},
	"business_line": {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
