package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(func() prometheus.Registerer { return prometheus.DefaultRegisterer }),
	fx.Provide(NewMetrics),
)

// Metrics exposes Prometheus primitives for the HTTP surface.
type Metrics struct {
	apiRequests    *prometheus.CounterVec
	apiDuration    *prometheus.HistogramVec
	reportDuration prometheus.Histogram
	reportProjects prometheus.Gauge
	reportRunway   prometheus.Gauge
}

// NewMetrics registers and returns the API metrics on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	apiRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "runway_api_requests_total",
		Help: "Counts API requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	apiDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "runway_api_duration_seconds",
		Help:    "API request latency per method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	reportDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "runway_report_duration_seconds",
		Help:    "Time spent building a forecast report.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})

	reportProjects := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "runway_report_projects",
		Help: "Projects included in the latest forecast report.",
	})

	reportRunway := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "runway_report_runway_months",
		Help: "Runway months computed by the latest forecast report.",
	})

	collectors := []prometheus.Collector{apiRequests, apiDuration, reportDuration, reportProjects, reportRunway}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &Metrics{
		apiRequests:    apiRequests,
		apiDuration:    apiDuration,
		reportDuration: reportDuration,
		reportProjects: reportProjects,
		reportRunway:   reportRunway,
	}, nil
}

// ObserveAPIRequest records an API request and latency.
func (m *Metrics) ObserveAPIRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	route = sanitizeLabel(route)
	m.apiRequests.WithLabelValues(method, route, sanitizeLabel(status)).Inc()
	m.apiDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveReport records the outcome of one served forecast report.
func (m *Metrics) ObserveReport(projects, runwayMonths int, duration time.Duration) {
	if m == nil {
		return
	}
	m.reportDuration.Observe(duration.Seconds())
	m.reportProjects.Set(float64(projects))
	m.reportRunway.Set(float64(runwayMonths))
}

func sanitizeLabel(val string) string {
	if val == "" {
		return "unknown"
	}
	return val
}
