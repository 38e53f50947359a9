// Package ctxlogger decorates zap loggers with the run, trace and record
// identifiers carried on a context.
package ctxlogger

import (
	"context"
	"sync/atomic"

	"github.com/smallbiznis/runway/pkg/telemetry/correlation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type recordIDKey struct{}

var serviceName atomic.Value // string

func SetServiceName(name string) {
	serviceName.Store(name)
}

// ContextWithRecordID scopes subsequent log lines to one project record.
func ContextWithRecordID(ctx context.Context, recordID string) context.Context {
	if recordID == "" {
		return ctx
	}
	return context.WithValue(ctx, recordIDKey{}, recordID)
}

// WithContext returns base with run_id, service and, when present, trace,
// span and record ids attached.
func WithContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil || base == nil {
		return base
	}

	name, _ := serviceName.Load().(string)
	if name == "" {
		name = "runway"
	}
	fields := []zap.Field{
		zap.String("run_id", correlation.ExtractCorrelationID(ctx)),
		zap.String("service", name),
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.Stringer("trace_id", sc.TraceID()),
			zap.Stringer("span_id", sc.SpanID()),
		)
	}
	if recordID, ok := ctx.Value(recordIDKey{}).(string); ok {
		fields = append(fields, zap.String("record_id", recordID))
	}
	return base.With(fields...)
}
