package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records registry metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordBind records a write and the number of bindings after it.
	RecordBind(ctx context.Context, strategy string, bindings int)

	// RecordLookup records a lookup and whether it found a binding.
	RecordLookup(ctx context.Context, strategy string, hit bool)

	// RecordShutdown records a registry shutdown.
	RecordShutdown(ctx context.Context, strategy string, duration time.Duration, failures int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	binds           metric.Int64Counter
	bindings        metric.Int64Histogram
	lookups         metric.Int64Counter
	shutdownLatency metric.Float64Histogram
	shutdownErrors  metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("servicebinding")

	binds, err := meter.Int64Counter("servicebinding.binds",
		metric.WithDescription("Number of bindings written"),
	)
	if err != nil {
		return nil, err
	}

	bindings, err := meter.Int64Histogram("servicebinding.bindings",
		metric.WithDescription("Number of bindings in the store after a write"),
	)
	if err != nil {
		return nil, err
	}

	lookups, err := meter.Int64Counter("servicebinding.lookups",
		metric.WithDescription("Number of binding lookups"),
	)
	if err != nil {
		return nil, err
	}

	shutdownLatency, err := meter.Float64Histogram("servicebinding.shutdown.latency_ms",
		metric.WithDescription("Registry shutdown latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	shutdownErrors, err := meter.Int64Counter("servicebinding.shutdown.errors",
		metric.WithDescription("Number of services that failed to stop"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		binds:           binds,
		bindings:        bindings,
		lookups:         lookups,
		shutdownLatency: shutdownLatency,
		shutdownErrors:  shutdownErrors,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordBind records a write.
func (m *otelMetrics) RecordBind(ctx context.Context, strategy string, bindings int) {
	attrs := metric.WithAttributes(attribute.String("strategy", strategy))
	m.binds.Add(ctx, 1, attrs)
	m.bindings.Record(ctx, int64(bindings), attrs)
}

// RecordLookup records a lookup.
func (m *otelMetrics) RecordLookup(ctx context.Context, strategy string, hit bool) {
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.Bool("hit", hit),
	))
}

// RecordShutdown records a registry shutdown.
func (m *otelMetrics) RecordShutdown(ctx context.Context, strategy string, duration time.Duration, failures int) {
	attrs := metric.WithAttributes(attribute.String("strategy", strategy))
	m.shutdownLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if failures > 0 {
		m.shutdownErrors.Add(ctx, int64(failures), attrs)
	}
}
