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

// Listener modes reported on typedevent.listeners.active.
const (
	ModePersistent = "persistent"
	ModeOnce       = "once"
)

// MetricsRecorder records typedevent metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEmit records an emit pass with the number of listeners it invoked.
	RecordEmit(ctx context.Context, kind string, invoked int, duration time.Duration)

	// RecordListeners records a change in the number of registered listeners.
	// delta is negative on removal.
	RecordListeners(ctx context.Context, kind, mode string, delta int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	emits     metric.Int64Counter
	latency   metric.Float64Histogram
	invoked   metric.Int64Counter
	listeners metric.Int64UpDownCounter
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
	meter := otel.Meter("typedevent")

	emits, err := meter.Int64Counter("typedevent.emits",
		metric.WithDescription("Number of emit passes"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("typedevent.emit.latency_ms",
		metric.WithDescription("Emit pass latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	invoked, err := meter.Int64Counter("typedevent.listeners.invoked",
		metric.WithDescription("Number of listener invocations"),
	)
	if err != nil {
		return nil, err
	}

	listeners, err := meter.Int64UpDownCounter("typedevent.listeners.active",
		metric.WithDescription("Number of registered listeners"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		emits:     emits,
		latency:   latency,
		invoked:   invoked,
		listeners: listeners,
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

// RecordEmit records an emit pass.
func (m *otelMetrics) RecordEmit(ctx context.Context, kind string, invoked int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("kind", kind))

	m.emits.Add(ctx, 1, attrs)
	m.latency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if invoked > 0 {
		m.invoked.Add(ctx, int64(invoked), attrs)
	}
}

// RecordListeners records a listener count change.
func (m *otelMetrics) RecordListeners(ctx context.Context, kind, mode string, delta int64) {
	if delta == 0 {
		return
	}
	m.listeners.Add(ctx, delta, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("mode", mode),
	))
}
