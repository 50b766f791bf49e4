package typedevent

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/typedevent/pkg/typedevent/config"
	"github.com/randalmurphal/typedevent/pkg/typedevent/observability"
)

// defaultName labels emitters constructed without WithName.
const defaultName = "typedevent"

// options holds configuration shared by an Emitter and its per-kind emitters.
type options struct {
	name         string
	logger       *slog.Logger
	metrics      observability.MetricsRecorder
	spans        observability.SpanManager
	maxListeners int

	// requiredKinds is the configured manifest New checks declarations against.
	requiredKinds []string
}

// defaultOptions returns the default configuration: no logging,
// no-op metrics and tracing, leak warnings off.
func defaultOptions() options {
	return options{
		name:    defaultName,
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures an Emitter or a standalone TypedEvent.
type Option func(*options)

// WithName sets the name used in logs. Empty names are ignored.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger enables structured logging of registrations, emits, and
// leak warnings. Registration and emit records are written at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
//
// Example:
//
//	em, err := typedevent.New(manifest, typedevent.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTracing sets the span manager used around each emit pass.
func WithTracing(s observability.SpanManager) Option {
	return func(o *options) {
		if s != nil {
			o.spans = s
		}
	}
}

// WithMaxListeners sets the per-kind listener count above which a
// possible leak is logged. Zero or negative disables the warning.
func WithMaxListeners(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxListeners = n
	}
}

// WithSettings applies loaded settings: name, leak threshold, OTel metrics
// and tracing, and the configured kind list. When s.Kinds is non-empty, New
// fails with ErrManifestMismatch unless the manifest declares exactly those kinds.
func WithSettings(s config.Settings) Option {
	return func(o *options) {
		WithName(s.Name)(o)
		WithMaxListeners(s.MaxListeners)(o)
		if s.Metrics {
			o.metrics = observability.NewMetricsRecorder()
		}
		if s.Tracing {
			o.spans = observability.NewSpanManager()
		}
		o.requiredKinds = append([]string(nil), s.Kinds...)
	}
}

// hooks is the instrumentation bound to one kind.
type hooks struct {
	emitterID    string
	kind         string
	logger       *slog.Logger
	metrics      observability.MetricsRecorder
	spans        observability.SpanManager
	maxListeners int
}

func (o *options) hooksFor(emitterID, kind string) *hooks {
	return &hooks{
		emitterID:    emitterID,
		kind:         kind,
		logger:       o.logger,
		metrics:      o.metrics,
		spans:        o.spans,
		maxListeners: o.maxListeners,
	}
}

func newEmitterID() string {
	return uuid.NewString()
}
