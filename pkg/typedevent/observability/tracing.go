package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the typedevent tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("typedevent")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartEmitSpan starts a span covering one emit pass.
	StartEmitSpan(ctx context.Context, emitterID, kind string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager takes its tracer from the global OTel tracer provider at
// construction. Configure the provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{tracer: otel.Tracer("typedevent")}
}

// StartEmitSpan starts a span covering one emit pass.
func (m *otelSpanManager) StartEmitSpan(ctx context.Context, emitterID, kind string) (context.Context, trace.Span) {
	return startEmitSpan(ctx, m.tracer, emitterID, kind)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// StartEmitSpan starts a span covering one emit pass.
// Uses the global OTel tracer.
func StartEmitSpan(ctx context.Context, emitterID, kind string) (context.Context, trace.Span) {
	return startEmitSpan(ctx, tracer, emitterID, kind)
}

func startEmitSpan(ctx context.Context, t trace.Tracer, emitterID, kind string) (context.Context, trace.Span) {
	return t.Start(ctx, "typedevent.emit",
		trace.WithAttributes(
			attribute.String("emitter.id", emitterID),
			attribute.String("event.kind", kind),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
