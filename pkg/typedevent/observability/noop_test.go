package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}

	assert.NotPanics(t, func() {
		m.RecordEmit(context.Background(), "greet", 3, time.Millisecond)
		m.RecordEmit(context.Background(), "", 0, 0)
		m.RecordListeners(context.Background(), "greet", ModeOnce, -1)
	})
}

func TestNoopSpanManager(t *testing.T) {
	sm := NoopSpanManager{}
	ctx := context.Background()

	newCtx, span := sm.StartEmitSpan(ctx, "em-1", "greet")
	assert.Equal(t, ctx, newCtx, "noop manager returns the context unchanged")
	assert.False(t, span.IsRecording())

	assert.NotPanics(t, func() {
		sm.AddSpanEvent(ctx, "event", attribute.String("k", "v"))
		sm.EndSpanWithError(span, errors.New("boom"))
		sm.EndSpanWithError(nil, nil)
	})
}
