package typedevent

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/typedevent/pkg/typedevent/observability"
)

// errListenerPanicked marks an emit span that ended while a listener panicked.
var errListenerPanicked = errors.New("listener panicked")

// TypedEvent is an emitter for a single payload type.
//
// Listeners run synchronously on the goroutine that calls Emit, in
// registration order: persistent listeners first, then one-shot listeners.
// All methods are safe for concurrent use, and listeners may call back into
// the same TypedEvent.
type TypedEvent[T any] struct {
	h *hooks

	mu sync.Mutex
	// persistent is copy-on-write: removal always builds a new backing array,
	// so an in-flight Emit can iterate the slice header it captured.
	persistent []*Listener[T]
	once       []onceEntry[T]
	nextSeq    uint64
	leaking    bool
}

// onceEntry is a one-shot registration. seq orders registrations so a pass
// only takes the ones made before it started.
type onceEntry[T any] struct {
	seq uint64
	l   *Listener[T]
}

// NewTypedEvent creates a standalone emitter for payloads of type T.
// WithName sets the kind label used in logs, metrics, and spans.
func NewTypedEvent[T any](opts ...Option) *TypedEvent[T] {
	o := buildOptions(opts)
	id := newEmitterID()
	o.logger = observability.EnrichLogger(o.logger, id, o.name)
	return newTypedEvent[T](o.hooksFor(id, o.name))
}

func newTypedEvent[T any](h *hooks) *TypedEvent[T] {
	return &TypedEvent[T]{h: h}
}

// Kind returns the kind label of this emitter.
func (e *TypedEvent[T]) Kind() string {
	return e.h.kind
}

// On registers l to run on every Emit. The returned handle removes that
// registration; disposing it is the same as calling Off(l).
//
// Registering the same listener twice adds two independent slots.
// On panics if l is nil.
func (e *TypedEvent[T]) On(l *Listener[T]) Disposable {
	if l == nil {
		panic("typedevent: nil listener")
	}

	e.mu.Lock()
	e.persistent = append(e.persistent, l)
	count, leak := e.countLocked()
	e.mu.Unlock()

	e.added(observability.ModePersistent, count, leak)
	return DisposeFunc(func() { e.Off(l) })
}

// Once registers l to run on the next Emit only.
// Once panics if l is nil.
func (e *TypedEvent[T]) Once(l *Listener[T]) {
	if l == nil {
		panic("typedevent: nil listener")
	}

	e.mu.Lock()
	e.once = append(e.once, onceEntry[T]{seq: e.nextSeq, l: l})
	e.nextSeq++
	count, leak := e.countLocked()
	e.mu.Unlock()

	e.added(observability.ModeOnce, count, leak)
}

// Off removes the first registration of l from the persistent listeners.
// It is a no-op if l is not registered. One-shot registrations are not
// affected.
func (e *TypedEvent[T]) Off(l *Listener[T]) {
	e.mu.Lock()
	i := slices.Index(e.persistent, l)
	if i < 0 {
		e.mu.Unlock()
		return
	}
	next := make([]*Listener[T], 0, len(e.persistent)-1)
	next = append(next, e.persistent[:i]...)
	next = append(next, e.persistent[i+1:]...)
	e.persistent = next
	count, _ := e.countLocked()
	e.mu.Unlock()

	e.h.metrics.RecordListeners(context.Background(), e.h.kind, observability.ModePersistent, -1)
	observability.LogListenerRemoved(e.h.logger, e.h.kind, count)
}

// Emit delivers payload to every registered listener. See EmitContext.
func (e *TypedEvent[T]) Emit(payload T) {
	e.EmitContext(context.Background(), payload)
}

// EmitContext delivers payload to every persistent listener registered
// when the call starts, in registration order, and then to every one-shot
// listener registered before the call started. One-shot listeners are
// removed right before they run. Listeners registered while the pass runs
// are not invoked by it; a listener removed while the pass runs still is.
//
// ctx carries the trace span for the pass; it is not passed to listeners
// and does not cancel them. A panicking listener is not recovered: the
// panic reaches the caller and the rest of the pass is skipped. One-shot
// listeners not yet taken by the pass stay registered.
func (e *TypedEvent[T]) EmitContext(ctx context.Context, payload T) {
	e.mu.Lock()
	persistent := e.persistent
	cutoff := e.nextSeq
	e.mu.Unlock()

	ctx, span := e.h.spans.StartEmitSpan(ctx, e.h.emitterID, e.h.kind)
	start := time.Now()
	completed := false
	defer func() {
		if completed {
			e.h.spans.EndSpanWithError(span, nil)
			return
		}
		e.h.spans.EndSpanWithError(span, errListenerPanicked)
	}()

	for _, l := range persistent {
		l.fn(payload)
	}

	once := e.takeOnce(cutoff)
	if len(once) > 0 {
		e.h.metrics.RecordListeners(ctx, e.h.kind, observability.ModeOnce, -int64(len(once)))
		e.h.spans.AddSpanEvent(ctx, "once.drained", attribute.Int("listeners", len(once)))
	}
	for _, o := range once {
		o.l.fn(payload)
	}
	completed = true

	duration := time.Since(start)
	invoked := len(persistent) + len(once)
	e.h.metrics.RecordEmit(ctx, e.h.kind, invoked, duration)
	observability.LogEmit(e.h.logger, e.h.kind, len(persistent), len(once),
		float64(duration.Microseconds())/1000)
}

// takeOnce removes and returns the one-shot registrations made before
// cutoff. Registrations already taken by a nested or concurrent pass, or
// dropped by Clear, are not returned again.
func (e *TypedEvent[T]) takeOnce(cutoff uint64) []onceEntry[T] {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for n < len(e.once) && e.once[n].seq < cutoff {
		n++
	}
	if n == 0 {
		return nil
	}
	taken := e.once[:n]
	e.once = slices.Clone(e.once[n:])
	e.countLocked()
	return taken
}

// Pipe forwards every payload emitted here to dst. Dispose the returned
// handle to stop forwarding. Piping an emitter into itself recurses until
// the stack overflows.
func (e *TypedEvent[T]) Pipe(dst *TypedEvent[T]) Disposable {
	return e.On(Listen(dst.Emit))
}

// Clear removes every persistent and one-shot listener and returns how
// many registrations were dropped.
func (e *TypedEvent[T]) Clear() int {
	e.mu.Lock()
	persistent, once := len(e.persistent), len(e.once)
	e.persistent = nil
	e.once = nil
	e.leaking = false
	e.mu.Unlock()

	ctx := context.Background()
	e.h.metrics.RecordListeners(ctx, e.h.kind, observability.ModePersistent, -int64(persistent))
	e.h.metrics.RecordListeners(ctx, e.h.kind, observability.ModeOnce, -int64(once))
	observability.LogCleared(e.h.logger, e.h.kind, persistent+once)
	return persistent + once
}

// ListenerCount returns the number of registrations, persistent and one-shot.
func (e *TypedEvent[T]) ListenerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.persistent) + len(e.once)
}

// OnceCount returns the number of pending one-shot registrations.
func (e *TypedEvent[T]) OnceCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.once)
}

// countLocked returns the registration count and whether this call crossed
// the leak threshold. The warning fires once per crossing and re-arms when
// the count falls back to the threshold. Callers must hold e.mu.
func (e *TypedEvent[T]) countLocked() (int, bool) {
	count := len(e.persistent) + len(e.once)
	limit := e.h.maxListeners
	if limit <= 0 || count <= limit {
		e.leaking = false
		return count, false
	}
	if e.leaking {
		return count, false
	}
	e.leaking = true
	return count, true
}

func (e *TypedEvent[T]) added(mode string, count int, leak bool) {
	e.h.metrics.RecordListeners(context.Background(), e.h.kind, mode, 1)
	observability.LogListenerAdded(e.h.logger, e.h.kind, mode, count)
	if leak {
		observability.LogListenerLeak(e.h.logger, e.h.kind, count, e.h.maxListeners)
	}
}
