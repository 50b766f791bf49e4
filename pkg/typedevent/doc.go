// Package typedevent provides strongly typed, synchronous, in-process event
// emitters as a replacement for a single untyped event bus.
//
// # Overview
//
// There are two building blocks:
//
//   - TypedEvent[T]: an emitter for one payload type
//   - Emitter: a registry of kinds fixed at construction, each kind bound to
//     its own payload type through Kind[T]
//
// Both keep two ordered listener lists per kind: persistent listeners added
// with On and one-shot listeners added with Once.
//
// # Per-type Emitters
//
//	var resized = typedevent.NewTypedEvent[Size]()
//
//	l := typedevent.Listen(func(s Size) { redraw(s) })
//	handle := resized.On(l)
//	defer handle.Dispose()
//
//	resized.Emit(Size{W: 80, H: 24})
//
// # Manifest Emitters
//
// Kinds are declared once and listed in a Manifest:
//
//	var (
//	    Greet = typedevent.NewKind[string]("greet")
//	    Count = typedevent.NewKind[int]("count")
//	)
//
//	em, err := typedevent.New(typedevent.Manifest{Greet, Count})
//	if err != nil {
//	    return err
//	}
//
//	_, err = typedevent.On(em, Greet, typedevent.Listen(func(s string) {
//	    fmt.Println("hello", s)
//	}))
//
//	err = typedevent.Emit(em, Greet, "world") // compile error if the payload is not a string
//
// Operations on a kind outside the manifest return an error matching
// ErrUnknownEventKind.
//
// # Dispatch Rules
//
// Emit runs every listener on the calling goroutine before returning.
// The listener lists are captured when Emit starts:
//
//   - persistent listeners run first, then one-shot listeners, each in
//     registration order
//   - one-shot listeners registered before the pass are removed after the
//     persistent listeners have run and right before they run themselves
//   - listeners added during the pass wait for the next Emit
//   - listeners removed during the pass still run in it
//
// No lock is held while listeners run, so listeners may register, remove,
// and emit on the same emitter. A panic in a listener is not recovered; it
// propagates to the Emit caller and the remaining listeners of that pass
// are skipped. One-shot listeners the pass had not yet taken stay
// registered for the next Emit.
//
// # Listener Identity
//
// Go functions are not comparable, so a listener is identified by the
// *Listener returned from Listen. Register the same *Listener twice and it
// occupies two slots; Off removes the first.
//
// # Observability
//
// Logging (log/slog), OpenTelemetry metrics, and OpenTelemetry tracing are
// opt-in through WithLogger, WithMetrics, WithTracing, or WithSettings with
// settings loaded by the config package. WithMaxListeners logs a warning
// when a kind accumulates more listeners than expected.
package typedevent
