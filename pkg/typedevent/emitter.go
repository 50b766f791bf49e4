package typedevent

import (
	"context"
	"fmt"
	"slices"

	"github.com/randalmurphal/typedevent/pkg/typedevent/observability"
)

// Emitter dispatches payloads for a fixed manifest of kinds, each bound to
// its own payload type. Every declared kind is backed by a TypedEvent.
//
// Operations that carry a payload type are package functions (On, Once,
// Off, Emit, EmitContext, Event) because Go methods cannot declare type
// parameters.
type Emitter struct {
	id    string
	name  string
	opts  options
	kinds []string
	slots map[string]slot
}

// New creates an Emitter for the kinds in m.
//
// New fails if a declaration is nil or unnamed (ErrInvalidKind), if a name
// repeats (ErrDuplicateKind), or if WithSettings supplied a kind list that
// differs from m (ErrManifestMismatch).
func New(m Manifest, opts ...Option) (*Emitter, error) {
	o := buildOptions(opts)
	id := newEmitterID()
	o.logger = observability.EnrichLogger(o.logger, id, o.name)

	e := &Emitter{
		id:    id,
		name:  o.name,
		opts:  o,
		kinds: make([]string, 0, len(m)),
		slots: make(map[string]slot, len(m)),
	}

	for _, d := range m {
		if d == nil {
			return nil, &KindError{Op: "declare", Err: ErrInvalidKind}
		}
		name := d.Name()
		if name == "" {
			return nil, &KindError{Op: "declare", Err: ErrInvalidKind}
		}
		if _, dup := e.slots[name]; dup {
			return nil, &KindError{Op: "declare", Kind: name, Err: ErrDuplicateKind}
		}
		e.slots[name] = d.newSlot(o.hooksFor(id, name))
		e.kinds = append(e.kinds, name)
	}

	if err := e.checkManifest(); err != nil {
		return nil, err
	}

	observability.LogEmitterReady(o.logger, e.kinds)
	return e, nil
}

// MustNew is like New but panics on error.
func MustNew(m Manifest, opts ...Option) *Emitter {
	e, err := New(m, opts...)
	if err != nil {
		panic(fmt.Sprintf("typedevent: %v", err))
	}
	return e
}

// checkManifest compares declared kinds against the configured kind list.
func (e *Emitter) checkManifest() error {
	required := e.opts.requiredKinds
	if len(required) == 0 {
		return nil
	}

	var missing, extra []string
	for _, k := range required {
		if _, ok := e.slots[k]; !ok {
			missing = append(missing, k)
		}
	}
	for _, k := range e.kinds {
		if !slices.Contains(required, k) {
			extra = append(extra, k)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	return fmt.Errorf("%w: undeclared %v, not configured %v", ErrManifestMismatch, missing, extra)
}

// ID returns the unique identifier assigned at construction.
func (e *Emitter) ID() string {
	return e.id
}

// Name returns the emitter name.
func (e *Emitter) Name() string {
	return e.name
}

// Kinds returns the declared kind names in declaration order.
func (e *Emitter) Kinds() []string {
	return slices.Clone(e.kinds)
}

// Has reports whether name is part of the manifest.
func (e *Emitter) Has(name string) bool {
	_, ok := e.slots[name]
	return ok
}

// ListenerCount returns the number of registrations, persistent and
// one-shot, for the named kind.
func (e *Emitter) ListenerCount(name string) (int, error) {
	s, err := e.slotFor("count", name)
	if err != nil {
		return 0, err
	}
	return s.ListenerCount(), nil
}

// Clear removes every listener registered for the named kind.
func (e *Emitter) Clear(name string) error {
	s, err := e.slotFor("clear", name)
	if err != nil {
		return err
	}
	s.Clear()
	return nil
}

// ClearAll removes every listener of every kind. The manifest is kept, so
// the emitter stays usable.
func (e *Emitter) ClearAll() {
	for _, name := range e.kinds {
		e.slots[name].Clear()
	}
}

func (e *Emitter) slotFor(op, name string) (slot, error) {
	s, ok := e.slots[name]
	if !ok {
		return nil, e.kindError(op, name, ErrUnknownEventKind)
	}
	return s, nil
}

func (e *Emitter) kindError(op, name string, err error) error {
	kerr := &KindError{Op: op, Kind: name, Err: err}
	observability.LogKindError(e.opts.logger, op, name, kerr)
	return kerr
}

// lookup resolves k to its backing TypedEvent, checking both that the name
// is declared and that it was declared with payload type T.
func lookup[T any](e *Emitter, op string, k Kind[T]) (*TypedEvent[T], error) {
	s, err := e.slotFor(op, k.name)
	if err != nil {
		return nil, err
	}
	ev, ok := s.(*TypedEvent[T])
	if !ok {
		return nil, e.kindError(op, k.name, ErrPayloadTypeMismatch)
	}
	return ev, nil
}

// Event returns the TypedEvent backing k, for callers that want to hand a
// single kind to code that should not see the whole Emitter.
func Event[T any](e *Emitter, k Kind[T]) (*TypedEvent[T], error) {
	return lookup(e, "event", k)
}

// On registers l for k. Disposing the returned handle is the same as
// Off(e, k, l).
func On[T any](e *Emitter, k Kind[T], l *Listener[T]) (Disposable, error) {
	ev, err := lookup(e, "on", k)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, &KindError{Op: "on", Kind: k.name, Err: ErrNilListener}
	}
	return ev.On(l), nil
}

// Once registers l to run on the next emit of k only.
func Once[T any](e *Emitter, k Kind[T], l *Listener[T]) error {
	ev, err := lookup(e, "once", k)
	if err != nil {
		return err
	}
	if l == nil {
		return &KindError{Op: "once", Kind: k.name, Err: ErrNilListener}
	}
	ev.Once(l)
	return nil
}

// Off removes the first persistent registration of l for k. Removing a
// listener that is not registered is not an error.
func Off[T any](e *Emitter, k Kind[T], l *Listener[T]) error {
	ev, err := lookup(e, "off", k)
	if err != nil {
		return err
	}
	ev.Off(l)
	return nil
}

// Emit delivers payload to every listener of k. See TypedEvent.EmitContext
// for ordering and re-entrancy rules.
func Emit[T any](e *Emitter, k Kind[T], payload T) error {
	return EmitContext(context.Background(), e, k, payload)
}

// EmitContext is Emit with a context for the trace span of the pass.
func EmitContext[T any](ctx context.Context, e *Emitter, k Kind[T], payload T) error {
	ev, err := lookup(e, "emit", k)
	if err != nil {
		return err
	}
	ev.EmitContext(ctx, payload)
	return nil
}
