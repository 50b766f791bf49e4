package typedevent

// Kind names an event category and binds it to payload type T.
// Kinds are comparable values; declare them once as package variables:
//
//	var Greet = typedevent.NewKind[string]("greet")
type Kind[T any] struct {
	name string
}

// NewKind declares a kind with the given name carrying payloads of type T.
func NewKind[T any](name string) Kind[T] {
	return Kind[T]{name: name}
}

// Name returns the kind name.
func (k Kind[T]) Name() string {
	return k.name
}

// String implements fmt.Stringer.
func (k Kind[T]) String() string {
	return k.name
}

// newSlot builds the per-kind emitter that backs k inside an Emitter.
func (k Kind[T]) newSlot(h *hooks) slot {
	return newTypedEvent[T](h)
}

// Declaration is an entry of a Manifest. Kind[T] is the only implementation.
type Declaration interface {
	Name() string
	newSlot(h *hooks) slot
}

// Manifest is the full, ordered set of kinds an Emitter accepts.
// It is fixed once the Emitter is constructed.
type Manifest []Declaration

// Names returns the kind names in declaration order.
func (m Manifest) Names() []string {
	names := make([]string, 0, len(m))
	for _, d := range m {
		if d != nil {
			names = append(names, d.Name())
		}
	}
	return names
}

// slot is the type-erased view of a *TypedEvent[T] the Emitter needs for
// kind-agnostic operations.
type slot interface {
	ListenerCount() int
	Clear() int
}
