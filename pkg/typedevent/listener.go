package typedevent

// Listener is a registered callback for payloads of type T.
//
// Identity is the pointer returned by Listen, never the function: Go funcs
// are not comparable. Keep the *Listener to remove it later with Off.
type Listener[T any] struct {
	fn func(T)
}

// Listen wraps fn as a Listener. It panics if fn is nil.
func Listen[T any](fn func(T)) *Listener[T] {
	if fn == nil {
		panic("typedevent: nil listener func")
	}
	return &Listener[T]{fn: fn}
}

// Disposable undoes a single registration.
type Disposable interface {
	Dispose()
}

// DisposeFunc adapts a function to the Disposable interface.
type DisposeFunc func()

// Dispose implements Disposable.
func (f DisposeFunc) Dispose() {
	f()
}

// DisposeAll disposes each handle in order, skipping nil entries.
func DisposeAll(ds ...Disposable) {
	for _, d := range ds {
		if d != nil {
			d.Dispose()
		}
	}
}
