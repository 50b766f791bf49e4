package typedevent_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/typedevent/pkg/typedevent"
)

// recorder collects payloads and labels in invocation order.
type recorder[T any] struct {
	mu  sync.Mutex
	got []T
}

func (r *recorder[T]) listener() *typedevent.Listener[T] {
	return typedevent.Listen(r.record)
}

func (r *recorder[T]) record(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, v)
}

func (r *recorder[T]) values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.got...)
}

func TestTypedEvent_OnEmitInOrder(t *testing.T) {
	ev := typedevent.NewTypedEvent[int]()

	var order []string
	ev.On(typedevent.Listen(func(int) { order = append(order, "a") }))
	ev.On(typedevent.Listen(func(int) { order = append(order, "b") }))
	ev.On(typedevent.Listen(func(int) { order = append(order, "c") }))

	ev.Emit(1)
	assert.Equal(t, []string{"a", "b", "c"}, order)

	ev.Emit(2)
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, order)
}

func TestTypedEvent_PersistentBeforeOnce(t *testing.T) {
	ev := typedevent.NewTypedEvent[string]()

	var order []string
	ev.Once(typedevent.Listen(func(string) { order = append(order, "once") }))
	ev.On(typedevent.Listen(func(string) { order = append(order, "on") }))

	ev.Emit("x")
	assert.Equal(t, []string{"on", "once"}, order)
}

func TestTypedEvent_OnceFiresOnce(t *testing.T) {
	ev := typedevent.NewTypedEvent[string]()
	rec := &recorder[string]{}

	ev.Once(rec.listener())
	assert.Equal(t, 1, ev.OnceCount())

	ev.Emit("a")
	ev.Emit("b")

	assert.Equal(t, []string{"a"}, rec.values())
	assert.Equal(t, 0, ev.OnceCount())
	assert.Equal(t, 0, ev.ListenerCount())
}

func TestTypedEvent_OffRemovesFirstOccurrence(t *testing.T) {
	ev := typedevent.NewTypedEvent[int]()
	rec := &recorder[int]{}
	l := rec.listener()

	ev.On(l)
	ev.On(l)
	require.Equal(t, 2, ev.ListenerCount())

	ev.Emit(1)
	assert.Equal(t, []int{1, 1}, rec.values(), "duplicate registrations occupy independent slots")

	ev.Off(l)
	assert.Equal(t, 1, ev.ListenerCount())

	ev.Emit(2)
	assert.Equal(t, []int{1, 1, 2}, rec.values())

	ev.Off(l)
	ev.Emit(3)
	assert.Equal(t, []int{1, 1, 2}, rec.values())
}

func TestTypedEvent_OffMissingIsNoop(t *testing.T) {
	ev := typedevent.NewTypedEvent[int]()
	rec := &recorder[int]{}

	ev.On(rec.listener())
	assert.NotPanics(t, func() {
		ev.Off(typedevent.Listen(func(int) {}))
		ev.Off(nil)
	})
	assert.Equal(t, 1, ev.ListenerCount())
}

func TestTypedEvent_OffIgnoresOnceListeners(t *testing.T) {
	ev := typedevent.NewTypedEvent[int]()
	rec := &recorder[int]{}
	l := rec.listener()

	ev.Once(l)
	ev.Off(l)
	ev.Emit(7)

	assert.Equal(t, []int{7}, rec.values())
}

func TestTypedEvent_DisposeEqualsOff(t *testing.T) {
	ev := typedevent.NewTypedEvent[int]()
	rec := &recorder[int]{}
	other := &recorder[int]{}

	handle := ev.On(rec.listener())
	ev.On(other.listener())

	handle.Dispose()
	ev.Emit(1)

	assert.Empty(t, rec.values())
	assert.Equal(t, []int{1}, other.values())
}

func TestTypedEvent_OnceAddedDuringEmitWaitsForNextPass(t *testing.T) {
	ev := typedevent.NewTypedEvent[string]()
	late := &recorder[string]{}

	// Added from a persistent listener and from a one-shot listener.
	ev.On(typedevent.Listen(func(s string) {
		if s == "first" {
			ev.Once(late.listener())
		}
	}))
	ev.Once(typedevent.Listen(func(s string) {
		ev.Once(late.listener())
	}))

	ev.Emit("first")
	assert.Empty(t, late.values())
	assert.Equal(t, 2, ev.OnceCount())

	ev.Emit("second")
	assert.Equal(t, []string{"second", "second"}, late.values())
	assert.Equal(t, 0, ev.OnceCount())
}

func TestTypedEvent_OnAddedDuringEmitWaitsForNextPass(t *testing.T) {
	ev := typedevent.NewTypedEvent[int]()
	late := &recorder[int]{}

	var added bool
	ev.On(typedevent.Listen(func(int) {
		if !added {
			added = true
			ev.On(late.listener())
		}
	}))

	ev.Emit(1)
	assert.Empty(t, late.values())

	ev.Emit(2)
	assert.Equal(t, []int{2}, late.values())
}

func TestTypedEvent_RemovalDuringEmitDoesNotSkip(t *testing.T) {
	ev := typedevent.NewTypedEvent[int]()
	a, b, c := &recorder[int]{}, &recorder[int]{}, &recorder[int]{}
	la, lb, lc := a.listener(), b.listener(), c.listener()

	// The first listener removes itself and the next one mid-pass.
	var self *typedevent.Listener[int]
	self = typedevent.Listen(func(int) {
		ev.Off(self)
		ev.Off(lb)
	})

	ev.On(self)
	ev.On(la)
	ev.On(lb)
	ev.On(lc)

	ev.Emit(1)
	assert.Equal(t, []int{1}, a.values())
	assert.Equal(t, []int{1}, b.values(), "removed mid-pass, still invoked once")
	assert.Equal(t, []int{1}, c.values(), "not skipped by the earlier removal")

	ev.Emit(2)
	assert.Equal(t, []int{1, 2}, a.values())
	assert.Equal(t, []int{1}, b.values())
	assert.Equal(t, []int{1, 2}, c.values())
}

func TestTypedEvent_ReentrantEmit(t *testing.T) {
	ev := typedevent.NewTypedEvent[int]()
	rec := &recorder[int]{}

	ev.On(typedevent.Listen(func(n int) {
		if n > 0 {
			ev.Emit(n - 1)
		}
	}))
	ev.On(rec.listener())

	ev.Emit(2)
	assert.Equal(t, []int{0, 1, 2}, rec.values())
}

func TestTypedEvent_PanicPropagates(t *testing.T) {
	ev := typedevent.NewTypedEvent[int]()
	after := &recorder[int]{}
	pending := &recorder[int]{}

	ev.On(typedevent.Listen(func(int) { panic("boom") }))
	ev.On(after.listener())
	ev.Once(pending.listener())

	assert.PanicsWithValue(t, "boom", func() { ev.Emit(1) })
	assert.Empty(t, after.values(), "remaining listeners of the pass are skipped")
	assert.Empty(t, pending.values())
	assert.Equal(t, 1, ev.OnceCount(), "one-shot listener not reached stays registered")
	assert.Equal(t, 3, ev.ListenerCount())
}

func TestTypedEvent_OnceSurvivesAbortedPass(t *testing.T) {
	ev := typedevent.NewTypedEvent[int]()
	rec := &recorder[int]{}
	boom := typedevent.Listen(func(int) { panic("boom") })

	ev.On(boom)
	ev.Once(rec.listener())

	assert.Panics(t, func() { ev.Emit(1) })
	ev.Off(boom)

	ev.Emit(2)
	ev.Emit(3)
	assert.Equal(t, []int{2}, rec.values())
	assert.Equal(t, 0, ev.OnceCount())
}

func TestTypedEvent_NestedEmitTakesOnceListenersOnce(t *testing.T) {
	ev := typedevent.NewTypedEvent[int]()
	rec := &recorder[int]{}

	ev.On(typedevent.Listen(func(n int) {
		if n > 0 {
			ev.Emit(n - 1)
		}
	}))
	ev.Once(rec.listener())

	ev.Emit(1)
	assert.Equal(t, []int{0}, rec.values(), "the inner pass runs the one-shot listener, the outer does not")
	assert.Equal(t, 0, ev.OnceCount())
}

func TestTypedEvent_ClearDuringEmitDropsOnceListeners(t *testing.T) {
	ev := typedevent.NewTypedEvent[int]()
	rec := &recorder[int]{}

	ev.On(typedevent.Listen(func(int) { ev.Clear() }))
	ev.Once(rec.listener())

	ev.Emit(1)
	assert.Empty(t, rec.values())
	assert.Equal(t, 0, ev.ListenerCount())
}

func TestTypedEvent_Pipe(t *testing.T) {
	src := typedevent.NewTypedEvent[string]()
	dst := typedevent.NewTypedEvent[string]()
	rec := &recorder[string]{}
	dst.On(rec.listener())

	handle := src.Pipe(dst)
	src.Emit("a")
	assert.Equal(t, []string{"a"}, rec.values())

	handle.Dispose()
	src.Emit("b")
	assert.Equal(t, []string{"a"}, rec.values())
}

func TestTypedEvent_Clear(t *testing.T) {
	ev := typedevent.NewTypedEvent[int]()
	rec := &recorder[int]{}

	ev.On(rec.listener())
	ev.On(rec.listener())
	ev.Once(rec.listener())

	assert.Equal(t, 3, ev.Clear())
	assert.Equal(t, 0, ev.ListenerCount())

	ev.Emit(1)
	assert.Empty(t, rec.values())
}

func TestTypedEvent_NilListenerPanics(t *testing.T) {
	ev := typedevent.NewTypedEvent[int]()

	assert.Panics(t, func() { ev.On(nil) })
	assert.Panics(t, func() { ev.Once(nil) })
	assert.Panics(t, func() { typedevent.Listen[int](nil) })
}

func TestTypedEvent_Kind(t *testing.T) {
	assert.Equal(t, "typedevent", typedevent.NewTypedEvent[int]().Kind())
	assert.Equal(t, "resize", typedevent.NewTypedEvent[int](typedevent.WithName("resize")).Kind())
}

func TestTypedEvent_ConcurrentUse(t *testing.T) {
	ev := typedevent.NewTypedEvent[int]()
	rec := &recorder[int]{}

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				l := rec.listener()
				handle := ev.On(l)
				ev.Once(rec.listener())
				ev.Emit(i)
				handle.Dispose()
			}
		}()
	}
	wg.Wait()

	// Every one-shot registration is consumed by some emit exactly once.
	assert.Equal(t, 0, ev.ListenerCount())
	assert.GreaterOrEqual(t, len(rec.values()), workers*perWorker*2)
}
