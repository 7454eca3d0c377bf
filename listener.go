package coop

// A Listener adapts a persistent, multi-fire host callback registration
// into a pull-based sequence of events.
//
// A Listener buffers at most one pending event. An event arriving while no
// consumer is waiting overwrites the previous unread event: bursts coalesce
// to the latest. This is a deliberate trade-off (bounded memory, never an
// unbounded backlog) and it is observable behavior, not a defect. A consumer
// that drains events as fast as they arrive sees every one of them, in
// arrival order.
//
// A Listener is an [Event]: a task can watch it and call Recv when it is
// resumed.
//
// A Listener must not be shared by more than one [Executor].
type Listener[T any] struct {
	signal     Signal
	buf        T
	buffered   bool
	closed     bool
	unregister Unregister
}

// Listen installs a repeating callback with the host and returns a
// [Listener] over its events.
//
// The install function receives the emit capability, hooks it up to the
// host's repeated-fire callback, and returns the host's unregister handle
// (which may be nil if the host has none).
// emit is safe to invoke from any goroutine: it marshals the event through
// [Executor.Spawn].
func Listen[T any](e *Executor, install func(emit func(T)) Unregister) *Listener[T] {
	l := &Listener[T]{}
	l.unregister = install(func(v T) {
		e.Spawn(Do(func() { l.push(v) }))
	})
	return l
}

func (l *Listener[T]) push(v T) {
	if l.closed {
		return
	}
	l.buf = v // overwrite: latest wins
	l.buffered = true
	l.signal.Notify()
}

// Ready reports whether Recv would succeed or fail without an event to
// consume: an event is buffered, or l is closed.
func (l *Listener[T]) Ready() bool {
	return l.buffered || l.closed
}

// Recv consumes exactly one buffered event.
// It returns [ErrClosed] if l has been closed, and [ErrNoEvent] if no event
// has arrived since the last Recv.
func (l *Listener[T]) Recv() (T, error) {
	var zero T
	if l.buffered {
		v := l.buf
		l.buf = zero
		l.buffered = false
		return v, nil
	}
	if l.closed {
		return zero, ErrClosed
	}
	return zero, ErrNoEvent
}

// Next returns a [Task] that ends once an event is available for Recv.
// If an event is already buffered, the task ends without yielding.
// On a closed Listener the task also ends immediately: awaiting never
// suspends forever, the following Recv reports [ErrClosed] instead.
func (l *Listener[T]) Next() Task {
	return func(co *Coroutine) Result {
		if !l.Ready() {
			return co.Await(l)
		}
		return co.End()
	}
}

// Close detaches l from the host: it synchronously invokes the unregister
// handle, discards any buffered event, and wakes any waiting consumer,
// whose Recv then reports [ErrClosed].
// Close is idempotent.
//
// One should only call this method in a [Task] function.
func (l *Listener[T]) Close() {
	if l.closed {
		return
	}
	l.closed = true
	if u := l.unregister; u != nil {
		l.unregister = nil
		u()
	}
	var zero T
	l.buf = zero
	l.buffered = false
	l.signal.Notify()
}

func (l *Listener[T]) addListener(co *Coroutine)    { l.signal.addListener(co) }
func (l *Listener[T]) removeListener(co *Coroutine) { l.signal.removeListener(co) }
