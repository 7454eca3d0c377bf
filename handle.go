package coop

// A JoinError reports that a task spawned with [Go] failed to run to
// completion: its computation panicked, or it was canceled (or ended)
// before producing a result.
//
// A JoinError is distinct from an error value the computation itself might
// report; computations that can fail should resolve to a value that carries
// their error.
type JoinError struct {
	fault *PanicError
}

// Panicked reports whether the task's computation panicked.
func (e *JoinError) Panicked() bool {
	return e.fault != nil
}

// Canceled reports whether the task was canceled, or ended without
// resolving a result.
func (e *JoinError) Canceled() bool {
	return e.fault == nil
}

func (e *JoinError) Error() string {
	if e.fault != nil {
		return "coop: task panicked"
	}
	return "coop: task canceled"
}

// Unwrap returns the captured [*PanicError], if any.
func (e *JoinError) Unwrap() error {
	if e.fault != nil {
		return e.fault
	}
	return nil
}

// A JoinHandle is the joinable side of a task spawned with [Go].
//
// A JoinHandle has one logical owner: the spawner, or whoever the spawner
// hands it to. Reading the result from several places is not detected, but
// only one of them should.
//
// A JoinHandle is an [Event] and an [Awaitable].
type JoinHandle[T any] struct {
	signal Signal
	state  settleState
	value  T
	jerr   *JoinError
	co     *Coroutine
}

// Go spawns a coroutine to work on the task returned by stepping f, joinable
// through the returned [JoinHandle].
//
// f reports its result by calling resolve, typically right before ending.
// The whole computation runs inside a fault boundary: a panic anywhere in it
// is captured, reported exactly once through the handle as a panicked
// [JoinError], and never reaches the executor's run loop.
// A computation that ends without calling resolve fails the handle with a
// canceled [JoinError].
func Go[T any](e *Executor, f func(co *Coroutine, resolve func(T)) Result) *JoinHandle[T] {
	h := &JoinHandle[T]{}

	resolve := func(v T) {
		if h.state != statePending {
			return
		}
		h.state = stateResolved
		h.value = v
		h.signal.Notify()
	}

	co := e.newCoroutine().init(e, func(co *Coroutine) Result {
		return f(co, resolve)
	})
	co.onEnd = func(fault *PanicError) {
		h.finish(fault)
	}

	h.co = co
	e.enqueue(co)

	return h
}

func (h *JoinHandle[T]) finish(fault *PanicError) {
	if h.state != statePending {
		if fault != nil {
			// Resolved, then panicked: the handle already has its result,
			// so the fault is routed like a detached task's.
			if onPanic := h.co.executor.onPanic; onPanic != nil {
				onPanic(fault)
			}
		}
		return
	}
	h.state = stateRejected
	h.jerr = &JoinError{fault: fault}
	h.signal.Notify()
}

// Join returns a [Task] that ends once the spawned task has completed or
// failed. Call Result afterwards for the value.
func (h *JoinHandle[T]) Join() Task {
	return func(co *Coroutine) Result {
		if h.state == statePending {
			return co.Await(h)
		}
		return co.End()
	}
}

// Result returns the task's value, or its [*JoinError] if the task failed
// to run to completion.
// If the task is still running, Result returns [ErrPending].
func (h *JoinHandle[T]) Result() (T, error) {
	if h.state == stateResolved {
		return h.value, nil
	}
	var zero T
	if h.state == stateRejected {
		return zero, h.jerr
	}
	return zero, ErrPending
}

// Settled reports whether the task has completed or failed.
func (h *JoinHandle[T]) Settled() bool {
	return h.state != statePending
}

// Err returns the task's [*JoinError], or nil if the task is running or
// completed.
func (h *JoinHandle[T]) Err() error {
	if h.jerr != nil {
		return h.jerr
	}
	return nil
}

// Cancel stops a task that has not yet produced a result: the coroutine
// runs its cleanups and ends without running its task again, and the handle
// fails with a canceled [JoinError].
// Canceling a settled handle is a no-op.
//
// One should only call this method in a [Task] function.
func (h *JoinHandle[T]) Cancel() {
	if h.state != statePending {
		return
	}
	h.co.cancel()
}

func (h *JoinHandle[T]) addListener(co *Coroutine)    { h.signal.addListener(co) }
func (h *JoinHandle[T]) removeListener(co *Coroutine) { h.signal.removeListener(co) }
