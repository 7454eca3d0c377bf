package coop

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
)

// An Executor is a single-threaded scheduler of coroutines: the stand-in for
// the host environment's own microtask queue.
//
// When a [Task] is spawned, or a suspended coroutine is resumed, the
// coroutine is added into an internal queue.
// The Run method then pops and runs each of them from the queue, in arrival
// order, until the queue is emptied.
// It is done in a single-threaded manner.
// If one task blocks, no other tasks can run.
// The best practice is not to block.
//
// Manually calling the Run method is usually not desired.
// One would instead use the Autorun method to set up an autorun function to
// calling the Run method automatically whenever a task is spawned or a
// coroutine is resumed.
// The Executor never calls the autorun function twice at the same time.
type Executor struct {
	mu      sync.Mutex
	rq      runqueue
	running bool
	autorun func()
	onPanic func(err error)
	pool    sync.Pool
}

// Autorun sets up an autorun function to calling the Run method automatically
// whenever a [Task] is spawned or a coroutine is resumed.
//
// One must pass a function that calls the Run method.
//
// If f blocks, the Spawn method may block too.
// The best practice is not to block.
func (e *Executor) Autorun(f func()) {
	e.autorun = f
}

// OnPanic sets up a handler for faults of detached tasks.
//
// A panic inside a task never propagates out of the Run method.
// For a task spawned with [Go], the captured panic is reported through the
// task's [JoinHandle]; for a detached task, it is passed to f as a
// [*PanicError], or discarded if no handler is set.
//
// OnPanic must be called before the Executor is first used.
func (e *Executor) OnPanic(f func(err error)) {
	e.onPanic = f
}

// Run pops and runs every queued coroutine until the queue is emptied.
//
// Run must not be called twice at the same time.
func (e *Executor) Run() {
	_, span := startSpan(context.Background(), "Executor.Run")
	defer span.End()

	n := 0

	e.mu.Lock()
	e.running = true

	for !e.rq.Empty() {
		co := e.rq.Pop()
		e.runCoroutine(co)
		n++
	}

	e.running = false
	e.mu.Unlock()

	span.SetAttributes(attribute.Int("coop.dispatches", n))
}

// Spawn creates a coroutine to work on t, detached: nothing of t is
// observable beyond its effects ("fire and forget").
// For a joinable spawn, use [Go] instead.
//
// The coroutine is added in a queue. To run it, either call the Run method,
// or call the Autorun method to set up an autorun function beforehand.
//
// Spawn is safe for concurrent use: it is the fan-in point through which
// host callbacks, fired on arbitrary goroutines, enter the executor's
// single logical thread.
func (e *Executor) Spawn(t Task) {
	e.enqueue(e.newCoroutine().init(e, t))
}

func (e *Executor) enqueue(co *Coroutine) {
	var autorun func()

	e.mu.Lock()

	switch flag := co.flag; {
	case flag&flagRecycled != 0:
		e.mu.Unlock()
		panic("coop: coroutine has been recycled")
	case flag&flagEnqueued != 0:
		co.flag = flag | flagResumed
	default:
		co.flag = flag | flagResumed | flagEnqueued
		e.rq.Push(co)
		if !e.running && e.autorun != nil {
			e.running = true
			autorun = e.autorun
		}
	}

	e.mu.Unlock()

	if autorun != nil {
		autorun()
	}
}

func (e *Executor) runCoroutine(co *Coroutine) {
	flag := co.flag
	flag &^= flagEnqueued
	co.flag = flag

	switch {
	case flag&flagEnded != 0:
		e.freeCoroutine(co)
	case flag&flagResumed != 0:
		e.mu.Unlock()
		co.run()
		e.mu.Lock()
	}
}

// Detach runs a suspend/resume computation to detachment: t is spawned on e
// and control returns immediately.
// This is the adapter that makes an asynchronous computation callable from
// synchronous host code.
//
// Detach(e, t) is equivalent to e.Spawn(t).
func Detach(e *Executor, t Task) {
	e.Spawn(t)
}
