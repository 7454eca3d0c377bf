package coop

import "sync/atomic"

type settleState uint8

const (
	statePending settleState = iota
	stateResolved
	stateRejected
)

// Unregister revokes a callback registration with the host.
// It is the handle a host capability returns when a callback is installed.
type Unregister func()

// A Promise adapts a single-fire host callback into a result that settles
// exactly once.
//
// A Promise holds a slot that is pending until either the resolve or the
// reject capability handed to the install function takes effect. Whichever
// comes first wins; every later invocation of either capability is a no-op,
// so a misbehaving host that fires its callback twice cannot corrupt a
// settled Promise.
//
// A Promise is an [Event]: coroutines can watch it directly. It is also an
// [Awaitable], so it can be passed to [Join], [TryJoin] and [Select].
//
// A Promise must not be shared by more than one [Executor].
type Promise[T any] struct {
	signal     Signal
	state      settleState
	value      T
	err        error
	unregister Unregister
}

// Once installs a single-fire callback with the host and returns a [Promise]
// for its result.
//
// The install function receives the resolve and reject capabilities, passes
// them on to the host in whatever callback shape the host wants, and returns
// the host's unregister handle (which may be nil if the host has none).
// Once install has returned, both capabilities are safe to invoke from any
// goroutine: they marshal the settling through [Executor.Spawn].
//
// If registration itself fails, install should invoke reject before
// returning: a capability invoked by install itself settles the Promise on
// the spot, before Once returns, so awaiting it completes without a needless
// yield even when Once is called from inside a running task. During install,
// the capabilities must only be invoked that way, not handed off to another
// goroutine that fires before install returns.
func Once[T any](e *Executor, install func(resolve func(T), reject func(error)) Unregister) *Promise[T] {
	p := &Promise[T]{}

	// True only for the duration of the install call. Nothing watches p
	// yet, so settling directly is confined to the installing goroutine.
	var installing atomic.Bool
	installing.Store(true)

	resolve := func(v T) {
		if installing.Load() {
			p.settle(stateResolved, v, nil)
			return
		}
		e.Spawn(Do(func() { p.settle(stateResolved, v, nil) }))
	}
	reject := func(err error) {
		if err == nil {
			panic("coop: reject called with nil error")
		}
		var zero T
		if installing.Load() {
			p.settle(stateRejected, zero, err)
			return
		}
		e.Spawn(Do(func() { p.settle(stateRejected, zero, err) }))
	}

	p.unregister = install(resolve, reject)
	installing.Store(false)
	return p
}

func (p *Promise[T]) settle(s settleState, v T, err error) {
	if p.state != statePending {
		return
	}
	p.state = s
	p.value = v
	p.err = err
	p.signal.Notify()
}

// Settled reports whether p has resolved or rejected.
func (p *Promise[T]) Settled() bool {
	return p.state != statePending
}

// Err returns the rejection error of p, or nil if p is pending or resolved.
func (p *Promise[T]) Err() error {
	if p.state == stateRejected {
		return p.err
	}
	return nil
}

// Result returns the settled value or rejection error of p.
// If p is still pending, Result returns [ErrPending].
func (p *Promise[T]) Result() (T, error) {
	if p.state == stateResolved {
		return p.value, nil
	}
	var zero T
	if p.state == stateRejected {
		return zero, p.err
	}
	return zero, ErrPending
}

// Await returns a [Task] that ends once p has settled.
// If p has already settled, the task ends without yielding.
func (p *Promise[T]) Await() Task {
	return func(co *Coroutine) Result {
		if p.state == statePending {
			return co.Await(p)
		}
		return co.End()
	}
}

// Cancel gives up on a pending p: it synchronously invokes the unregister
// handle returned by install, then rejects p with [ErrCanceled].
// A host callback that still fires afterwards hits the settled slot and has
// no effect.
//
// Canceling a settled Promise is a no-op.
//
// One should only call this method in a [Task] function.
func (p *Promise[T]) Cancel() {
	if p.state != statePending {
		return
	}
	if u := p.unregister; u != nil {
		p.unregister = nil
		u()
	}
	var zero T
	p.settle(stateRejected, zero, ErrCanceled)
}

func (p *Promise[T]) addListener(co *Coroutine)    { p.signal.addListener(co) }
func (p *Promise[T]) removeListener(co *Coroutine) { p.signal.removeListener(co) }
