package coop

import (
	"runtime/debug"
)

type action int

const (
	_ action = iota
	doYield
	doSwitch
	doEnd
)

const (
	flagResumed = 1 << iota
	flagEnqueued
	flagEnded
	flagCanceled
	flagRecyclable
	flagRecycled
)

// A Coroutine is an execution of code, similar to a goroutine but cooperative
// and stackless.
//
// A coroutine is created with a function called [Task].
// A coroutine's job is to end the task.
// When an [Executor] spawns a coroutine with a task, it runs the coroutine by
// calling the task function with the coroutine as the argument.
// The return value determines whether to end the coroutine or to yield it
// so that it could resume later.
//
// In order for a coroutine to resume, the coroutine must watch at least one
// [Event] (e.g. [Signal], [Promise], [Listener], etc.), when calling the task
// function.
// A notification of such an event resumes the coroutine.
// When a coroutine is resumed, the executor runs the coroutine again.
//
// A coroutine can also make a transition to work on another task according to
// the return value of the task function.
type Coroutine struct {
	flag     uint8
	executor *Executor
	task     Task
	fault    *PanicError
	onEnd    func(*PanicError)
	deps     map[Event]struct{}
	cleanups []func()
}

func (e *Executor) newCoroutine() *Coroutine {
	if co := e.pool.Get(); co != nil {
		return co.(*Coroutine)
	}
	return new(Coroutine)
}

func (e *Executor) freeCoroutine(co *Coroutine) {
	if co.flag&(flagRecyclable|flagRecycled) == flagRecyclable {
		co.flag |= flagRecycled
		co.executor = nil
		co.task = nil
		co.fault = nil
		co.onEnd = nil
		e.pool.Put(co)
	}
}

func (co *Coroutine) init(e *Executor, t Task) *Coroutine {
	co.flag = flagResumed | flagRecyclable
	co.executor = e
	co.task = must(t)
	co.fault = nil
	co.onEnd = nil
	return co
}

// resume puts co back on the run queue.
func (co *Coroutine) resume() {
	if co.flag&flagEnded != 0 {
		return
	}
	co.executor.enqueue(co)
}

// cancel resumes co one last time; co runs its cleanups and ends without
// calling its task again.
func (co *Coroutine) cancel() {
	if co.flag&flagEnded != 0 {
		return
	}
	co.flag |= flagCanceled
	co.executor.enqueue(co)
}

func (co *Coroutine) run() {
	var res Result

	for {
		co.clearDeps()
		co.runCleanups()

		if co.flag&flagCanceled != 0 {
			res = Result{action: doEnd}
		} else {
			co.flag &^= flagResumed
			res = co.tryTask()
			if co.fault != nil {
				res = Result{action: doEnd}
			}
		}

		if res.task != nil {
			co.task = res.task
		}

		if res.action != doSwitch {
			break
		}
	}

	if res.action == doYield {
		return
	}

	co.flag |= flagEnded

	co.clearDeps()
	co.runCleanups()

	fault := co.fault
	onEnd := co.onEnd
	e := co.executor

	switch {
	case onEnd != nil:
		onEnd(fault)
	case fault != nil && e.onPanic != nil:
		e.onPanic(fault)
	}

	if co.flag&flagEnqueued == 0 {
		e.freeCoroutine(co)
	}
}

func (co *Coroutine) tryTask() (res Result) {
	defer func() {
		if v := recover(); v != nil {
			co.catch(v)
		}
	}()
	return co.task(co)
}

func (co *Coroutine) catch(v any) {
	if co.fault == nil {
		co.fault = &PanicError{value: v, stack: debug.Stack()}
	}
}

func (co *Coroutine) clearDeps() {
	deps := co.deps
	for d := range deps {
		delete(deps, d)
		d.removeListener(co)
	}
}

func (co *Coroutine) runCleanups() {
	for len(co.cleanups) != 0 {
		cleanups := co.cleanups
		co.cleanups = nil
		for i := len(cleanups) - 1; i >= 0; i-- {
			co.tryCleanup(cleanups[i])
		}
	}
}

func (co *Coroutine) tryCleanup(f func()) {
	defer func() {
		if v := recover(); v != nil {
			co.catch(v)
		}
	}()
	f()
}

// Executor returns the executor that spawned co.
func (co *Coroutine) Executor() *Executor {
	return co.executor
}

// canceling reports whether co is being canceled rather than resumed.
// Only meaningful inside a cleanup function; a lock waiter uses it to tell
// a grant it is about to consume from a grant it must give back.
func (co *Coroutine) canceling() bool {
	return co.flag&flagCanceled != 0
}

// Watch watches some events so that, when any of them notifies, co resumes.
//
// Watches are cleared every time co runs; a task that yields must watch
// again on each run.
func (co *Coroutine) Watch(ev ...Event) {
	if co.flag&(flagEnded|flagCanceled) != 0 {
		return
	}
	for _, d := range ev {
		deps := co.deps
		if deps == nil {
			deps = make(map[Event]struct{})
			co.deps = deps
		}
		deps[d] = struct{}{}
		d.addListener(co)
	}
}

// Cleanup adds a function call for when co next resumes or ends.
// This is where a suspension point releases whatever it registered:
// waiter entries, host registrations and the like.
// Cleanups run in last-in-first-out order.
func (co *Coroutine) Cleanup(f func()) {
	if co.flag&flagEnded != 0 {
		panic("coop: coroutine has already ended")
	}
	if f == nil {
		return
	}
	co.cleanups = append(co.cleanups, f)
}

// Result is the type of the return value of a [Task] function.
// A Result determines what next for a coroutine to do after running a task.
//
// A Result can be created by calling one of the following methods of
// [Coroutine]:
//   - [Coroutine.Await]: for yielding, with additional events to watch;
//     when resumed, the running task is reiterated;
//   - [Coroutine.Yield]: for yielding with another task to which will be
//     switched later when resuming;
//   - [Coroutine.Transition]: for switching to another task immediately;
//   - [Coroutine.End]: for ending the running task.
type Result struct {
	action action
	task   Task
}

// Await returns a [Result] that will cause co to yield and, when co is
// resumed, reiterate the running task.
// Await also accepts additional events to watch.
func (co *Coroutine) Await(ev ...Event) Result {
	if len(ev) != 0 {
		co.Watch(ev...)
	}
	return Result{action: doYield}
}

// Yield returns a [Result] that will cause co to yield.
// t becomes the current task of co so that, when co is resumed, t is called
// instead.
func (co *Coroutine) Yield(t Task) Result {
	return Result{action: doYield, task: must(t)}
}

// Transition returns a [Result] that will cause co to work on t immediately.
func (co *Coroutine) Transition(t Task) Result {
	return Result{action: doSwitch, task: must(t)}
}

// End returns a [Result] that will cause co to end its current running task.
func (co *Coroutine) End() Result {
	return Result{action: doEnd}
}

// A Task is a piece of work that a coroutine is given to do when it is
// spawned.
// The return value of a task, a [Result], determines what next for a
// coroutine to do.
//
// The argument co must not escape to another goroutine, because a coroutine
// may be put into a pool for recycling when it ends.
type Task func(co *Coroutine) Result

func must(t Task) Task {
	if t == nil {
		panic("coop: nil Task")
	}
	return t
}
