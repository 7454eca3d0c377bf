// Package coop is a cooperative task runtime that bridges callback-style
// host APIs into synchronous-looking, suspend/resume code.
//
// Many host environments express all asynchrony through callbacks: one-shot
// "call me back when done" APIs, and persistent listener registrations that
// fire repeatedly until unregistered. This package turns both shapes into
// well-behaved suspension points (a [Promise] for the one-shot case, a
// [Listener] for the repeating case) and provides the combinators ([Join],
// [TryJoin], [Select]) and task machinery ([Go], [Detach], [JoinHandle])
// that let many such bridges compose.
//
// # Execution Model
//
// There is one logical thread of application control. An [Executor] runs
// coroutines one at a time from an internal queue; a coroutine runs
// uninterrupted between suspension points and is never preempted. A
// suspension point is explicit: a [Task] function returns a [Result] that
// either ends the coroutine or yields it, recording which events will
// resume it. Awaiting means "register as the poller for this suspension
// point and yield control"; when a watched event notifies, the executor
// runs the task function again.
//
// Host callbacks may fire on arbitrary goroutines. [Executor.Spawn] is the
// fan-in point: it is safe for concurrent use, and with an autorun function
// installed ([Executor.Autorun]), a callback that spawns or resumes work
// drives the executor to completion synchronously within the callback
// invocation itself. No OS threads are created by this package.
//
// # Bridging Callbacks
//
// A [Promise] adapts a single-fire callback. Its install function receives
// resolve and reject capabilities and returns the host's unregister handle.
// Exactly one of resolve/reject takes effect; later invocations are no-ops,
// so a host that fires twice cannot corrupt a settled promise. Canceling a
// pending promise invokes the unregister handle synchronously, which is the
// only way to guarantee a stray late callback never observes freed state.
//
// A [Listener] adapts a repeating callback into a pull-based sequence. It
// buffers at most one pending event: arrivals while no consumer is waiting
// overwrite the previous unread event. This latest-wins coalescing is a
// deliberate trade-off (bounded memory, no unbounded backlog) and it is
// observable: a consumer that falls behind sees only the most recent event.
// A consumer that keeps up sees every event in arrival order.
//
// # Faults
//
// A panic inside a task never aborts the executor. For a task spawned with
// [Go], the panic is captured and reported exactly once through the
// handle's [JoinError]; for detached tasks it goes to the handler set with
// [Executor.OnPanic], or is discarded, which is the accepted price of fire
// and forget.
//
// # Timeouts
//
// There is no timeout primitive. Race the real operation against a
// [Timeout] promise with [Select].
package coop
