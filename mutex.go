package coop

import "slices"

// A Mutex is a cooperative mutual exclusion lock: acquisition is a
// suspension point, not a blocking call.
// Waiters acquire in FIFO order.
//
// Since tasks on one [Executor] never run concurrently, a Mutex is only
// needed across suspension points: when a task must keep other tasks out
// of a critical section that spans one or more awaits.
//
// A Mutex must not be shared by more than one [Executor].
type Mutex struct {
	locked  bool
	waiters []*lockWaiter
}

type lockWaiter struct {
	Signal
	m       *Mutex
	granted bool
}

func (w *lockWaiter) abandon(co *Coroutine) {
	if w.granted {
		// Unlock handed the lock over, but the acquirer is being canceled
		// instead of resumed. Release it, or it leaks forever.
		if co.canceling() {
			w.m.Unlock()
		}
		return
	}
	if i := slices.Index(w.m.waiters, w); i != -1 {
		w.m.waiters = slices.Delete(w.m.waiters, i, i+1)
	}
}

// Lock returns a [Task] that awaits until the lock is acquired, and then
// ends.
//
// A waiter whose coroutine is canceled while queued leaves the queue
// without acquiring; one canceled after Unlock has already handed it the
// lock releases the lock again.
func (m *Mutex) Lock() Task {
	return func(co *Coroutine) Result {
		if !m.locked {
			m.locked = true
			return co.End()
		}
		w := &lockWaiter{m: m}
		m.waiters = append(m.waiters, w)
		co.Cleanup(func() { w.abandon(co) })
		co.Watch(w)
		return co.Yield(End())
	}
}

// Unlock releases the lock, handing it directly to the next waiter if there
// is one.
// Unlock panics if the lock is not held.
//
// One should only call this method in a [Task] function.
func (m *Mutex) Unlock() {
	if !m.locked {
		panic("coop: unlock of unlocked Mutex")
	}
	if len(m.waiters) == 0 {
		m.locked = false
		return
	}
	w := m.waiters[0]
	m.waiters = slices.Delete(m.waiters, 0, 1)
	w.granted = true
	w.Notify()
}
