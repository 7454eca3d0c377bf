package coop

import "slices"

// An RWMutex is a cooperative reader/writer lock: any number of readers
// share it, a writer holds it exclusively, and acquisition is a suspension
// point, not a blocking call.
//
// Waiters are served in FIFO order, which makes the lock write-preferring:
// once a writer is queued, later readers queue behind it instead of joining
// the current readers, so a writer is never starved by a steady stream of
// reads. Releasing a writer admits the whole run of readers queued ahead of
// the next writer at once.
//
// An RWMutex must not be shared by more than one [Executor].
type RWMutex struct {
	readers int
	writing bool
	waiters []*rwWaiter
}

type rwWaiter struct {
	Signal
	m       *RWMutex
	write   bool
	granted bool
}

func (w *rwWaiter) abandon(co *Coroutine) {
	if w.granted {
		// Granted but canceled before entering the critical section:
		// give the lock back, or it leaks forever.
		if co.canceling() {
			if w.write {
				w.m.Unlock()
			} else {
				w.m.RUnlock()
			}
		}
		return
	}
	if i := slices.Index(w.m.waiters, w); i != -1 {
		w.m.waiters = slices.Delete(w.m.waiters, i, i+1)
		// Removing a queued writer may unblock the readers behind it.
		w.m.settle()
	}
}

// settle grants whatever the head of the queue allows: the next writer once
// the lock is fully free, or the leading run of readers.
func (m *RWMutex) settle() {
	if m.writing {
		return
	}
	if m.readers == 0 && len(m.waiters) != 0 && m.waiters[0].write {
		w := m.waiters[0]
		m.waiters = slices.Delete(m.waiters, 0, 1)
		m.writing = true
		w.granted = true
		w.Notify()
		return
	}
	for len(m.waiters) != 0 && !m.waiters[0].write {
		w := m.waiters[0]
		m.waiters = slices.Delete(m.waiters, 0, 1)
		m.readers++
		w.granted = true
		w.Notify()
	}
}

// Lock returns a [Task] that awaits until the lock is held exclusively, and
// then ends.
//
// A waiter whose coroutine is canceled while queued leaves the queue
// without acquiring; one canceled after the lock was already handed to it
// releases the lock again.
func (m *RWMutex) Lock() Task {
	return func(co *Coroutine) Result {
		if !m.writing && m.readers == 0 && len(m.waiters) == 0 {
			m.writing = true
			return co.End()
		}
		w := &rwWaiter{m: m, write: true}
		m.waiters = append(m.waiters, w)
		co.Cleanup(func() { w.abandon(co) })
		co.Watch(w)
		return co.Yield(End())
	}
}

// RLock returns a [Task] that awaits until the lock is held for reading,
// and then ends.
// Readers share the lock, but a reader arriving after a queued writer waits
// its turn behind that writer.
func (m *RWMutex) RLock() Task {
	return func(co *Coroutine) Result {
		if !m.writing && len(m.waiters) == 0 {
			m.readers++
			return co.End()
		}
		w := &rwWaiter{m: m}
		m.waiters = append(m.waiters, w)
		co.Cleanup(func() { w.abandon(co) })
		co.Watch(w)
		return co.Yield(End())
	}
}

// Unlock releases an exclusive hold and admits the next waiters.
// Unlock panics if the lock is not held for writing.
//
// One should only call this method in a [Task] function.
func (m *RWMutex) Unlock() {
	if !m.writing {
		panic("coop: unlock of unlocked RWMutex")
	}
	m.writing = false
	m.settle()
}

// RUnlock releases one reading hold; the last reader out admits the next
// writer.
// RUnlock panics if the lock is not held for reading.
//
// One should only call this method in a [Task] function.
func (m *RWMutex) RUnlock() {
	if m.readers == 0 {
		panic("coop: RUnlock of unlocked RWMutex")
	}
	m.readers--
	m.settle()
}
