package coop

// Event is anything a [Coroutine] can suspend on: watching an event
// registers the coroutine with it, and the event's notification resumes
// the coroutine.
//
// [Signal], [Promise], [Listener], [JoinHandle] and [WaitGroup] implement
// Event.
type Event interface {
	addListener(co *Coroutine)
	removeListener(co *Coroutine)
}

// A Signal is the primitive [Event]: a bare notification with no payload
// and no memory. Every watchable type in this package is built around an
// embedded Signal.
//
// Notifying a Signal resumes the coroutines watching it at that moment;
// a coroutine that starts watching afterwards missed it. Types that need
// "already fired" semantics pair a Signal with state of their own, the way
// [Promise] pairs one with a settled slot.
//
// A Signal must not be shared by more than one [Executor].
type Signal struct {
	listeners map[*Coroutine]struct{}
}

func (s *Signal) addListener(co *Coroutine) {
	if s.listeners == nil {
		s.listeners = make(map[*Coroutine]struct{})
	}
	s.listeners[co] = struct{}{}
}

func (s *Signal) removeListener(co *Coroutine) {
	delete(s.listeners, co)
}

// Notify resumes every [Coroutine] currently watching s.
//
// One should only call this method in a [Task] function.
func (s *Signal) Notify() {
	for co := range s.listeners {
		co.resume()
	}
}
