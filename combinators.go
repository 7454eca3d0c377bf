package coop

import "fmt"

// An Awaitable is anything with settle-exactly-once semantics that a
// combinator can wait on: a [Promise], a [JoinHandle], or any watchable
// with a notion of having settled, possibly with an error.
type Awaitable interface {
	Event

	// Settled reports whether the awaitable has completed or failed.
	Settled() bool

	// Err returns the failure, or nil while pending or on success.
	Err() error
}

// An IndexedError wraps the error of a failing combinator input together
// with the input's position.
type IndexedError struct {
	Index int
	Err   error
}

func (e *IndexedError) Error() string {
	return fmt.Sprintf("coop: input %d: %v", e.Index, e.Err)
}

func (e *IndexedError) Unwrap() error {
	return e.Err
}

// Join returns a [Task] that ends once every one of the given awaitables
// has settled, successfully or not.
//
// Results keep input order by construction: the caller reads them from the
// awaitables it passed in, which never move. Completion order is
// irrelevant.
//
// Join of nothing ends immediately.
func Join(ws ...Awaitable) Task {
	return func(co *Coroutine) Result {
		done := true
		for _, w := range ws {
			if !w.Settled() {
				done = false
				co.Watch(w)
			}
		}
		if done {
			return co.End()
		}
		return co.Await()
	}
}

// TryJoin returns a [Task] that ends once every one of the given awaitables
// has settled successfully, or as soon as any of them has failed.
//
// On failure, done receives an [*IndexedError] naming the first failing
// input; inputs still pending at that point are left running and their
// results are discarded. Cancel them explicitly if their registrations must
// go.
// On success, done receives nil.
// When several inputs fail within the same scheduler turn, the lowest index
// wins.
func TryJoin(done func(err error), ws ...Awaitable) Task {
	return func(co *Coroutine) Result {
		settled := true
		for i, w := range ws {
			if !w.Settled() {
				settled = false
				continue
			}
			if err := w.Err(); err != nil {
				if done != nil {
					done(&IndexedError{Index: i, Err: err})
				}
				return co.End()
			}
		}
		if settled {
			if done != nil {
				done(nil)
			}
			return co.End()
		}
		for _, w := range ws {
			if !w.Settled() {
				co.Watch(w)
			}
		}
		return co.Await()
	}
}

// Select returns a [Task] that ends at the first of the given awaitables to
// settle, reporting the winner's input index to done.
// When several settle within the same scheduler turn, the lowest index
// wins.
//
// Losing inputs are never observed by Select: their registrations stay
// outstanding until the caller cancels them.
//
// Select of nothing never ends.
func Select(done func(index int), ws ...Awaitable) Task {
	return func(co *Coroutine) Result {
		for i, w := range ws {
			if w.Settled() {
				if done != nil {
					done(i)
				}
				return co.End()
			}
		}
		for _, w := range ws {
			co.Watch(w)
		}
		return co.Await()
	}
}
