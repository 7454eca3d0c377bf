package coop

import "slices"

// Do returns a [Task] that calls f, and then ends.
func Do(f func()) Task {
	return func(co *Coroutine) Result {
		f()
		return co.End()
	}
}

// End returns a [Task] that ends without doing anything.
func End() Task {
	return (*Coroutine).End
}

// Never returns a [Task] that never ends.
func Never() Task {
	return func(co *Coroutine) Result {
		return co.Await()
	}
}

// Await returns a [Task] that awaits some events until any of them notifies,
// and then ends.
// If ev is empty, Await returns a [Task] that never ends.
func Await(ev ...Event) Task {
	return func(co *Coroutine) Result {
		co.Watch(ev...)
		return co.Yield(End())
	}
}

// Then returns a [Task] that first works on t, then next after t ends.
//
// To chain multiple tasks, use [Block] function.
func (t Task) Then(next Task) Task {
	must(next)
	return func(co *Coroutine) Result {
		switch res := t(co); res.action {
		case doEnd:
			return Result{action: doSwitch, task: next}
		case doYield, doSwitch:
			if res.task != nil {
				t = res.task
			}
			return Result{action: res.action}
		default:
			panic("coop: internal error: unknown action")
		}
	}
}

// Block returns a [Task] that runs each of the given tasks in sequence.
// When one task ends, Block runs another.
func Block(s ...Task) Task {
	switch len(s) {
	case 0:
		return End()
	case 1:
		return must(s[0])
	case 2:
		return s[0].Then(s[1])
	}

	s = slices.Clone(s)
	var t Task

	return func(co *Coroutine) Result {
		if t == nil {
			t, s = must(s[0]), s[1:]
		}
		switch res := t(co); res.action {
		case doEnd:
			if len(s) == 0 {
				return co.End()
			}
			t = nil
			return Result{action: doSwitch}
		case doYield, doSwitch:
			if res.task != nil {
				t = res.task
			}
			return Result{action: res.action}
		default:
			panic("coop: internal error: unknown action")
		}
	}
}
