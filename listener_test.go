package coop_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coopkit/coop"
)

// drainInto returns a task that consumes every available event into out and
// suspends between bursts, until the listener closes.
func drainInto(l *coop.Listener[int], out *[]int) coop.Task {
	return func(co *coop.Coroutine) coop.Result {
		for l.Ready() {
			v, err := l.Recv()
			if err != nil {
				return co.End()
			}
			*out = append(*out, v)
		}
		return co.Await(l)
	}
}

func TestListenerInOrder(t *testing.T) {
	var myExecutor coop.Executor

	myExecutor.Autorun(myExecutor.Run)

	var emit func(int)

	l := coop.Listen(&myExecutor, func(f func(int)) coop.Unregister {
		emit = f
		return nil
	})

	var got []int

	myExecutor.Spawn(drainInto(l, &got))

	// A consumer that keeps up sees every event, in arrival order.
	emit(1)
	emit(2)
	emit(3)

	require.Equal(t, []int{1, 2, 3}, got)
}

func TestListenerCoalesces(t *testing.T) {
	var myExecutor coop.Executor

	myExecutor.Autorun(myExecutor.Run)

	var emit func(int)

	l := coop.Listen(&myExecutor, func(f func(int)) coop.Unregister {
		emit = f
		return nil
	})

	// No consumer yet: the one-slot buffer keeps only the latest.
	emit(1)
	emit(2)
	emit(3)

	var got []int

	myExecutor.Spawn(drainInto(l, &got))

	require.Equal(t, []int{3}, got)
}

func TestListenerClose(t *testing.T) {
	var myExecutor coop.Executor

	myExecutor.Autorun(myExecutor.Run)

	var (
		emit         func(int)
		unregistered bool
	)

	l := coop.Listen(&myExecutor, func(f func(int)) coop.Unregister {
		emit = f
		return func() { unregistered = true }
	})

	var (
		got    []int
		closed bool
	)

	myExecutor.Spawn(drainInto(l, &got).Then(coop.Do(func() { closed = true })))

	emit(7)
	require.Equal(t, []int{7}, got)
	require.False(t, closed)

	// Close wakes the waiting consumer, whose Recv reports ErrClosed.
	myExecutor.Spawn(coop.Do(l.Close))

	require.True(t, closed)
	require.True(t, unregistered)

	// Events fired by a host that missed the unregister are dropped.
	emit(8)
	require.Equal(t, []int{7}, got)

	// Close is idempotent.
	unregistered = false
	myExecutor.Spawn(coop.Do(l.Close))
	require.False(t, unregistered)
}

func TestListenerClosedFailsFast(t *testing.T) {
	var myExecutor coop.Executor

	myExecutor.Autorun(myExecutor.Run)

	l := coop.Listen(&myExecutor, func(func(int)) coop.Unregister {
		return nil
	})

	myExecutor.Spawn(coop.Do(l.Close))

	// Awaiting a closed listener must not suspend forever.
	var err error

	myExecutor.Spawn(l.Next().Then(coop.Do(func() {
		_, err = l.Recv()
	})))

	require.ErrorIs(t, err, coop.ErrClosed)
}

func TestListenerRecvWithoutEvent(t *testing.T) {
	var myExecutor coop.Executor

	myExecutor.Autorun(myExecutor.Run)

	l := coop.Listen(&myExecutor, func(func(int)) coop.Unregister {
		return nil
	})

	require.False(t, l.Ready())

	_, err := l.Recv()
	require.ErrorIs(t, err, coop.ErrNoEvent)
}
