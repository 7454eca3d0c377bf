package coop_test

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/coopkit/coop"
)

func TestTimeout(t *testing.T) {
	var myExecutor coop.Executor

	myExecutor.Autorun(myExecutor.Run)

	mock := clock.NewMock()

	p := coop.Timeout(&myExecutor, mock, 50*time.Millisecond)

	var fired bool

	myExecutor.Spawn(p.Await().Then(coop.Do(func() { fired = true })))

	mock.Add(49 * time.Millisecond)
	require.False(t, fired)

	mock.Add(1 * time.Millisecond)
	require.True(t, fired)

	when, err := p.Result()
	require.NoError(t, err)
	require.Equal(t, mock.Now(), when)
}

func TestTimeoutCancelStopsTimer(t *testing.T) {
	var myExecutor coop.Executor

	myExecutor.Autorun(myExecutor.Run)

	mock := clock.NewMock()

	p := coop.Timeout(&myExecutor, mock, 50*time.Millisecond)

	myExecutor.Spawn(coop.Do(p.Cancel))

	_, err := p.Result()
	require.ErrorIs(t, err, coop.ErrCanceled)

	mock.Add(100 * time.Millisecond)

	_, err = p.Result()
	require.ErrorIs(t, err, coop.ErrCanceled)
}

func TestTimeoutComposes(t *testing.T) {
	var myExecutor coop.Executor

	myExecutor.Autorun(myExecutor.Run)

	mock := clock.NewMock()

	// There is no timeout parameter anywhere: a deadline is just another
	// input to Select.
	op := pending(&myExecutor)
	deadline := coop.Timeout(&myExecutor, mock, 200*time.Millisecond)

	timedOut := false

	myExecutor.Spawn(coop.Select(func(index int) {
		if index == 1 {
			timedOut = true
			op.Cancel()
		}
	}, op, deadline))

	mock.Add(200 * time.Millisecond)

	require.True(t, timedOut)
	require.ErrorIs(t, op.Err(), coop.ErrCanceled)
}

func TestEvery(t *testing.T) {
	var myExecutor coop.Executor

	var wg sync.WaitGroup
	defer wg.Wait()

	// Ticks arrive on a timer goroutine; autorun must not assume the test
	// goroutine.
	myExecutor.Autorun(func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			myExecutor.Run()
		}()
	})

	l := coop.Every(&myExecutor, clock.New(), 5*time.Millisecond)

	done := make(chan int)

	n := 0

	myExecutor.Spawn(func(co *coop.Coroutine) coop.Result {
		for l.Ready() {
			if _, err := l.Recv(); err != nil {
				done <- n
				return co.End()
			}
			n++
			if n == 3 {
				l.Close()
			}
		}
		return co.Await(l)
	})

	require.Equal(t, 3, <-done)
}
