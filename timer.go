package coop

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Timeout registers a one-shot timer with clk and returns a [Promise] that
// resolves, with the firing time, once d has elapsed.
//
// Canceling the Promise stops the timer.
//
// Timeouts compose: there is no timeout parameter anywhere in this package;
// race the real operation against a Timeout with [Select] instead.
func Timeout(e *Executor, clk clock.Clock, d time.Duration) *Promise[time.Time] {
	return Once(e, func(resolve func(time.Time), _ func(error)) Unregister {
		tm := clk.AfterFunc(d, func() {
			resolve(clk.Now())
		})
		return func() { tm.Stop() }
	})
}

// Every registers a repeating timer with clk and returns a [Listener] that
// yields a tick every d.
//
// Closing the Listener stops the timer. Ticks coalesce like any other
// Listener events: a consumer that falls behind sees only the latest tick.
func Every(e *Executor, clk clock.Clock, d time.Duration) *Listener[time.Time] {
	return Listen(e, func(emit func(time.Time)) Unregister {
		tk := clk.Ticker(d)
		done := make(chan struct{})
		go func() {
			for {
				select {
				case tm := <-tk.C:
					emit(tm)
				case <-done:
					return
				}
			}
		}()
		return func() {
			tk.Stop()
			close(done)
		}
	})
}
