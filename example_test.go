package coop_test

import (
	"errors"
	"fmt"

	"github.com/coopkit/coop"
)

// A toy host environment: one-shot callbacks registered by name, fired by
// the test.
type host struct {
	callbacks map[string]func()
}

func (h *host) register(name string, f func()) func() {
	if h.callbacks == nil {
		h.callbacks = make(map[string]func())
	}
	h.callbacks[name] = f
	return func() { delete(h.callbacks, name) }
}

func (h *host) fire(name string) {
	if f := h.callbacks[name]; f != nil {
		delete(h.callbacks, name) // one-shot
		f()
	}
}

func Example() {
	var myExecutor coop.Executor

	myExecutor.Autorun(myExecutor.Run)

	var myHost host

	once := func(name string) *coop.Promise[string] {
		return coop.Once(&myExecutor, func(resolve func(string), _ func(error)) coop.Unregister {
			return myHost.register(name, func() { resolve(name) })
		})
	}

	a := once("alpha")
	b := once("beta")

	myExecutor.Spawn(coop.Join(a, b).Then(coop.Do(func() {
		va, _ := a.Result()
		vb, _ := b.Result()
		fmt.Println("joined:", va, vb)
	})))

	// Firing order does not matter; results keep input order.
	myHost.fire("beta")
	myHost.fire("alpha")

	// Output:
	// joined: alpha beta
}

func ExampleSelect() {
	var myExecutor coop.Executor

	myExecutor.Autorun(myExecutor.Run)

	var myHost host

	once := func(name string) *coop.Promise[string] {
		return coop.Once(&myExecutor, func(resolve func(string), _ func(error)) coop.Unregister {
			return myHost.register(name, func() { resolve(name) })
		})
	}

	a := once("data")
	b := once("deadline")

	myExecutor.Spawn(coop.Select(func(index int) {
		switch index {
		case 0:
			v, _ := a.Result()
			fmt.Println("got:", v)
			b.Cancel()
		case 1:
			fmt.Println("timed out")
			a.Cancel()
		}
	}, a, b))

	myHost.fire("data")

	// The loser was canceled, so its registration is gone.
	fmt.Println("registrations left:", len(myHost.callbacks))

	// Output:
	// got: data
	// registrations left: 0
}

func ExampleGo() {
	var myExecutor coop.Executor

	myExecutor.Autorun(myExecutor.Run)

	h := coop.Go(&myExecutor, func(co *coop.Coroutine, resolve func(int)) coop.Result {
		resolve(6 * 7)
		return co.End()
	})

	myExecutor.Spawn(h.Join().Then(coop.Do(func() {
		v, err := h.Result()
		fmt.Println(v, err)
	})))

	// Output:
	// 42 <nil>
}

func ExampleListen() {
	var myExecutor coop.Executor

	myExecutor.Autorun(myExecutor.Run)

	var emit func(int)

	l := coop.Listen(&myExecutor, func(f func(int)) coop.Unregister {
		emit = f
		return nil
	})

	myExecutor.Spawn(func(co *coop.Coroutine) coop.Result {
		for l.Ready() {
			v, err := l.Recv()
			if errors.Is(err, coop.ErrClosed) {
				fmt.Println("closed")
				return co.End()
			}
			fmt.Println("event:", v)
			if v == 3 {
				l.Close()
			}
		}
		return co.Await(l)
	})

	emit(1)
	emit(2)
	emit(3)

	// Output:
	// event: 1
	// event: 2
	// event: 3
	// closed
}
