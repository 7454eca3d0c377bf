package coop

// runqueue is the executor's run queue: a growable ring buffer of
// coroutines in arrival order (FIFO).
type runqueue struct {
	buf  []*Coroutine
	head int
	n    int
}

func (q *runqueue) Empty() bool {
	return q.n == 0
}

func (q *runqueue) Push(co *Coroutine) {
	if q.n == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.n)%len(q.buf)] = co
	q.n++
}

func (q *runqueue) Pop() *Coroutine {
	co := q.buf[q.head]
	q.buf[q.head] = nil
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	return co
}

func (q *runqueue) grow() {
	next := make([]*Coroutine, max(8, len(q.buf)*2))
	for i := 0; i < q.n; i++ {
		next[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = next
	q.head = 0
}
