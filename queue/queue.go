package queue

import "sync"

// Queue is an unbounded FIFO for any number of producers and a single
// consumer. Take blocks until an item arrives or the consumer is
// interrupted for the current connection epoch.
type Queue[T any] struct {
	mutex       sync.Mutex
	cond        *sync.Cond
	items       []T
	interrupted bool
}

func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mutex)
	return q
}

// any goroutine
func (q *Queue[T]) Push(item T) {
	q.mutex.Lock()
	q.items = append(q.items, item)
	q.mutex.Unlock()

	q.cond.Signal()
}

// consumer goroutine; returns false once per Interrupt
func (q *Queue[T]) Take() (T, bool) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for len(q.items) == 0 && !q.interrupted {
		q.cond.Wait()
	}

	if q.interrupted {
		q.interrupted = false
		var zero T
		return zero, false
	}

	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Drain discards all pending items and any unobserved interrupt, so a
// new epoch's consumer starts clean. Reports how many items were
// dropped.
func (q *Queue[T]) Drain() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	n := len(q.items)
	q.items = nil
	q.interrupted = false
	return n
}

// Interrupt wakes the blocked consumer, if any; its next Take returns
// false.
func (q *Queue[T]) Interrupt() {
	q.mutex.Lock()
	q.interrupted = true
	q.mutex.Unlock()

	q.cond.Broadcast()
}

func (q *Queue[T]) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return len(q.items)
}
