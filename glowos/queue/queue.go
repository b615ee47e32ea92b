// Package queue provides the bounded cross-task FIFO that bridges the
// network task and the main loop.
package queue

import (
	"sync"
	"time"
)

// WaitTime is the maximum time an Add or Get call blocks before failing.
const WaitTime = 100 * time.Millisecond

// Queue is a fixed-capacity FIFO of items moving from one task to another.
//
// Add and Get block for at most WaitTime when the queue is full respectively
// empty, then fail without modifying the queue. A zero Queue rejects all
// operations until Init succeeds.
type Queue[T any] struct {
	mu sync.Mutex
	ch chan T
}

// New creates a queue with the given capacity.
//
// A capacity below one yields a queue that rejects all operations.
func New[T any](capacity int) *Queue[T] {
	q := &Queue[T]{}
	q.Init(capacity)
	return q
}

// Init replaces the underlying queue with a fresh one of the given capacity.
// Any items still queued are dropped.
func (q *Queue[T]) Init(capacity int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if capacity < 1 {
		q.ch = nil
		return false
	}
	q.ch = make(chan T, capacity)
	return true
}

// Add appends one item, waiting at most WaitTime for space.
//
// On failure the queue is unchanged and the caller still owns the item; it is
// the caller's job to release it and report overload upstream.
func (q *Queue[T]) Add(item T) bool {
	q.mu.Lock()
	ch := q.ch
	q.mu.Unlock()
	if ch == nil {
		return false
	}

	select {
	case ch <- item:
		return true
	default:
	}

	t := time.NewTimer(WaitTime)
	defer t.Stop()
	select {
	case ch <- item:
		return true
	case <-t.C:
		return false
	}
}

// Get removes the oldest item, waiting at most WaitTime for one to arrive.
func (q *Queue[T]) Get() (T, bool) {
	var zero T

	q.mu.Lock()
	ch := q.ch
	q.mu.Unlock()
	if ch == nil {
		return zero, false
	}

	select {
	case item := <-ch:
		return item, true
	default:
	}

	t := time.NewTimer(WaitTime)
	defer t.Stop()
	select {
	case item := <-ch:
		return item, true
	case <-t.C:
		return zero, false
	}
}

// TryGet removes the oldest item without blocking.
func (q *Queue[T]) TryGet() (T, bool) {
	var zero T

	q.mu.Lock()
	ch := q.ch
	q.mu.Unlock()
	if ch == nil {
		return zero, false
	}

	select {
	case item := <-ch:
		return item, true
	default:
		return zero, false
	}
}

// Len reports the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.ch == nil {
		return 0
	}
	return len(q.ch)
}
