// File: queue/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded blocking FIFO between connection handlers (producers, on the
// reactor goroutine) and echo workers (consumers). The fixed capacity is
// the sole flow-control mechanism in the system: a full queue stalls the
// reactor goroutine and with it all accepting and reading.

package queue

import (
	"sync"

	ring "github.com/eapache/queue"

	"github.com/momentics/reactor-echo/api"
)

// Message is one unit of echo work: a decoded text chunk plus a non-owning
// reference to the connection it arrived on. Produced by a connection
// handler, consumed exactly once by a worker, fire-and-forget.
type Message struct {
	Payload string
	Conn    api.Conn
}

// Queue is a bounded MPMC FIFO of Messages. Push blocks while full, Pop
// blocks while empty; items become available in push-completion order.
type Queue struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond
	items    *ring.Queue
	capacity int
	closed   bool
}

// New creates a queue with the given fixed capacity. Capacity must be at
// least 1; there is no resize.
func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	q := &Queue{
		items:    ring.New(),
		capacity: capacity,
	}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Push appends m, blocking the caller while the queue is at capacity.
// It reports false only when the queue has been closed.
func (q *Queue) Push(m Message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Length() >= q.capacity && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		return false
	}

	q.items.Add(m)
	q.notEmpty.Signal()
	return true
}

// Pop removes the oldest message, blocking the caller while the queue is
// empty. It reports false only when the queue has been closed.
func (q *Queue) Pop() (Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Length() == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if q.closed {
		return Message{}, false
	}

	m := q.items.Remove().(Message)
	q.notFull.Signal()
	return m, true
}

// Len returns the current occupancy, always within [0, Cap].
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}

// Cap returns the fixed capacity.
func (q *Queue) Cap() int { return q.capacity }

// Close abruptly wakes every blocked producer and consumer; pending items
// are discarded, not drained. Used only for external cancellation.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return api.ErrClosed
	}
	q.closed = true
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
	return nil
}
