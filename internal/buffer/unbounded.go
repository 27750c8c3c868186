// Package buffer provides the unbounded FIFO behind event-stream delivery.
package buffer

import "sync"

// Unbounded decouples producers from consumers with no backpressure: Send
// never blocks regardless of consumer speed, which keeps the detector's
// Record path synchronous and total even with a stalled subscriber. A single
// background goroutine drains the queue into the output channel in FIFO
// order.
//
// The zero value is not usable; construct with [NewUnbounded].
type Unbounded[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []T
	closed bool

	out chan T
}

// NewUnbounded creates a buffer and starts its drain goroutine. The
// goroutine exits once Close has been called and the queue is empty.
func NewUnbounded[T any]() *Unbounded[T] {
	u := &Unbounded[T]{
		queue: make([]T, 0, 16),
		out:   make(chan T),
	}
	u.cond = sync.NewCond(&u.mu)
	go u.drain()
	return u
}

// drain moves queued items to the output channel until the buffer is closed
// and empty, then closes the channel. The lock is never held across the
// channel send, so Send stays non-blocking while a consumer is slow.
func (u *Unbounded[T]) drain() {
	for {
		u.mu.Lock()
		for len(u.queue) == 0 && !u.closed {
			u.cond.Wait()
		}
		if len(u.queue) == 0 {
			u.mu.Unlock()
			close(u.out)
			return
		}
		item := u.queue[0]
		u.queue = u.queue[1:]
		u.mu.Unlock()

		u.out <- item
	}
}

// Send enqueues an item. Never blocks; safe from any goroutine. Items sent
// after Close are dropped silently.
func (u *Unbounded[T]) Send(item T) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return
	}
	u.queue = append(u.queue, item)
	u.cond.Signal()
}

// Receive returns the delivery channel. It closes after Close once all
// queued items have been delivered.
func (u *Unbounded[T]) Receive() <-chan T {
	return u.out
}

// Close marks the buffer closed. Queued items are still delivered; later
// Sends are dropped. Safe to call multiple times.
func (u *Unbounded[T]) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return
	}
	u.closed = true
	u.cond.Signal()
}

// Len returns the number of items queued and not yet handed to the drain
// goroutine. Mainly useful in tests.
func (u *Unbounded[T]) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.queue)
}
