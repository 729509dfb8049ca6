package worker

import (
	"context"
	"sync"

	"github.com/fwojciec/traverse"
)

// Queue is an unbounded FIFO of requests with many producers and a single
// consumer. Push never blocks. Once closed, Push fails with
// traverse.ErrWorkerUnavailable.
type Queue struct {
	mu     sync.Mutex
	items  []traverse.Request
	closed bool
	ready  chan struct{} // Signalled when items arrive or the queue closes
}

// NewQueue creates an empty, open queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Push appends r to the queue.
func (q *Queue) Push(r traverse.Request) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return traverse.ErrWorkerUnavailable
	}
	q.items = append(q.items, r)
	q.signal()
	return nil
}

// Pop removes the oldest request, blocking until one is available. It
// returns traverse.ErrWorkerUnavailable once the queue is closed and empty,
// or ctx.Err() if ctx ends first.
func (q *Queue) Pop(ctx context.Context) (traverse.Request, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			r := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			q.mu.Unlock()
			return r, nil
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return nil, traverse.ErrWorkerUnavailable
		}

		select {
		case <-q.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Close rejects further pushes and returns the requests still queued.
// Calling Close more than once is safe.
func (q *Queue) Close() []traverse.Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	left := q.items
	q.items = nil
	q.signal()
	return left
}

// Len returns the number of queued requests.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
