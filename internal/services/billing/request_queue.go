package billing

import (
	"sync"

	"github.com/kevin07696/store-billing/internal/domain"
)

// DeferredOperation is a unit of work waiting for the billing connection.
// setupErr is nil when the connection is ready, otherwise the operation must
// complete its caller with it and not contact the provider.
type DeferredOperation func(setupErr *domain.BillingError)

// QueueGate reports whether queued operations may run and with which setup error.
// It is called with the queue lock held.
type QueueGate func() (open bool, setupErr *domain.BillingError)

// RequestQueue is a FIFO of deferred operations.
//
// The queue shares the lock of its owner so that the connection state and the
// pending operations change together. Every method must be called with that lock held.
type RequestQueue struct {
	mu       sync.Locker
	ops      []DeferredOperation
	draining bool
}

// NewRequestQueue creates a queue guarded by mu
func NewRequestQueue(mu sync.Locker) *RequestQueue {
	return &RequestQueue{mu: mu}
}

// Enqueue appends an operation to the tail of the queue
func (q *RequestQueue) Enqueue(op DeferredOperation) {
	q.ops = append(q.ops, op)
}

// Len returns the number of waiting operations
func (q *RequestQueue) Len() int {
	return len(q.ops)
}

// IsDraining reports whether a drain pass is in progress
func (q *RequestQueue) IsDraining() bool {
	return q.draining
}

// Drain pops and runs operations in FIFO order while gate stays open.
//
// The lock is released while each operation runs, so an operation may enqueue more
// work; that work is appended and run by the same pass. Only one pass runs at a time:
// a Drain call made while another pass is active returns immediately and leaves its
// operations to that pass. Drain returns the number of operations it ran.
func (q *RequestQueue) Drain(gate QueueGate) int {
	if q.draining {
		return 0
	}
	q.draining = true
	defer func() { q.draining = false }()

	ran := 0
	for len(q.ops) > 0 {
		open, setupErr := gate()
		if !open {
			break
		}

		op := q.ops[0]
		q.ops[0] = nil
		q.ops = q.ops[1:]
		ran++

		q.mu.Unlock()
		func() {
			// Held again on return, including when op panics.
			defer q.mu.Lock()
			op(setupErr)
		}()
	}
	return ran
}
