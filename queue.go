// Package xfeed moves externally owned data buffers between producer
// threads and a single runtime consumer, one FIFO hand-off queue per
// transfer direction.
package xfeed

import (
	"sync"
	"time"
	"unsafe"

	"github.com/teenjuna/xfeed/journal"
)

// QueueManager is a thread-safe FIFO hand-off queue for one transfer
// direction.
//
// Any number of producers may call Enqueue (and Reset) concurrently, while
// exactly one consumer at a time calls Dequeue and Release. The consumer
// must release every dequeued buffer before dequeuing the next one; breaking
// that protocol panics, it is a bug in the consumer, not a runtime error.
//
// See [Buffer] for the ownership and completion contract.
type QueueManager struct {
	mu   sync.Mutex
	cond *sync.Cond

	// Buffers waiting for the consumer, in arrival order. Contents are not
	// owned; each buffer's Done runs when it leaves the queue for good.
	pending []Buffer

	// The buffer the consumer is processing right now, nil when idle.
	current Buffer

	direction string
	metrics   *metrics
	journal   *journal.Journal
}

func newQueueManager(direction string, m *metrics, jnl *journal.Journal) *QueueManager {
	q := &QueueManager{
		direction: direction,
		metrics:   m,
		journal:   jnl,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends buffers to the tail of the queue as one atomic batch and
// wakes the consumer if it is blocked on an empty queue. Calling it with no
// buffers is a no-op.
//
// The queue takes no ownership: every buffer must stay valid until its Done
// fires.
func (q *QueueManager) Enqueue(buffers ...Buffer) {
	if len(buffers) == 0 {
		return
	}

	q.mu.Lock()
	wasEmpty := len(q.pending) == 0
	q.pending = append(q.pending, buffers...)
	if wasEmpty {
		q.cond.Broadcast()
	}
	q.mu.Unlock()

	q.metrics.enqueued.WithLabelValues(q.direction).Add(float64(len(buffers)))
	q.metrics.pending.WithLabelValues(q.direction).Add(float64(len(buffers)))
	q.record(journal.EventEnqueue, buffers...)
}

// Dequeue blocks until the queue is non-empty, then removes the head buffer,
// marks it current and returns it. Buffers come out in the order their
// Enqueue calls were applied, head-first within each batch.
//
// Dequeue never times out; a producer that needs to unblock the consumer
// must enqueue a sentinel buffer of its own.
//
// Calling Dequeue while a previously dequeued buffer is unreleased is a
// protocol violation and panics.
func (q *QueueManager) Dequeue() Buffer {
	started := time.Now()

	q.mu.Lock()
	if q.current != nil {
		q.mu.Unlock()
		panic("xfeed: dequeue with an unreleased current buffer")
	}
	for len(q.pending) == 0 {
		q.cond.Wait()
	}
	b := q.pending[0]
	copy(q.pending, q.pending[1:])
	q.pending[len(q.pending)-1] = nil
	q.pending = q.pending[:len(q.pending)-1]
	q.current = b
	q.mu.Unlock()

	q.metrics.pending.WithLabelValues(q.direction).Sub(1)
	q.metrics.dequeueWait.WithLabelValues(q.direction).Observe(time.Since(started).Seconds())
	q.record(journal.EventDequeue, b)

	return b
}

// Release clears the current buffer and fires its Done before returning.
//
// length and data must be the current buffer's own Length and Data values.
// The data check is pointer identity, which guards against the consumer
// releasing a buffer it did not dequeue. Calling Release with no current
// buffer, or with mismatched values, is a protocol violation and panics.
func (q *QueueManager) Release(length int32, data unsafe.Pointer) {
	q.mu.Lock()
	cur := q.current
	switch {
	case cur == nil:
		q.mu.Unlock()
		panic("xfeed: release without a current buffer")
	case cur.Length() != length || cur.Data() != data:
		q.mu.Unlock()
		panic("xfeed: release of a mismatched buffer")
	}
	q.current = nil
	q.mu.Unlock()

	q.metrics.released.WithLabelValues(q.direction).Inc()
	q.record(journal.EventRelease, cur)
	cur.Done()
}

// Reset drops every buffer still waiting in the queue, firing Done on each
// in FIFO order, and leaves the queue empty. A subsequent Dequeue blocks
// until new buffers arrive.
//
// Reset must only be called while no computation is consuming this queue.
// Calling it while a current buffer is outstanding panics.
func (q *QueueManager) Reset() {
	q.mu.Lock()
	if q.current != nil {
		q.mu.Unlock()
		panic("xfeed: reset with an unreleased current buffer")
	}
	dropped := q.pending
	q.pending = nil
	q.mu.Unlock()

	if len(dropped) == 0 {
		return
	}

	q.metrics.pending.WithLabelValues(q.direction).Sub(float64(len(dropped)))
	q.metrics.dropped.WithLabelValues(q.direction).Add(float64(len(dropped)))
	q.record(journal.EventDrop, dropped...)
	for _, b := range dropped {
		b.Done()
	}
}

// Len returns the number of buffers waiting in the queue. The current
// buffer, if any, is not counted.
func (q *QueueManager) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Journal writes are best-effort observability; a failed insert never
// disturbs the hand-off itself.
func (q *QueueManager) record(event string, buffers ...Buffer) {
	if q.journal == nil {
		return
	}
	for _, b := range buffers {
		_ = q.journal.Record(q.direction, event, b.Length())
	}
}
