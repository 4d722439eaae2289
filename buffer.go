package xfeed

import "unsafe"

// Buffer is a single unit of data handed off through a [QueueManager].
//
// The producer owns the storage behind the buffer; the queue only keeps a
// reference to it. From the moment the buffer is enqueued until Done fires,
// the storage must stay valid and Length must not change.
//
// Done is invoked exactly once over the buffer's lifetime: either by
// [QueueManager.Release] after the consumer finished with the buffer, or by
// [QueueManager.Reset] when the buffer is dropped unconsumed. It always runs
// with no queue lock held, so it may touch other queues, but it must not
// call back into the queue that is delivering the notification.
type Buffer interface {
	// Length returns the byte size of the buffer's contents.
	Length() int32
	// Data returns a stable handle to the buffer's storage. It must return
	// the same value for the buffer's whole lifetime: Release compares it by
	// identity, not by contents.
	Data() unsafe.Pointer
	// Done signals that the queue will never touch the buffer again.
	Done()
}
