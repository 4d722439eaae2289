package xfeed

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Transfer hands payloads to the consumer of q. Each payload is wrapped in
// a [BytesBuffer] and all of them are enqueued as one atomic batch, so the
// consumer sees them back to back in payload order. Transfer then blocks
// until every buffer has been released (or dropped by a reset), or until
// ctx is cancelled.
//
// Cancellation only abandons the wait: buffers already enqueued stay in the
// queue, and the payload slices must remain valid until their Done fires.
func Transfer(ctx context.Context, q *QueueManager, payloads [][]byte) error {
	buffers := make([]*BytesBuffer, len(payloads))
	for i, payload := range payloads {
		buffers[i] = NewBytesBuffer(payload)
	}

	enqueue(q, buffers)

	return await(ctx, buffers)
}

// Retrieve collects the next len(sizes) results from the consumer of q. It
// enqueues one writable buffer per requested size as a single atomic batch,
// waits for the consumer to fill and release each one, and returns the
// payloads in batch order.
//
// As with [Transfer], cancellation abandons the wait but leaves unconsumed
// buffers in the queue.
func Retrieve(ctx context.Context, q *QueueManager, sizes []int32) ([][]byte, error) {
	buffers := make([]*BytesBuffer, len(sizes))
	for i, size := range sizes {
		if size < 0 {
			panic("size can't be < 0")
		}
		buffers[i] = NewBytesBuffer(make([]byte, size))
	}

	enqueue(q, buffers)

	if err := await(ctx, buffers); err != nil {
		return nil, err
	}

	payloads := make([][]byte, len(buffers))
	for i, b := range buffers {
		payloads[i] = b.Bytes()
	}

	return payloads, nil
}

func enqueue(q *QueueManager, buffers []*BytesBuffer) {
	batch := make([]Buffer, len(buffers))
	for i, b := range buffers {
		batch[i] = b
	}
	q.Enqueue(batch...)
}

func await(ctx context.Context, buffers []*BytesBuffer) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, b := range buffers {
		group.Go(func() error {
			select {
			case <-b.Released():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	return group.Wait()
}
