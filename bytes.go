package xfeed

import "unsafe"

var _ Buffer = (*BytesBuffer)(nil)

// BytesBuffer is a [Buffer] over a plain byte slice. It is the default
// producer-side handle: [Transfer] and [Retrieve] are built on it.
//
// Done closes the channel returned by Released, so a producer can select on
// it to learn when the consumer (or a reset) is finished with the buffer.
type BytesBuffer struct {
	data     []byte
	released chan struct{}
}

// NewBytesBuffer wraps data in a BytesBuffer. The slice is referenced, not
// copied; the caller must keep it valid and must not grow it until the
// channel returned by Released is closed.
func NewBytesBuffer(data []byte) *BytesBuffer {
	return &BytesBuffer{
		data:     data,
		released: make(chan struct{}),
	}
}

func (b *BytesBuffer) Length() int32 {
	return int32(len(b.data))
}

func (b *BytesBuffer) Data() unsafe.Pointer {
	if len(b.data) == 0 {
		return nil
	}
	return unsafe.Pointer(&b.data[0])
}

func (b *BytesBuffer) Done() {
	close(b.released)
}

// Released is closed once the queue is finished with the buffer.
func (b *BytesBuffer) Released() <-chan struct{} {
	return b.released
}

// Bytes returns the underlying slice.
func (b *BytesBuffer) Bytes() []byte {
	return b.data
}
