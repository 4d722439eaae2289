package xfeed_test

import (
	"context"
	"testing"
	"testing/synctest"
	"unsafe"

	"github.com/teenjuna/xfeed"
	"github.com/teenjuna/xfeed/internal/testing/require"
)

func TestTransfer(t *testing.T) {
	run(t, func(t *testing.T) {
		q := newQueue(t)

		payloads := [][]byte{
			[]byte("first"),
			[]byte("second"),
			{},
			[]byte("fourth"),
		}

		go func() {
			for _, want := range payloads {
				b := q.Dequeue()
				require.Equal(t, contents(b), want)
				q.Release(b.Length(), b.Data())
			}
		}()

		require.Nil(t, xfeed.Transfer(t.Context(), q, payloads))
		require.Equal(t, q.Len(), 0)
	})
}

func TestRetrieve(t *testing.T) {
	run(t, func(t *testing.T) {
		q := newQueue(t)

		sizes := []int32{3, 0, 5}

		// The consumer fills each buffer with its batch index.
		go func() {
			for i := range sizes {
				b := q.Dequeue()
				data := contents(b)
				for j := range data {
					data[j] = byte(i)
				}
				q.Release(b.Length(), b.Data())
			}
		}()

		payloads, err := xfeed.Retrieve(t.Context(), q, sizes)
		require.Nil(t, err)
		require.Equal(t, payloads, [][]byte{
			{0, 0, 0},
			{},
			{2, 2, 2, 2, 2},
		})
	})
}

func TestTransferCancelled(t *testing.T) {
	run(t, func(t *testing.T) {
		q := newQueue(t)

		payloads := [][]byte{
			[]byte("first"),
			[]byte("second"),
		}

		ctx, cancel := context.WithCancel(t.Context())

		result := make(chan error, 1)
		go func() {
			result <- xfeed.Transfer(ctx, q, payloads)
		}()

		synctest.Wait()
		select {
		case <-result:
			t.Fatal("transfer returned without a consumer")
		default:
		}

		cancel()

		synctest.Wait()
		require.ErrorIs(t, <-result, context.Canceled)

		// Cancellation abandons the wait but not the hand-off.
		require.Equal(t, q.Len(), len(payloads))
		q.Reset()
		require.Equal(t, q.Len(), 0)
	})
}

func TestTransferUnblockedByReset(t *testing.T) {
	run(t, func(t *testing.T) {
		q := newQueue(t)

		result := make(chan error, 1)
		go func() {
			result <- xfeed.Transfer(t.Context(), q, [][]byte{[]byte("dropped")})
		}()

		synctest.Wait()
		q.Reset()

		synctest.Wait()
		require.Nil(t, <-result)
	})
}

func TestRetrieveNegativeSize(t *testing.T) {
	q := newQueue(t)

	require.PanicWithError(t, "size can't be < 0", func() {
		_, _ = xfeed.Retrieve(t.Context(), q, []int32{-1})
	})
}

// contents reads a dequeued buffer the way a runtime consumer does, through
// its raw data handle.
func contents(b xfeed.Buffer) []byte {
	if b.Length() == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(b.Data()), int(b.Length()))
}
