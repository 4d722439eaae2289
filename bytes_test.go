package xfeed_test

import (
	"testing"
	"unsafe"

	"github.com/teenjuna/xfeed"
	"github.com/teenjuna/xfeed/internal/testing/require"
)

func TestBytesBuffer(t *testing.T) {
	data := []byte("payload")
	b := xfeed.NewBytesBuffer(data)

	require.Equal(t, b.Length(), int32(len(data)))
	require.True(t, b.Data() == unsafe.Pointer(&data[0]))
	require.Equal(t, b.Bytes(), data)

	select {
	case <-b.Released():
		t.Fatal("released before done")
	default:
	}

	b.Done()

	select {
	case <-b.Released():
	default:
		t.Fatal("not released after done")
	}
}

func TestBytesBufferEmpty(t *testing.T) {
	b := xfeed.NewBytesBuffer(nil)

	require.Equal(t, b.Length(), int32(0))
	require.True(t, b.Data() == nil)
}
