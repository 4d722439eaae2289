package xfeed_test

import (
	"testing"

	"github.com/teenjuna/xfeed"
	"github.com/teenjuna/xfeed/internal/testing/require"
	"github.com/teenjuna/xfeed/journal"
)

func TestDirectionsAreIndependent(t *testing.T) {
	manager, err := xfeed.New()
	require.Nil(t, err)
	deferClose(t, manager)

	var (
		in1  = newTestBuffer(1)
		in2  = newTestBuffer(2)
		out1 = newTestBuffer(3)
	)

	manager.Infeed().Enqueue(in1, in2)
	require.Equal(t, manager.Infeed().Len(), 2)
	require.Equal(t, manager.Outfeed().Len(), 0)

	manager.Outfeed().Enqueue(out1)
	require.Equal(t, manager.Infeed().Len(), 2)
	require.Equal(t, manager.Outfeed().Len(), 1)

	// A busy infeed consumer must not affect the outfeed protocol.
	requireSame(t, manager.Infeed().Dequeue(), in1)
	requireSame(t, manager.Outfeed().Dequeue(), out1)
	release(manager.Outfeed(), out1)
	require.Equal(t, out1.done, 1)
	require.Equal(t, in1.done, 0)

	release(manager.Infeed(), in1)
	require.Equal(t, in1.done, 1)

	manager.Infeed().Reset()
	require.Equal(t, in2.done, 1)
	require.Equal(t, manager.Infeed().Len(), 0)
}

func TestManagerReset(t *testing.T) {
	manager, err := xfeed.New()
	require.Nil(t, err)
	deferClose(t, manager)

	var (
		in  = newTestBuffer(1)
		out = newTestBuffer(2)
	)

	manager.Infeed().Enqueue(in)
	manager.Outfeed().Enqueue(out)

	manager.Reset()

	require.Equal(t, in.done, 1)
	require.Equal(t, out.done, 1)
	require.Equal(t, manager.Infeed().Len(), 0)
	require.Equal(t, manager.Outfeed().Len(), 0)
}

func TestManagerJournal(t *testing.T) {
	manager, err := xfeed.New(
		xfeed.WithJournal(xfeed.Journal(":memory:")),
	)
	require.Nil(t, err)
	deferClose(t, manager)
	require.NotNil(t, manager.Journal())

	var (
		in1 = newTestBuffer(8)
		in2 = newTestBuffer(16)
		out = newTestBuffer(32)
	)

	manager.Infeed().Enqueue(in1, in2)
	manager.Infeed().Dequeue()
	release(manager.Infeed(), in1)
	manager.Outfeed().Enqueue(out)
	manager.Reset()

	stats, err := manager.Journal().Stats()
	require.Nil(t, err)
	require.Equal(t, stats[xfeed.DirectionInfeed], journal.Stats{
		Enqueued: 2,
		Dequeued: 1,
		Released: 1,
		Dropped:  1,
	})
	require.Equal(t, stats[xfeed.DirectionOutfeed], journal.Stats{
		Enqueued: 1,
		Dropped:  1,
	})

	// Newest first: the outfeed drop is the last event recorded.
	events, err := manager.Journal().Events(100)
	require.Nil(t, err)
	require.Equal(t, len(events), 7)
	require.Equal(t, events[0].Direction, xfeed.DirectionOutfeed)
	require.Equal(t, events[0].Event, journal.EventDrop)
	require.Equal(t, events[0].Length, int32(32))
}

func TestJournalDisabledByDefault(t *testing.T) {
	manager, err := xfeed.New()
	require.Nil(t, err)
	deferClose(t, manager)

	require.Nil(t, manager.Journal())
}
