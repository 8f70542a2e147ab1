package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGarbageExactlyOnceDelivery is spec section 8 property 8: a queued
// entry is injected into the board exactly once, exactly after its
// buffer has been decremented to zero by piece placements.
func TestGarbageExactlyOnceDelivery(t *testing.T) {
	var q GarbageQueue
	q.Enqueue(2, "alice")
	require.Equal(t, GarbageBufferPieces, q.Pending()[0].BufferPieces)

	total := 0
	for i := 0; i < GarbageBufferPieces-1; i++ {
		total += q.OnPieceLocked()
	}
	assert.Equal(t, 0, total, "nothing should drain before the buffer reaches zero")
	assert.Len(t, q.Pending(), 1)

	total += q.OnPieceLocked()
	assert.Equal(t, 2, total, "the entry must drain exactly once, for its full line count")
	assert.Empty(t, q.Pending())

	// Further locks must not re-drain the same (now gone) entry.
	assert.Equal(t, 0, q.OnPieceLocked())
}

// TestGarbageCancelFrontSubtraction is spec section 8 property 9: clearing
// lines cancels from the front of the queue, partially consuming an entry
// when the clear count falls short of it.
func TestGarbageCancelFrontSubtraction(t *testing.T) {
	var q GarbageQueue
	q.Enqueue(3, "alice")
	q.Enqueue(2, "bob")

	q.Cancel(4)

	require.Len(t, q.Pending(), 1)
	assert.Equal(t, 1, q.Pending()[0].Lines, "4 cancels 3 from alice then 1 from bob, leaving bob at 1")
	assert.Equal(t, "bob", q.Pending()[0].Sender)
}

func TestGarbageCancelExtendsSurvivorBuffer(t *testing.T) {
	var q GarbageQueue
	q.Enqueue(5, "alice")
	before := q.Pending()[0].BufferPieces

	q.Cancel(2)

	require.Len(t, q.Pending(), 1)
	assert.Equal(t, before+2, q.Pending()[0].BufferPieces, "surviving entries get their buffer extended by the cancelled amount")
	assert.Equal(t, 3, q.Pending()[0].Lines)
}

func TestGarbageCancelZeroIsNoOp(t *testing.T) {
	var q GarbageQueue
	q.Enqueue(1, "alice")
	q.Cancel(0)
	assert.Len(t, q.Pending(), 1)
}

func TestGarbageTotalLinesSumsEntries(t *testing.T) {
	var q GarbageQueue
	q.Enqueue(2, "a")
	q.Enqueue(3, "b")
	assert.Equal(t, 5, q.TotalLines())
}
