package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnTopOutWhenSpawnCellsOccupied(t *testing.T) {
	board := NewBoard()
	shape := ShapeAt(PieceT, 0)
	x := spawnX(shape)
	// Occupy the row the piece would fall into on its very first check.
	for c := 0; c < Width; c++ {
		board.set(0, c, CellGarbage)
		board.set(1, c, CellGarbage)
	}

	var p PieceState
	p.Spawn(board, PieceT)
	assert.Truef(t, p.GameOver, "spawning into an occupied row must report game over (x=%d)", x)
}

func TestHardDropStopsAtFloor(t *testing.T) {
	board := NewBoard()
	var p PieceState
	p.Spawn(board, PieceO)
	rows := p.HardDrop(board)
	assert.Greater(t, rows, 0)
	assert.True(t, p.Resting(board))
}

// TestLockDelayResetBudgetIsBounded is spec section 8 property 5: after
// LockDelayResets successful resets while resting, further moves succeed
// but no longer postpone the lock.
func TestLockDelayResetBudgetIsBounded(t *testing.T) {
	board := NewBoard()
	var p PieceState
	p.Spawn(board, PieceO)
	p.HardDrop(board)
	require.True(t, p.Resting(board))

	now := time.Now()
	p.StartLockTimer(board, now)
	require.NotNil(t, p.Lock.DelayStart)

	for i := 0; i < LockDelayResets+5; i++ {
		now = now.Add(10 * time.Millisecond)
		// Wiggle right then left so the piece stays in bounds and resting.
		dx := 1
		if p.X >= Width-2 {
			dx = -1
		}
		p.TryMove(board, dx, now)
		p.TryMove(board, -dx, now)
	}

	assert.LessOrEqual(t, p.Lock.ResetsUsed, LockDelayResets)

	// Once the budget is exhausted, the timer should no longer be pushed
	// forward by further resets, so it eventually expires even under
	// continued wiggling.
	deadline := now.Add(LockDelay + time.Millisecond)
	assert.True(t, p.ShouldLock(deadline), "lock delay must still expire once the reset budget is spent")
}

func TestTryHoldOncePerSpawn(t *testing.T) {
	board := NewBoard()
	var p PieceState
	p.Spawn(board, PieceT)
	next := func() PieceName { return PieceI }

	ok := p.TryHold(board, next)
	assert.True(t, ok)
	assert.True(t, p.HoldUsed)
	assert.Equal(t, PieceT, *p.Hold)
	assert.Equal(t, PieceI, p.Name)

	ok = p.TryHold(board, next)
	assert.False(t, ok, "a second hold before the next spawn must be rejected")
}

func TestGhostMatchesHardDropDestination(t *testing.T) {
	board := NewBoard()
	var p PieceState
	p.Spawn(board, PieceL)
	ghostY := p.Ghost(board)
	startY := p.Y
	p.HardDrop(board)
	assert.Equal(t, ghostY, p.Y, "ghost projection must match where a hard drop actually lands")
	assert.GreaterOrEqual(t, p.Y, startY)
}
