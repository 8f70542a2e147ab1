package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *GameSession {
	t.Helper()
	cfg := &Config{
		SharedDir:     t.TempDir(),
		PlayerID:      "tester",
		BaseTick:      600 * time.Millisecond,
		MinTick:       10 * time.Millisecond,
		LinesPerSpeed: 5,
		SpeedupAmount: 50 * time.Millisecond,
		Keybindings:   defaultKeybindings(),
	}
	g, err := NewGameSession(cfg, consoleLogger(), 1)
	require.NoError(t, err)
	t.Cleanup(g.Close)
	return g
}

// fillRowExceptColumn fills row r with garbage in every column but skip.
func fillRowExceptColumn(board *Board, r, skip int) {
	for c := 0; c < Width; c++ {
		if c != skip {
			board.set(r, c, CellGarbage)
		}
	}
}

// TestScenarioTetrisClear is spec section 8 scenario S1: a vertical I
// piece dropped into a 4-row, single-column well clears all 4 rows as a
// plain Tetris and sends 4 garbage lines.
func TestScenarioTetrisClear(t *testing.T) {
	g := newTestSession(t)
	// Rotation 1 of the I piece fills column (X+2) of its 4x4 box across
	// all four rows — see pieces.go's rotateCW transform.
	const col = 2
	for r := Height - 4; r < Height; r++ {
		fillRowExceptColumn(g.board, r, col)
	}
	// One cell above the well keeps the board non-empty after the clear,
	// so the lock is not also a perfect clear.
	g.board.set(Height-5, 0, CellGarbage)
	g.active.Name = PieceI
	g.active.Rotation = 1 // vertical orientation
	g.active.X = col - 2
	g.active.Y = Height - 4
	g.active.Last = RotationInfo{}

	now := time.Now()
	g.lockPiece(now)

	assert.Equal(t, 4, g.totalLinesCleared)
	assert.Equal(t, uint64(4), g.cumulativeGarbage)
	assert.True(t, g.b2b, "a Tetris is a difficult clear and should open a back-to-back streak")
}

// TestScenarioBackToBackTetris is spec section 8 scenario S2: a second
// consecutive Tetris adds the back-to-back bonus.
func TestScenarioBackToBackTetris(t *testing.T) {
	g := newTestSession(t)
	g.b2b = true // pretend a prior Tetris already opened the streak

	const col = 5
	for r := Height - 4; r < Height; r++ {
		fillRowExceptColumn(g.board, r, col)
	}
	// Keep the board non-empty after the clear so it is not a perfect clear.
	g.board.set(Height-5, 0, CellGarbage)
	g.active.Name = PieceI
	g.active.Rotation = 1
	g.active.X = col - 2
	g.active.Y = Height - 4
	g.active.Last = RotationInfo{}

	now := time.Now()
	g.lockPiece(now)

	assert.Equal(t, uint64(5), g.cumulativeGarbage, "back-to-back Tetris sends base 4 plus 1")
	assert.True(t, g.b2b)
}

// TestScenarioPerfectClear is spec section 8 scenario S5: clearing the
// last occupied rows down to an empty board sends the flat 10-line
// perfect-clear bonus regardless of how many lines were cleared.
func TestScenarioPerfectClear(t *testing.T) {
	g := newTestSession(t)
	// Both rows the O piece will cover are pre-filled everywhere except
	// the two columns it fills, and nowhere else on the board is occupied,
	// so completing both rows empties the board entirely.
	fillRowExceptColumn(g.board, Height-1, -1)
	fillRowExceptColumn(g.board, Height-2, -1)
	g.board.set(Height-1, 1, CellEmpty)
	g.board.set(Height-1, 2, CellEmpty)
	g.board.set(Height-2, 1, CellEmpty)
	g.board.set(Height-2, 2, CellEmpty)

	g.active.Name = PieceO
	g.active.Rotation = 0
	g.active.X = 1
	g.active.Y = Height - 2
	g.active.Last = RotationInfo{}

	now := time.Now()
	g.lockPiece(now)

	assert.Equal(t, uint64(10), g.cumulativeGarbage)
	assert.True(t, g.board.IsEmpty())
}

func TestHandleActionIgnoredAfterDeath(t *testing.T) {
	g := newTestSession(t)
	g.dead = true
	before := g.active
	g.HandleAction(ActionLeft, time.Now())
	assert.Equal(t, before, g.active, "no action should mutate the active piece once dead")
}

func TestGravityIntervalSpeedsUpWithLines(t *testing.T) {
	g := newTestSession(t)
	base := g.gravityInterval()
	g.totalLinesCleared = g.cfg.LinesPerSpeed * 3
	faster := g.gravityInterval()
	assert.Less(t, faster, base)
}

func TestGravityIntervalNeverBelowMinTick(t *testing.T) {
	g := newTestSession(t)
	g.totalLinesCleared = g.cfg.LinesPerSpeed * 1000
	assert.Equal(t, g.cfg.MinTick, g.gravityInterval())
}
