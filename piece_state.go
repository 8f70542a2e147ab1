package main

import "time"

// Lock-delay and garbage-buffer tuning (spec section 6).
const (
	LockDelay        = 500 * time.Millisecond
	LockDelayResets  = 15
	GarbageBufferPieces = 3
)

// RotationInfo records what the last successful rotation (if any) did, so
// the spin classifier (spec section 4.5) can tell a rotation landing from
// a translation landing.
type RotationInfo struct {
	KickIndex   int
	Direction   Direction
	WasRotation bool
}

// LockState tracks the resting grace period (spec section 3).
type LockState struct {
	DelayStart *time.Time
	ResetsUsed int
}

// PieceState is the active piece: name, position, rotation, the hold slot,
// and the bookkeeping the classifier and lock-delay logic read.
//
// squava's PlayerInfo/Move are small value structs driven entirely through
// methods with no hidden mutable globals; PieceState follows the same
// shape, just with more fields, since a falling piece carries strictly
// more state than a placed stone.
type PieceState struct {
	Name     PieceName
	Rotation int
	X, Y     int

	Hold     *PieceName
	HoldUsed bool

	Lock LockState
	Last RotationInfo

	// GameOver is set by Spawn when the new piece immediately collides.
	GameOver bool
}

func spawnX(shape Shape) int {
	return (Width - shape.Size) / 2
}

// Spawn places a fresh piece of name at the standard spawn position,
// clears hold-used and lock state, and checks for top-out (spec section
// 4.4).
func (p *PieceState) Spawn(board *Board, name PieceName) {
	p.Name = name
	p.Rotation = 0
	shape := ShapeAt(name, 0)
	p.X = spawnX(shape)
	p.Y = -1
	p.HoldUsed = false
	p.Lock = LockState{}
	p.Last = RotationInfo{}
	p.GameOver = board.Collides(shape, p.X, p.Y+1)
}

func (p *PieceState) shape() Shape {
	return ShapeAt(p.Name, p.Rotation)
}

// Resting reports whether the piece cannot fall one more row.
func (p *PieceState) Resting(board *Board) bool {
	return board.Collides(p.shape(), p.X, p.Y+1)
}

// refreshLockDelay is called after any successful move/rotate while
// resting: it restarts the grace period and, up to LockDelayResets times,
// counts the reset. Past the bound, moves still succeed but no longer
// extend the timer (spec section 4.4).
func (p *PieceState) refreshLockDelay(now time.Time, board *Board) {
	if !p.Resting(board) {
		p.Lock.DelayStart = nil
		return
	}
	if p.Lock.ResetsUsed >= LockDelayResets {
		return
	}
	p.Lock.ResetsUsed++
	t := now
	p.Lock.DelayStart = &t
}

// TryMove attempts a horizontal shift of dx columns.
func (p *PieceState) TryMove(board *Board, dx int, now time.Time) bool {
	if board.Collides(p.shape(), p.X+dx, p.Y) {
		return false
	}
	p.X += dx
	p.Last.WasRotation = false
	p.refreshLockDelay(now, board)
	return true
}

// TryRotate attempts to rotate the piece CW, CCW, or 180°, trying each
// guideline wall-kick offset in order until one fits (spec section 4.4).
// O is rotation-invariant and always reports success without moving.
func (p *PieceState) TryRotate(board *Board, dir Direction, now time.Time) bool {
	if p.Name == PieceO {
		p.Last = RotationInfo{KickIndex: 0, Direction: dir, WasRotation: true}
		return true
	}

	from := p.Rotation
	var to int
	var rotated Shape
	is180 := dir == Rotate180
	switch dir {
	case RotateCW:
		to = (from + 1) & 3
		rotated = rotateCW(p.shape())
	case RotateCCW:
		to = (from + 3) & 3
		rotated = rotateCCW(p.shape())
	case Rotate180:
		to = (from + 2) & 3
		rotated = rotate180(p.shape())
	default:
		return false
	}

	kicks := kicksFor(p.Name, from, to, is180)
	for i, k := range kicks {
		nx, ny := p.X+k.dx, p.Y+k.dy
		if !board.Collides(rotated, nx, ny) {
			p.Rotation = to
			p.X, p.Y = nx, ny
			p.Last = RotationInfo{KickIndex: i, Direction: dir, WasRotation: true}
			p.refreshLockDelay(now, board)
			return true
		}
	}
	return false
}

// SoftDrop advances the piece one row if possible. It does not clear
// Last.WasRotation: a rotation followed by a soft-drop-to-rest is still a
// spin candidate as long as no translation intervenes (spec section 4.4).
func (p *PieceState) SoftDrop(board *Board) bool {
	if board.Collides(p.shape(), p.X, p.Y+1) {
		return false
	}
	p.Y++
	p.Lock.DelayStart = nil
	return true
}

// HardDrop advances the piece to the lowest non-colliding row and returns
// the number of rows it fell, bypassing lock delay entirely.
func (p *PieceState) HardDrop(board *Board) int {
	rows := 0
	for !board.Collides(p.shape(), p.X, p.Y+1) {
		p.Y++
		rows++
	}
	return rows
}

// TryHold swaps the active piece with the hold slot, at most once per
// spawn (spec section 4.4). next supplies a fresh piece from the bag when
// the hold slot was empty.
func (p *PieceState) TryHold(board *Board, next func() PieceName) bool {
	if p.HoldUsed {
		return false
	}
	current := p.Name
	if p.Hold == nil {
		fresh := next()
		p.Spawn(board, fresh)
	} else {
		h := *p.Hold
		p.Spawn(board, h)
	}
	p.Hold = &current
	p.HoldUsed = true
	return true
}

// Ghost returns the row the piece would occupy after a hard drop, without
// mutating state — a pure function of (board, shape, x, y) per spec
// section 9.
func (p *PieceState) Ghost(board *Board) int {
	y := p.Y
	for !board.Collides(p.shape(), p.X, y+1) {
		y++
	}
	return y
}

// ShouldLock reports whether, at time now, the piece's lock-delay grace
// period has expired while resting (spec section 4.4). It does not itself
// start the timer — that happens the first time the caller observes
// Resting() true for a given tick, via StartLockTimer.
func (p *PieceState) ShouldLock(now time.Time) bool {
	if p.Lock.DelayStart == nil {
		return false
	}
	return now.Sub(*p.Lock.DelayStart) >= LockDelay
}

// StartLockTimer begins the lock-delay grace period if the piece is
// resting and no timer is running yet; it is a no-op otherwise. Call once
// per loop iteration after gravity/input has been applied.
func (p *PieceState) StartLockTimer(board *Board, now time.Time) {
	if !p.Resting(board) {
		p.Lock.DelayStart = nil
		return
	}
	if p.Lock.DelayStart == nil {
		t := now
		p.Lock.DelayStart = &t
	}
}
