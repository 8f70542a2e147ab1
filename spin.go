package main

// ClearKind classifies what kind of lock produced a line clear (or none),
// per spec section 4.5.
type ClearKind int

const (
	ClearNone ClearKind = iota
	ClearPlain
	ClearTSpin
	ClearAllSpin
)

// LockResult is what the classifier hands to the attack calculator after
// a lock, clear, and back-to-back update.
type LockResult struct {
	Cleared       int
	Kind          ClearKind
	Mini          bool
	PerfectClear  bool
	Difficult     bool
	B2BActive     bool // pre-update flag value, used by the attack calculator
}

// corners given the T piece's 3x3 bounding box top-left at (x, y): the
// center is (x+1, y+1) per spec section 4.5.
type cornerSet struct {
	topLeft, topRight, bottomLeft, bottomRight bool
}

func filledOrWall(board *Board, row, col int) bool {
	if row < 0 {
		return false
	}
	if col < 0 || col >= Width || row >= Height {
		return true
	}
	return board.At(row, col) != CellEmpty
}

func tCorners(board *Board, x, y int) cornerSet {
	cx, cy := x+1, y+1
	return cornerSet{
		topLeft:     filledOrWall(board, cy-1, cx-1),
		topRight:    filledOrWall(board, cy-1, cx+1),
		bottomLeft:  filledOrWall(board, cy+1, cx-1),
		bottomRight: filledOrWall(board, cy+1, cx+1),
	}
}

func (c cornerSet) count() int {
	n := 0
	for _, v := range []bool{c.topLeft, c.topRight, c.bottomLeft, c.bottomRight} {
		if v {
			n++
		}
	}
	return n
}

// frontFilled reports whether both "front" corners for the given rotation
// are filled, per spec section 4.5's per-rotation mapping.
func frontFilled(c cornerSet, rotation int) bool {
	switch rotation {
	case 0:
		return c.topLeft && c.topRight
	case 1:
		return c.topRight && c.bottomRight
	case 2:
		return c.bottomLeft && c.bottomRight
	case 3:
		return c.topLeft && c.bottomLeft
	}
	return false
}

// Classify inspects the just-locked piece (before row removal) and
// determines its spin classification. cleared is the full-row count of the
// lock-time board (PendingClearRows, taken before ClearFullRows).
// perfectClear is only known after ClearFullRows / IsEmpty, so lockPiece
// passes false here and sets PerfectClear on the result afterwards.
func Classify(board *Board, p *PieceState, cleared int, perfectClear bool, b2b bool) LockResult {
	res := LockResult{Cleared: cleared, PerfectClear: perfectClear, B2BActive: b2b}

	if cleared == 0 {
		res.Kind = ClearNone
		return res
	}

	if p.Name == PieceT {
		corners := tCorners(board, p.X, p.Y)
		if !p.Last.WasRotation || corners.count() < 3 {
			res.Kind = ClearPlain
		} else {
			full := frontFilled(corners, p.Rotation)
			mini := !full
			if mini && p.Last.KickIndex == longKickIndex {
				mini = false
			}
			res.Kind = ClearTSpin
			res.Mini = mini
		}
	} else if p.Name != PieceO && p.Last.WasRotation && p.Last.KickIndex > 0 {
		res.Kind = ClearAllSpin
		res.Mini = true
	} else {
		res.Kind = ClearPlain
	}

	res.Difficult = cleared == 4 || (res.Kind != ClearPlain && cleared >= 1)
	return res
}

// UpdateB2B applies the back-to-back transition rule from spec section
// 4.5: a clearing lock sets the flag to whether it was difficult; a
// non-clearing lock leaves it untouched.
func UpdateB2B(current bool, res LockResult) bool {
	if res.Cleared == 0 {
		return current
	}
	return res.Difficult
}
