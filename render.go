package main

import "time"

// messageLifetime is how long a transient spin/attack message stays on
// screen before the render model drops it (spec section 4.10 step 3).
const messageLifetime = 1500 * time.Millisecond

// PeerView is one opponent's drawable state, decoded via the codec.
type PeerView struct {
	Name       string
	Board      *Board
	PieceName  PieceName
	Rotation   int
	X, Y       int
	IsDead     bool
	PendingGarbage int
}

// RenderSnapshot is the pure, idempotent drawable model C11 hands to the
// renderer each tick (spec section 4.11): "the renderer must be a pure
// function of its input snapshot."
type RenderSnapshot struct {
	Board       *Board
	GhostY      int
	Active      PieceState
	Next        PieceName
	Hold        *PieceName
	HoldUsed    bool

	Peers       []PeerView
	SelectedPeer int

	GarbagePending []GarbageEntry
	Message        string

	LinesCleared int
	KOCount      int
	Level        int
	CumulativeGarbage uint64

	GameOver bool
}

// message is a transient line with an expiry, queued by the loop whenever
// a spin/clear/attack/KO event happens.
type message struct {
	text    string
	expires time.Time
}

// messageBoard holds the single most recent expiring message feeding
// RenderSnapshot.Message; each Post replaces the previous one. Kept as its own tiny type (rather than folded
// into GameSession) because it is pure bookkeeping with no board/piece
// coupling, mirroring how squava keeps PlayerInfo a standalone value type.
type messageBoard struct {
	current message
}

func (m *messageBoard) Post(text string, now time.Time) {
	m.current = message{text: text, expires: now.Add(messageLifetime)}
}

func (m *messageBoard) Current(now time.Time) string {
	if m.current.text == "" || now.After(m.current.expires) {
		return ""
	}
	return m.current.text
}

// BuildPeerViews converts cached peer records and the garbage queue's
// sender-keyed pending totals into the renderer's PeerView slice, ordered
// by name for a stable cycling order.
func BuildPeerViews(records map[string]PeerRecord, pendingBySender map[string]int) []PeerView {
	views := make([]PeerView, 0, len(records))
	for name, rec := range records {
		views = append(views, PeerView{
			Name:           name,
			Board:          rec.Decoded.Board,
			PieceName:      rec.Decoded.Name,
			Rotation:       rec.Decoded.Rotation,
			X:              rec.Decoded.X,
			Y:              rec.Decoded.Y,
			IsDead:         rec.IsDead,
			PendingGarbage: pendingBySender[name],
		})
	}
	// Stable, deterministic order for left/right cycling regardless of map
	// iteration order.
	for i := 1; i < len(views); i++ {
		for j := i; j > 0 && views[j].Name < views[j-1].Name; j-- {
			views[j], views[j-1] = views[j-1], views[j]
		}
	}
	return views
}

// pendingBySender sums a garbage queue's entries by sender, for the
// per-peer "garbage you're about to receive from them" indicator.
func pendingBySender(entries []GarbageEntry) map[string]int {
	m := make(map[string]int, len(entries))
	for _, e := range entries {
		m[e.Sender] += e.Lines
	}
	return m
}
