package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Action is one of the core actions spec section 6 says C10 consumes.
type Action int

const (
	ActionNone Action = iota
	ActionLeft
	ActionRight
	ActionRotateCW
	ActionRotateCCW
	ActionSoftDrop
	ActionHardDrop
	ActionHold
	ActionQuit
	ActionPeerLeft
	ActionPeerRight
)

// pieceStyle maps a cell color to a tcell display style. Matching
// ican2002-tetris and DenzelPenzel-tetris-golang, each piece gets a solid
// background block rather than a colored glyph, which reads better at
// normal terminal font sizes.
var pieceStyle = [9]tcell.Style{
	CellEmpty:   tcell.StyleDefault,
	CellI:       tcell.StyleDefault.Background(tcell.ColorTeal),
	CellO:       tcell.StyleDefault.Background(tcell.ColorYellow),
	CellT:       tcell.StyleDefault.Background(tcell.ColorPurple),
	CellS:       tcell.StyleDefault.Background(tcell.ColorGreen),
	CellZ:       tcell.StyleDefault.Background(tcell.ColorRed),
	CellJ:       tcell.StyleDefault.Background(tcell.ColorBlue),
	CellL:       tcell.StyleDefault.Background(tcell.ColorOrange),
	CellGarbage: tcell.StyleDefault.Background(tcell.ColorGray),
}

var ghostStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)

// TerminalView owns the tcell screen: rendering and non-blocking keyboard
// polling (spec section 1's "terminal renderer and keyboard device"
// collaborator, implemented concretely here rather than left abstract —
// see SPEC_FULL.md domain stack).
//
// squava's HumanPlayer reads whole lines from a blocking bufio.Reader
// (ui_cli.go); a tick-driven loop cannot block on stdin like that, so
// keyboard polling here is adapted to tcell's event channel instead, fed
// by a single background goroutine and drained non-blockingly each tick.
type TerminalView struct {
	screen tcell.Screen
	events chan tcell.Event
	keys   Keybindings
}

// NewTerminalView initializes the tcell screen and starts the event pump.
func NewTerminalView(keys Keybindings) (*TerminalView, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal not available: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal init failed: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()
	screen.Show()

	v := &TerminalView{
		screen: screen,
		events: make(chan tcell.Event, 16),
		keys:   keys,
	}
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			v.events <- ev
		}
	}()
	return v, nil
}

func (v *TerminalView) Close() {
	v.screen.Fini()
}

// PollAction drains one pending keyboard event, non-blocking, and maps it
// to a core action. ActionNone with ok=false means no input this tick.
func (v *TerminalView) PollAction() (Action, bool) {
	select {
	case ev := <-v.events:
		key, ok := ev.(*tcell.EventKey)
		if !ok {
			return ActionNone, false
		}
		return v.mapKey(key), true
	default:
		return ActionNone, false
	}
}

func (v *TerminalView) mapKey(key *tcell.EventKey) Action {
	if key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC {
		return ActionQuit
	}
	r := key.Rune()
	switch r {
	case v.keys.Left:
		return ActionLeft
	case v.keys.Right:
		return ActionRight
	case v.keys.RotateCW:
		return ActionRotateCW
	case v.keys.RotateCCW:
		return ActionRotateCCW
	case v.keys.SoftDrop:
		return ActionSoftDrop
	case v.keys.HardDrop:
		return ActionHardDrop
	case v.keys.Hold:
		return ActionHold
	case v.keys.Quit:
		return ActionQuit
	case v.keys.PeerLeft:
		return ActionPeerLeft
	case v.keys.PeerRight:
		return ActionPeerRight
	}
	switch key.Key() {
	case tcell.KeyLeft:
		return ActionLeft
	case tcell.KeyRight:
		return ActionRight
	case tcell.KeyUp:
		return ActionRotateCW
	case tcell.KeyDown:
		return ActionSoftDrop
	}
	return ActionNone
}

const (
	boardOriginX = 2
	boardOriginY = 1
	cellWidth    = 2
)

// Render draws one RenderSnapshot. It clips to terminal bounds rather than
// failing (spec section 7, "render bounds").
func (v *TerminalView) Render(snap RenderSnapshot) {
	w, h := v.screen.Size()
	v.screen.Clear()

	v.drawBoard(snap, w, h)
	v.drawPreview(snap, w, h)
	v.drawPeers(snap, w, h)
	v.drawMessage(snap, w, h)
	v.drawStatus(snap, w, h)

	v.screen.Show()
}

func (v *TerminalView) putCell(x, y int, w, h int, style tcell.Style) {
	cx0 := boardOriginX + x*cellWidth
	if cx0 < 0 || cx0+1 >= w || y < 0 || y >= h {
		return
	}
	v.screen.SetContent(cx0, y, ' ', nil, style)
	v.screen.SetContent(cx0+1, y, ' ', nil, style)
}

func (v *TerminalView) drawBoard(snap RenderSnapshot, w, h int) {
	for r := 0; r < Height; r++ {
		for c := 0; c < Width; c++ {
			cell := snap.Board.At(r, c)
			if cell == CellEmpty {
				continue
			}
			v.putCell(c, boardOriginY+r, w, h, pieceStyle[cell])
		}
	}

	shape := ShapeAt(snap.Active.Name, snap.Active.Rotation)
	for dr := 0; dr < shape.Size; dr++ {
		for dc := 0; dc < shape.Size; dc++ {
			if !shape.Filled(dr, dc) {
				continue
			}
			gy := snap.GhostY + dr
			if gy >= 0 {
				v.putCell(snap.Active.X+dc, boardOriginY+gy, w, h, ghostStyle)
			}
			ay := snap.Active.Y + dr
			if ay >= 0 {
				v.putCell(snap.Active.X+dc, boardOriginY+ay, w, h, pieceStyle[snap.Active.Name.Color()])
			}
		}
	}
}

func (v *TerminalView) drawText(x, y int, w, h int, text string, style tcell.Style) {
	for i, r := range text {
		cx := x + i
		if cx < 0 || cx >= w || y < 0 || y >= h {
			continue
		}
		v.screen.SetContent(cx, y, r, nil, style)
	}
}

func (v *TerminalView) drawPreview(snap RenderSnapshot, w, h int) {
	sideX := boardOriginX + Width*cellWidth + 4
	v.drawText(sideX, boardOriginY, w, h, "NEXT: "+snap.Next.String(), tcell.StyleDefault)
	holdLabel := "HOLD: -"
	if snap.Hold != nil {
		holdLabel = "HOLD: " + snap.Hold.String()
		if snap.HoldUsed {
			holdLabel += " (used)"
		}
	}
	v.drawText(sideX, boardOriginY+2, w, h, holdLabel, tcell.StyleDefault)

	if len(snap.GarbagePending) > 0 {
		v.drawText(sideX, boardOriginY+4, w, h, "INCOMING:", tcell.StyleDefault)
		for i, g := range snap.GarbagePending {
			style := tcell.StyleDefault
			if g.BufferPieces <= 1 {
				style = style.Foreground(tcell.ColorRed)
			}
			v.drawText(sideX, boardOriginY+5+i, w, h, fmt.Sprintf("%2d lines (%d)", g.Lines, g.BufferPieces), style)
		}
	}
}

func (v *TerminalView) drawPeers(snap RenderSnapshot, w, h int) {
	if len(snap.Peers) == 0 {
		return
	}
	peerX := boardOriginX + Width*cellWidth + 20
	idx := snap.SelectedPeer % len(snap.Peers)
	peer := snap.Peers[idx]

	label := peer.Name
	if peer.IsDead {
		label += " (dead)"
	}
	v.drawText(peerX, boardOriginY, w, h, fmt.Sprintf("< %s >", label), tcell.StyleDefault)

	if peer.Board == nil {
		return
	}
	for r := 0; r < Height; r++ {
		for c := 0; c < Width; c++ {
			cell := peer.Board.At(r, c)
			if cell == CellEmpty {
				continue
			}
			cx0 := peerX + c*cellWidth
			y := boardOriginY + 2 + r
			if cx0 < 0 || cx0+1 >= w || y >= h {
				continue
			}
			v.screen.SetContent(cx0, y, ' ', nil, pieceStyle[cell])
			v.screen.SetContent(cx0+1, y, ' ', nil, pieceStyle[cell])
		}
	}
}

func (v *TerminalView) drawMessage(snap RenderSnapshot, w, h int) {
	if snap.Message == "" {
		return
	}
	v.drawText(boardOriginX, boardOriginY+Height+1, w, h, snap.Message, tcell.StyleDefault.Foreground(tcell.ColorYellow))
}

func (v *TerminalView) drawStatus(snap RenderSnapshot, w, h int) {
	status := fmt.Sprintf("lines:%d  kos:%d  level:%d  sent:%d", snap.LinesCleared, snap.KOCount, snap.Level, snap.CumulativeGarbage)
	v.drawText(boardOriginX, boardOriginY+Height+2, w, h, status, tcell.StyleDefault)
	if snap.GameOver {
		v.drawText(boardOriginX, boardOriginY+Height+3, w, h, "GAME OVER", tcell.StyleDefault.Foreground(tcell.ColorRed))
	}
}
