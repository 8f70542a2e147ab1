package main

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// LeaderboardEntry is one row of the external highscore collaborator
// named in spec section 4.10 step 9 ("not specified in detail here").
type LeaderboardEntry struct {
	Player string
	HighScore
}

// GameSession composes C2-C9 into the single-player engine plus its peer
// coordination, the way squava's SquavaGame composes Board + Player into
// a turn loop (squava.go's SquavaGame.Run). Unlike squava's turn-based
// loop, this one is tick-driven: gravity, lock delay, and peer polling all
// run off wall-clock intervals rather than waiting for a blocking read.
type GameSession struct {
	cfg *Config
	log zerolog.Logger

	board      *Board
	bag        *Bag
	garbageRng *rand.Rand

	active PieceState
	garbage GarbageQueue
	b2b     bool

	cumulativeGarbage uint64
	koCount           int
	totalLinesCleared int
	dead              bool
	quit              bool

	msgs messageBoard

	peer         *PeerCoordinator
	selectedPeer int

	lastGravity     time.Time
	lastRead        time.Time
	lastLeaderboard time.Time

	leaderboard []LeaderboardEntry
}

// NewGameSession wires up a fresh session: board, bag, first spawn, and
// the peer coordinator rooted at cfg.SharedDir.
func NewGameSession(cfg *Config, log zerolog.Logger, seed int64) (*GameSession, error) {
	peer, err := NewPeerCoordinator(cfg.SharedDir, cfg.PlayerID, log)
	if err != nil {
		return nil, err
	}

	g := &GameSession{
		cfg:        cfg,
		log:        log,
		board:      NewBoard(),
		bag:        NewBag(seed),
		garbageRng: rand.New(rand.NewSource(defaultSeed())),
		peer:       peer,
	}
	g.active.Spawn(g.board, g.bag.Next())
	return g, nil
}

func (g *GameSession) Close() {
	g.peer.Close()
}

// gravityInterval implements spec section 4.10 step 2.
func (g *GameSession) gravityInterval() time.Duration {
	speedups := g.totalLinesCleared / g.cfg.LinesPerSpeed
	t := g.cfg.BaseTick - time.Duration(speedups)*g.cfg.SpeedupAmount
	if t < g.cfg.MinTick {
		t = g.cfg.MinTick
	}
	return t
}

// Level is a cosmetic derivative of totalLinesCleared for the render
// model's status line.
func (g *GameSession) Level() int {
	return g.totalLinesCleared/g.cfg.LinesPerSpeed + 1
}

// HandleAction dispatches one input action (spec section 4.10 step 5).
func (g *GameSession) HandleAction(action Action, now time.Time) {
	if g.dead {
		return
	}
	switch action {
	case ActionLeft:
		g.active.TryMove(g.board, -1, now)
	case ActionRight:
		g.active.TryMove(g.board, 1, now)
	case ActionRotateCW:
		g.active.TryRotate(g.board, RotateCW, now)
	case ActionRotateCCW:
		g.active.TryRotate(g.board, RotateCCW, now)
	case ActionSoftDrop:
		g.active.SoftDrop(g.board)
	case ActionHardDrop:
		g.active.HardDrop(g.board)
		g.lockPiece(now)
	case ActionHold:
		g.active.TryHold(g.board, g.bag.Next)
	case ActionPeerLeft:
		g.cyclePeer(-1)
	case ActionPeerRight:
		g.cyclePeer(1)
	case ActionQuit:
		g.quit = true
	}
}

// cyclePeer moves the selected-peer cursor by delta, wrapping into
// [0, n) rather than letting it go negative — Go's % keeps the
// dividend's sign, so a naive g.selectedPeer % n can return a negative
// index straight into a slice read (spec section 7, "render bounds:
// clip, never crash"). A no-op when no peers are connected.
func (g *GameSession) cyclePeer(delta int) {
	n := len(g.peer.Peers())
	if n == 0 {
		g.selectedPeer = 0
		return
	}
	g.selectedPeer = ((g.selectedPeer+delta)%n + n) % n
}

// GravityStep advances the piece one row under natural gravity, called
// once per elapsed gravity interval (spec section 4.10 step 2).
func (g *GameSession) GravityStep(now time.Time) {
	if g.dead {
		return
	}
	g.active.SoftDrop(g.board)
}

// CheckLock starts or evaluates the lock-delay timer every tick,
// independent of the gravity interval, and locks the piece once the grace
// period expires (spec section 4.4, section 4.10 step 6).
func (g *GameSession) CheckLock(now time.Time) {
	if g.dead {
		return
	}
	g.active.StartLockTimer(g.board, now)
	if g.active.ShouldLock(now) {
		g.lockPiece(now)
	}
}

// lockPiece runs the full classify/lock/clear/attack/garbage/publish/spawn
// sequence of spec section 4.10 step 7.
func (g *GameSession) lockPiece(now time.Time) {
	color := g.active.Name.Color()
	g.board.Lock(ShapeAt(g.active.Name, g.active.Rotation), g.active.X, g.active.Y, color)

	// Classify before mutating the board: the T-spin corner check reads
	// cells around the just-locked piece, which ClearFullRows would shift.
	pending := g.board.PendingClearRows()
	res := Classify(g.board, &g.active, pending, false, g.b2b)
	cleared := g.board.ClearFullRows()
	res.PerfectClear = cleared > 0 && g.board.IsEmpty()
	g.b2b = UpdateB2B(g.b2b, res)

	if cleared > 0 {
		g.garbage.Cancel(cleared)
	}
	drained := g.garbage.OnPieceLocked()
	if drained > 0 {
		g.board.InjectGarbage(drained, g.garbageRng)
	}

	outgoing := AttackOutgoing(res, g.koCount)
	forcePublish := false
	if outgoing > 0 {
		g.cumulativeGarbage += uint64(outgoing)
		g.msgs.Post(attackMessage(res, outgoing), now)
		forcePublish = true
	}

	g.totalLinesCleared += cleared

	next := g.bag.Next()
	g.active.Spawn(g.board, next)
	if g.active.GameOver {
		g.dead = true
		forcePublish = true
		g.log.Info().Str("player", g.cfg.PlayerID).Msg("top-out, game over")
	}

	if forcePublish {
		g.publish(now)
	}
}

func attackMessage(res LockResult, outgoing int) string {
	switch {
	case res.PerfectClear:
		return "PERFECT CLEAR!"
	case res.Kind == ClearTSpin && res.Mini:
		return "T-SPIN MINI"
	case res.Kind == ClearTSpin:
		return "T-SPIN"
	case res.Kind == ClearAllSpin:
		return "SPIN CLEAR"
	case res.Cleared == 4:
		return "TETRIS"
	default:
		return "LINE CLEAR"
	}
}

// publish writes the local state file, unconditionally stamping the
// current cumulative-garbage counter and dead flag (spec section 4.9).
func (g *GameSession) publish(now time.Time) {
	if err := g.peer.Publish(g.board, g.active.Name, g.active.Rotation, g.active.X, g.active.Y, g.dead, g.cumulativeGarbage, now); err != nil {
		g.log.Error().Err(err).Msg("publish failed")
	}
}

// MaybePublish publishes on the regular interval (spec section 4.10 step
// 4), independent of the forced publishes lockPiece triggers.
func (g *GameSession) MaybePublish(now time.Time) {
	if g.peer.ShouldPublish(now) {
		g.publish(now)
	}
}

// ScanPeers runs the read-interval side of the loop (spec section 4.10
// step 8): scan, derive attacks, derive KOs.
func (g *GameSession) ScanPeers(now time.Time) {
	if err := g.peer.Scan(now); err != nil {
		return
	}
	g.peer.DeriveAttacks(&g.garbage)
	for _, m := range g.garbage.Messages {
		g.msgs.Post(m, now)
	}
	g.garbage.Messages = g.garbage.Messages[:0]
	for _, ko := range g.peer.DeriveKOs() {
		g.koCount++
		g.msgs.Post(ko.Player+" has been knocked out!", now)
	}
}

// RefreshLeaderboard re-reads highscore_*.txt files (spec section 4.10
// step 9's external collaborator), kept minimal since the spec leaves its
// exact presentation unspecified.
func (g *GameSession) RefreshLeaderboard() {
	entries, err := listHighScores(g.cfg.SharedDir)
	if err != nil {
		return
	}
	g.leaderboard = entries
}

// Snapshot builds the pure RenderSnapshot for this tick (spec section
// 4.11).
func (g *GameSession) Snapshot(now time.Time) RenderSnapshot {
	views := BuildPeerViews(g.peer.Peers(), pendingBySender(g.garbage.Pending()))
	var hold *PieceName
	if g.active.Hold != nil {
		hold = g.active.Hold
	}
	return RenderSnapshot{
		Board:             g.board,
		GhostY:            g.active.Ghost(g.board),
		Active:            g.active,
		Next:              g.bag.Peek(),
		Hold:              hold,
		HoldUsed:          g.active.HoldUsed,
		Peers:             views,
		SelectedPeer:      g.selectedPeer,
		GarbagePending:    g.garbage.Pending(),
		Message:           g.msgs.Current(now),
		LinesCleared:      g.totalLinesCleared,
		KOCount:           g.koCount,
		Level:             g.Level(),
		CumulativeGarbage: g.cumulativeGarbage,
		GameOver:          g.dead,
	}
}

// ShouldExit reports whether the loop should stop: the player quit or was
// topped out. The final publish and high-score write happen afterwards, in
// Finish.
func (g *GameSession) ShouldExit() bool {
	return g.quit || g.dead
}

// Finish publishes the final dead state, persists the high score, and
// removes the local state file — spec section 4.10's game-over path and
// section 7's "Game over" error-taxonomy row.
func (g *GameSession) Finish(now time.Time) {
	g.dead = true
	g.publish(now)
	_ = SaveHighScoreIfBetter(g.cfg.SharedDir, g.cfg.PlayerID, HighScore{
		LinesSent: int(g.cumulativeGarbage),
		KOs:       g.koCount,
	})
	g.peer.Cleanup(now)
}

// leaderboardInterval is how often the external highscore collaborator is
// re-read (spec section 4.10 step 9).
const leaderboardInterval = 2 * time.Second

// loopSleep bounds the wait between ticks (spec section 4.10 step 10:
// "sleep roughly 10ms"). Run hands this to the peer coordinator's
// WaitForChange rather than sleeping outright, so a fsnotify event on the
// shared directory can wake the loop early — the opportunistic fast path
// named in SPEC_FULL.md's domain stack section, with this duration as the
// polling fallback.
const loopSleep = 10 * time.Millisecond

// Run drives the tick loop end to end, the tick-based analogue of
// squava.go's SquavaGame.Run turn loop: poll input, advance gravity,
// publish/scan peers on their own cadences, refresh the leaderboard, and
// render, until the player quits or is topped out.
func (g *GameSession) Run(view *TerminalView) {
	now := time.Now()
	g.lastGravity = now
	g.lastRead = now
	g.lastLeaderboard = now
	g.RefreshLeaderboard()

	for !g.ShouldExit() {
		now = time.Now()

		for {
			action, ok := view.PollAction()
			if !ok {
				break
			}
			g.HandleAction(action, now)
		}

		if now.Sub(g.lastGravity) >= g.gravityInterval() {
			g.GravityStep(now)
			g.lastGravity = now
		}
		g.CheckLock(now)

		g.MaybePublish(now)

		if now.Sub(g.lastRead) >= ReadInterval {
			g.ScanPeers(now)
			g.lastRead = now
		}

		if now.Sub(g.lastLeaderboard) >= leaderboardInterval {
			g.RefreshLeaderboard()
			g.lastLeaderboard = now
		}

		view.Render(g.Snapshot(now))
		g.peer.WaitForChange(loopSleep)
	}

	g.Finish(time.Now())
	view.Render(g.Snapshot(time.Now()))
	time.Sleep(500 * time.Millisecond)
}
