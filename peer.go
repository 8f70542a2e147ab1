package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Coordination timing constants (spec section 6 / section 4.9).
const (
	StatePublishInterval     = 100 * time.Millisecond
	ReadInterval             = 50 * time.Millisecond
	StateStaleTimeoutAlive   = 2 * time.Second
	StateCleanupTimeoutAlive = 5 * time.Second
	DeadStateCleanupTimeout  = 30 * time.Second
)

// PeerRecord is a decoded peer state-file (spec section 3).
type PeerRecord struct {
	Player     string
	Decoded    DecodedState
	IsDead     bool
	Cumulative uint64
	Timestamp  time.Time
}

// PeerCoordinator owns the shared-directory protocol described in spec
// section 4.9: publishing the local state file, scanning peers, deriving
// attacks from their cumulative-garbage counters, and detecting KOs.
//
// squava has no networked or cross-process concern at all (it is a single
// process reading stdin); this component has no teacher code to adapt, so
// it is grounded on the spec's own prose plus bluebear94-odnocam's use of
// fsnotify for a directory watch, per DESIGN.md.
type PeerCoordinator struct {
	Dir  string
	Self string

	cache        map[string]PeerRecord
	lastReceived map[string]uint64
	knownDead    map[string]bool

	watcher *fsnotify.Watcher
	log     zerolog.Logger

	lastPublish time.Time
}

// NewPeerCoordinator creates a coordinator rooted at dir for player self.
// It creates dir if missing and fails fast (spec section 7, "I/O
// permanent") if the directory cannot be created or is not writable.
func NewPeerCoordinator(dir, self string, log zerolog.Logger) (*PeerCoordinator, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("shared directory %q not creatable: %w", dir, err)
	}
	probe := filepath.Join(dir, fmt.Sprintf(".probe_%s", self))
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return nil, fmt.Errorf("shared directory %q not writable: %w", dir, err)
	}
	_ = os.Remove(probe)

	pc := &PeerCoordinator{
		Dir:          dir,
		Self:         self,
		cache:        make(map[string]PeerRecord),
		lastReceived: make(map[string]uint64),
		knownDead:    make(map[string]bool),
		log:          log,
	}

	if w, err := fsnotify.NewWatcher(); err == nil {
		if err := w.Add(dir); err == nil {
			pc.watcher = w
		} else {
			w.Close()
		}
	}
	return pc, nil
}

func (pc *PeerCoordinator) Close() {
	if pc.watcher != nil {
		pc.watcher.Close()
	}
}

// stateFileName builds the wire filename for a publish (spec section 4.9).
func stateFileName(self string, ts time.Time, dead bool, cumulative uint64, encoded string) string {
	deadFlag := 0
	if dead {
		deadFlag = 1
	}
	return fmt.Sprintf("state_%s_%.6f_%d_%d_%s.txt", self, float64(ts.UnixNano())/1e9, deadFlag, cumulative, encoded)
}

// Publish deletes any previous state file for self and writes a new one.
// Old files are removed before the new one is created so a reader never
// observes two authoritative records for the same publisher at once
// (spec section 4.9, section 5).
func (pc *PeerCoordinator) Publish(board *Board, name PieceName, rotation, x, y int, dead bool, cumulative uint64, now time.Time) error {
	matches, _ := filepath.Glob(filepath.Join(pc.Dir, fmt.Sprintf("state_%s_*.txt", pc.Self)))
	for _, m := range matches {
		_ = os.Remove(m)
	}
	encoded := EncodeState(board, name, rotation, x, y)
	name2 := stateFileName(pc.Self, now, dead, cumulative, encoded)
	f, err := os.Create(filepath.Join(pc.Dir, name2))
	if err != nil {
		return err
	}
	f.Close()
	pc.lastPublish = now
	return nil
}

// ShouldPublish reports whether at least StatePublishInterval has elapsed
// since the last publish.
func (pc *PeerCoordinator) ShouldPublish(now time.Time) bool {
	return pc.lastPublish.IsZero() || now.Sub(pc.lastPublish) >= StatePublishInterval
}

// parseStateFilename implements the "split_once on _ four times" parse
// named in spec section 4.9: the first five underscore-delimited fields
// are fixed, and everything after the fifth underscore (up to the .txt
// suffix) is the base64 payload verbatim — base64url itself can contain
// underscores, so it must never be split further.
func parseStateFilename(filename string) (player string, ts float64, dead bool, cumulative uint64, encoded string, ok bool) {
	if !strings.HasSuffix(filename, ".txt") {
		return "", 0, false, 0, "", false
	}
	trimmed := strings.TrimSuffix(filename, ".txt")
	parts := strings.SplitN(trimmed, "_", 6)
	if len(parts) != 6 || parts[0] != "state" {
		return "", 0, false, 0, "", false
	}
	tsVal, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return "", 0, false, 0, "", false
	}
	deadVal, err := strconv.Atoi(parts[3])
	if err != nil {
		return "", 0, false, 0, "", false
	}
	cumVal, err := strconv.ParseUint(parts[4], 10, 64)
	if err != nil {
		return "", 0, false, 0, "", false
	}
	return parts[1], tsVal, deadVal != 0, cumVal, parts[5], true
}

// Scan lists the shared directory, updates the in-memory peer cache, and
// removes files that exceed the cleanup timeout. A directory-listing
// failure leaves the cache untouched (spec section 4.9 point 5) so a
// momentary I/O hiccup never makes a peer blink out.
func (pc *PeerCoordinator) Scan(now time.Time) error {
	entries, err := os.ReadDir(pc.Dir)
	if err != nil {
		pc.log.Debug().Err(err).Msg("peer directory listing failed, keeping cache")
		return err
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "state_") {
			continue
		}
		player, ts, dead, cumulative, encoded, ok := parseStateFilename(e.Name())
		if !ok {
			continue
		}
		if player == pc.Self {
			continue
		}

		publishedAt := time.Unix(0, int64(ts*1e9))
		age := now.Sub(publishedAt)

		cleanupTimeout := StateCleanupTimeoutAlive
		staleTimeout := StateStaleTimeoutAlive
		if dead {
			cleanupTimeout = DeadStateCleanupTimeout
			staleTimeout = DeadStateCleanupTimeout
		}

		if age > cleanupTimeout {
			_ = os.Remove(filepath.Join(pc.Dir, e.Name()))
			continue
		}
		if age > staleTimeout {
			continue
		}

		decoded, ok := DecodeState(encoded)
		if !ok {
			pc.log.Debug().Str("peer", player).Msg("peer payload malformed, discarding")
			continue
		}

		pc.cache[player] = PeerRecord{
			Player:     player,
			Decoded:    decoded,
			IsDead:     dead,
			Cumulative: cumulative,
			Timestamp:  publishedAt,
		}
	}
	return nil
}

// Peers returns the current cached peer records, most recent per player.
func (pc *PeerCoordinator) Peers() map[string]PeerRecord {
	return pc.cache
}

// DeriveAttacks compares each cached peer's cumulative-garbage counter
// against the local ledger and enqueues the delta, per spec section 4.9.
// A peer seen for the first time initializes its ledger entry to the
// first observed value rather than zero — the spec-permitted alternative
// to crediting a late joiner with the peer's entire backlog (see
// DESIGN.md, Open Question decisions).
func (pc *PeerCoordinator) DeriveAttacks(queue *GarbageQueue) {
	for player, rec := range pc.cache {
		last, seen := pc.lastReceived[player]
		if !seen {
			pc.lastReceived[player] = rec.Cumulative
			continue
		}
		if rec.Cumulative > last {
			delta := rec.Cumulative - last
			queue.Enqueue(int(delta), player)
			pc.lastReceived[player] = rec.Cumulative
		}
		// rec.Cumulative <= last: monotonicity violation or no-op, both
		// handled the same way (spec section 7): accept the new value as
		// a baseline without crediting negative garbage.
		if rec.Cumulative < last {
			pc.lastReceived[player] = rec.Cumulative
		}
	}
}

// KOEvent is a peer transitioning from alive to dead, newly observed.
type KOEvent struct {
	Player string
}

// DeriveKOs returns newly-observed dead peers and marks them as credited,
// per spec section 4.9. The known-dead set never removes entries (spec
// section 3).
func (pc *PeerCoordinator) DeriveKOs() []KOEvent {
	var events []KOEvent
	for player, rec := range pc.cache {
		if rec.IsDead && !pc.knownDead[player] {
			pc.knownDead[player] = true
			events = append(events, KOEvent{Player: player})
		}
	}
	return events
}

// Cleanup removes the local state file and performs a defensive sweep of
// any directory entry past the cleanup timeout, even for other players —
// guarding against a crashed process polluting the directory (spec
// section 4.9, "Cleanup on exit").
func (pc *PeerCoordinator) Cleanup(now time.Time) {
	matches, _ := filepath.Glob(filepath.Join(pc.Dir, fmt.Sprintf("state_%s_*.txt", pc.Self)))
	for _, m := range matches {
		_ = os.Remove(m)
	}
	_ = pc.Scan(now)
}

// WaitForChange blocks until either the opportunistic directory watch
// fires or d elapses, whichever comes first — the fsnotify fast path
// named in SPEC_FULL.md's domain stack section, with polling as the
// correctness fallback.
func (pc *PeerCoordinator) WaitForChange(d time.Duration) {
	if pc.watcher == nil {
		time.Sleep(d)
		return
	}
	select {
	case <-pc.watcher.Events:
	case <-pc.watcher.Errors:
	case <-time.After(d):
	}
}
