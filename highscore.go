package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// HighScore is the persistent best-score record named in spec section 6.
// It is the one piece of state this system keeps across process runs.
type HighScore struct {
	LinesSent int
	KOs       int
}

// parseHighScoreFilename extracts the player, lines-sent and KO count from
// a highscore_<player>_<lines-sent>_<kos>_<uuid8>.txt filename.
func parseHighScoreFilename(name string) (player string, score HighScore, ok bool) {
	if !strings.HasPrefix(name, "highscore_") || !strings.HasSuffix(name, ".txt") {
		return "", HighScore{}, false
	}
	trimmed := strings.TrimSuffix(strings.TrimPrefix(name, "highscore_"), ".txt")
	parts := strings.Split(trimmed, "_")
	if len(parts) != 4 {
		return "", HighScore{}, false
	}
	lines, err1 := strconv.Atoi(parts[1])
	kos, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil {
		return "", HighScore{}, false
	}
	return parts[0], HighScore{LinesSent: lines, KOs: kos}, true
}

// LoadHighScore scans dir for the best surviving record for player. Under
// the writer's own invariant there is only ever one file per player, but
// a crash between unlink-old and write-new could leave more than one
// behind, so this defensively takes the maximum rather than assuming a
// single match.
func LoadHighScore(dir, player string) (HighScore, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return HighScore{}, false
	}
	best := HighScore{}
	found := false
	for _, e := range entries {
		p, score, ok := parseHighScoreFilename(e.Name())
		if !ok || p != player {
			continue
		}
		if !found || score.LinesSent > best.LinesSent {
			best = score
			found = true
		}
	}
	return best, found
}

// SaveHighScoreIfBetter writes a new highscore file for player if
// candidate beats (or ties, to pick up a higher KO count at the same
// lines-sent total) the currently stored record, unlinking the old file
// first (spec section 6: "the writer unlinks older ones before writing a
// higher score"). The uuid8 suffix is the first 8 hex characters of a
// fresh UUID, grounded on the GITRIS-backend convention of using
// google/uuid for collision-free filename suffixes (see DESIGN.md).
func SaveHighScoreIfBetter(dir, player string, candidate HighScore) error {
	current, found := LoadHighScore(dir, player)
	if found && (candidate.LinesSent < current.LinesSent ||
		(candidate.LinesSent == current.LinesSent && candidate.KOs <= current.KOs)) {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err == nil {
		for _, e := range entries {
			p, _, ok := parseHighScoreFilename(e.Name())
			if ok && p == player {
				_ = os.Remove(filepath.Join(dir, e.Name()))
			}
		}
	}

	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	name := fmt.Sprintf("highscore_%s_%d_%d_%s.txt", player, candidate.LinesSent, candidate.KOs, suffix)
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	return f.Close()
}

// listHighScores reads every surviving highscore file in dir into a
// leaderboard snapshot sorted by lines sent, highest first (spec section 4.10 step 9's external
// collaborator).
func listHighScores(dir string) ([]LeaderboardEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		p, score, ok := parseHighScoreFilename(e.Name())
		if !ok {
			continue
		}
		out = append(out, LeaderboardEntry{Player: p, HighScore: score})
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].LinesSent > out[j-1].LinesSent; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}
