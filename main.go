//go:build !js

package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
)

// main is the CLI entrypoint: load config, open the log, build the game
// session, hand off to the terminal view, run until quit or top-out.
// Structurally this replaces squava's main_cli.go (same flag.*/pprof
// shape) with a single-player-vs-shared-directory session instead of a
// 3-player local match.
func main() {
	sharedDir := flag.String("shared-dir", "", "shared coordination directory (overrides config)")
	playerID := flag.String("player", "", "player id (overrides config)")
	seed := flag.Int64("seed", 0, "bag random seed (0 for time-based)")
	cpuProfile := flag.String("cpuprofile", "", "write cpu profile to file")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	cfg, v, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}
	if *sharedDir != "" {
		cfg.SharedDir = *sharedDir
	}
	if *playerID != "" {
		cfg.PlayerID = *playerID
	}

	log, logFile, err := NewLogger(cfg.SharedDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log open failed: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	WatchConfig(v, func(updated *Config) {
		log.Info().Msg("config reloaded")
		cfg.BaseTick = updated.BaseTick
		cfg.MinTick = updated.MinTick
		cfg.LinesPerSpeed = updated.LinesPerSpeed
		cfg.SpeedupAmount = updated.SpeedupAmount
	})

	session, err := NewGameSession(cfg, log, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	view, err := NewTerminalView(cfg.Keybindings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal init failed: %v\n", err)
		os.Exit(1)
	}
	defer view.Close()

	session.Run(view)
	os.Exit(0)
}
