package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger opens (creating if needed) a log file alongside the shared
// directory and returns a zerolog.Logger writing to it. Logging must never
// touch stdout/stderr once the tcell alt-screen is active, so — unlike
// bluebear94-odnocam, which logs straight to the console — this always
// writes JSON lines to a file. The human-readable console writer lives in
// the separate consoleLogger below and is not used by NewLogger.
func NewLogger(sharedDir string) (zerolog.Logger, *os.File, error) {
	path := filepath.Join(filepath.Dir(sharedDir), "tetris.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, err
	}
	logger := zerolog.New(f).With().Timestamp().Logger()
	return logger, f, nil
}

// consoleLogger is used by tests and by the profiling/CLI error paths that
// run before the tcell screen takes over.
func consoleLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}
