// Package log builds the process logger. Level and format are taken from
// the environment (LOG_LEVEL, LOG_FORMAT) so the demo driver and tests can
// switch without flags.
package log

import (
	"log/slog"
	"os"
)

// Level reads the log level from LOG_LEVEL (DEBUG, INFO, WARN, ERROR).
// Defaults to INFO.
func Level() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates the process logger. LOG_FORMAT=json switches to JSON output;
// the default is human-readable text on stderr.
func New() *slog.Logger {
	opts := &slog.HandlerOptions{Level: Level()}

	var handler slog.Handler
	if os.Getenv("LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
