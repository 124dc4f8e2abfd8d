// Package logger centralizes slog.Logger construction so every entry point
// builds its logger the same way: a level string, a format string, stderr.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a *slog.Logger for the given level and format.
// Level: "debug", "info", "warn", "error" (default "info").
// Format: "json" or "text" (default "text").
// Output goes to stderr so command output stays pipeable.
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter returns a *slog.Logger writing to w. Tests use this to
// capture output.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h)
}

// ParseLevel converts a level string to slog.Level. Unrecognized values
// fall back to LevelInfo.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
