// Package logging configures the slog logger shared by taskday packages.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelEnvVar selects the log level (debug, info, warn, error).
const LevelEnvVar = "TASKDAY_LOG"

// DefaultLevel keeps diagnostics quiet unless something degraded.
const DefaultLevel = slog.LevelWarn

// ParseLevel converts a level name to a slog.Level. The empty string maps
// to DefaultLevel.
func ParseLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return DefaultLevel, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return DefaultLevel, fmt.Errorf("unknown log level %q", value)
	}
}

// New returns a text logger writing to w at level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// FromEnv returns a stderr logger at the level named by TASKDAY_LOG.
// debug forces the debug level regardless of the environment.
func FromEnv(debug bool) *slog.Logger {
	if debug {
		return New(os.Stderr, slog.LevelDebug)
	}
	level, err := ParseLevel(os.Getenv(LevelEnvVar))
	logger := New(os.Stderr, level)
	if err != nil {
		logger.Warn("ignoring log level", "env", LevelEnvVar, "error", err)
	}
	return logger
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns logger, or a discarding logger when it is nil.
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}
