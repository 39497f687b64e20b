// Package log is a small verbosity-gated wrapper around log/slog shared by
// the CLI and the triage engine.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Verbosity levels, selected with repeated -v flags.
const (
	LevelQuiet = iota // warnings and errors only
	LevelInfo         // -v: run summary, bucket counts
	LevelDebug        // -vv: query strings, rate limits, timings
	LevelTrace        // -vvv: per-item classification decisions
)

const slogLevelTrace = slog.Level(-8)

var (
	mu        sync.RWMutex
	verbosity int
	logger    *slog.Logger
)

// Initialize sets up the global logger with the specified verbosity level.
func Initialize(level int, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	verbosity = level
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slogLevel(level),
	}))
}

func slogLevel(level int) slog.Level {
	switch {
	case level >= LevelTrace:
		return slogLevelTrace
	case level >= LevelDebug:
		return slog.LevelDebug
	case level >= LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func current() (int, *slog.Logger) {
	mu.RLock()
	defer mu.RUnlock()
	return verbosity, logger
}

// Info logs at info level (-v).
func Info(msg string, args ...any) {
	if v, l := current(); v >= LevelInfo {
		l.Info(msg, args...)
	}
}

// Debug logs at debug level (-vv).
func Debug(msg string, args ...any) {
	if v, l := current(); v >= LevelDebug {
		l.Debug(msg, args...)
	}
}

// Trace logs at trace level (-vvv).
func Trace(msg string, args ...any) {
	if v, l := current(); v >= LevelTrace {
		l.Log(context.Background(), slogLevelTrace, msg, args...)
	}
}

// Warn logs at warn level (always visible).
func Warn(msg string, args ...any) {
	_, l := current()
	l.Warn(msg, args...)
}

// Error logs at error level (always visible).
func Error(msg string, args ...any) {
	_, l := current()
	l.Error(msg, args...)
}

// Timed logs msg at debug level with the time elapsed since start.
// Typical use is `defer log.Timed("search", time.Now())`.
func Timed(msg string, start time.Time, args ...any) {
	Debug(msg, append(args, "elapsed", time.Since(start).Round(time.Millisecond))...)
}

// IsInfo returns true if info-level logging is enabled
func IsInfo() bool {
	v, _ := current()
	return v >= LevelInfo
}

// IsDebug returns true if debug-level logging is enabled
func IsDebug() bool {
	v, _ := current()
	return v >= LevelDebug
}

// IsTrace returns true if trace-level logging is enabled
func IsTrace() bool {
	v, _ := current()
	return v >= LevelTrace
}

// Verbosity returns the current verbosity level
func Verbosity() int {
	v, _ := current()
	return v
}

func init() {
	Initialize(LevelQuiet, os.Stderr)
}
