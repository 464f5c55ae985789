// Package logging wraps charmbracelet/log behind a small interface so that
// command tracing and supervision notes can be injected, captured in tests or
// discarded without touching process-wide state.
package logging

import "strings"

// Level represents logging severity levels, ordered from most to least verbose.
type Level int

const (
	// LevelDebug carries command-line traces and supervision notes.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for swallowed failures such as a kill that could not be delivered.
	LevelWarn
	// LevelError is for error messages about failures.
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level. "trace" is accepted as an alias of
// debug. Unrecognized strings default to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace", "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
