package logger

import (
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
)

// Level represents the log level.
type Level int

const (
	// LevelDebug logs every probe step, including symbol lookups.
	LevelDebug Level = iota

	// LevelInfo logs one line per inspected library.
	LevelInfo

	// LevelError logs failures only.
	LevelError
)

// ErrInvalidLevel is returned by ParseLevel for unknown level names.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses "debug", "info" or "error" (case-insensitive).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "error", "":
		return LevelError, nil
	default:
		return LevelError, errors.Wrapf(ErrInvalidLevel, "%q", s)
	}
}

// String returns the lower-case level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	default:
		return "error"
	}
}

// ToSlogLevel converts Level to slog.Level.
func (l Level) ToSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromFlags determines the log level from debug and trace flags. The
// configured level applies when neither flag is set.
func LevelFromFlags(debug, trace bool, configured Level) Level {
	switch {
	case trace:
		return LevelDebug
	case debug:
		return min(configured, LevelInfo)
	default:
		return configured
	}
}
