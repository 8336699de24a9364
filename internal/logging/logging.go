// Package logging builds the zerolog loggers used across the module.
//
// Debug output is switched on either through configuration or the BST_DEBUG
// environment variable, so a deployed binary can be made verbose without a
// config change.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DebugEnv forces debug level when set to a true value.
const DebugEnv = "BST_DEBUG"

// Config controls logger construction.
type Config struct {
	// Level is one of trace, debug, info, warn, error. Defaults to info.
	Level string
	// Format is "console" or "json". Defaults to json.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New builds a logger from cfg.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level := ParseLevel(cfg.Level)
	if DebugEnabled() {
		level = zerolog.DebugLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// DebugEnabled reports whether BST_DEBUG is set to a true value.
func DebugEnabled() bool {
	v, err := strconv.ParseBool(os.Getenv(DebugEnv))
	return err == nil && v
}
