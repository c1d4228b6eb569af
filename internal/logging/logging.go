// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the handler and threshold of the logger.
type Options struct {
	Level  string // debug|info|warn|error
	Format string // text|json
	// Output defaults to stderr.
	Output io.Writer
	Debug  bool
}

// ParseLevel converts a level name to a slog.Level; unknown names map to warn.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New builds a logger from opt. Debug forces the debug level and source locations.
func New(opt Options) *slog.Logger {
	out := opt.Output
	if out == nil {
		out = os.Stderr
	}
	level := ParseLevel(opt.Level)
	if opt.Debug {
		level = slog.LevelDebug
	}
	ho := &slog.HandlerOptions{Level: level, AddSource: opt.Debug}
	var h slog.Handler
	if strings.EqualFold(opt.Format, "json") {
		h = slog.NewJSONHandler(out, ho)
	} else {
		h = slog.NewTextHandler(out, ho)
	}
	return slog.New(h).With(slog.String("app", "tidycsv"))
}

// Setup installs the logger built from opt as the slog default.
func Setup(opt Options) *slog.Logger {
	l := New(opt)
	slog.SetDefault(l)
	return l
}
