// Package logutil builds the process logger shared by the HTTP layer and the
// model manager.
package logutil

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	Level  string // debug|info|warn|error|off
	Format string // json|console
	File   string // optional; rotated with lumberjack

	// Output overrides stderr. Used by tests.
	Output io.Writer

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ParseLevel maps a textual level onto zerolog. Unknown values fall back to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "trace":
		return zerolog.TraceLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	case "off", "disabled", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New returns a logger writing to stderr (or Options.Output) and, when File is
// set, additionally to a size-rotated file.
func New(o Options) zerolog.Logger {
	var out io.Writer = os.Stderr
	if o.Output != nil {
		out = o.Output
	}
	if strings.EqualFold(o.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	if o.File != "" {
		out = zerolog.MultiLevelWriter(out, rotatingFile(o))
	}
	return zerolog.New(out).Level(ParseLevel(o.Level)).With().Timestamp().Logger()
}

func rotatingFile(o Options) io.Writer {
	size := o.MaxSizeMB
	if size <= 0 {
		size = 100
	}
	backups := o.MaxBackups
	if backups <= 0 {
		backups = 3
	}
	return &lumberjack.Logger{
		Filename:   o.File,
		MaxSize:    size,
		MaxBackups: backups,
		MaxAge:     o.MaxAgeDays,
		Compress:   true,
	}
}
