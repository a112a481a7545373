// Package logging configures the structured logger shared by the
// command-line tools.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger tagged with the tool name. Verbose
// enables debug-level events (per-record drops, merge decisions).
func New(tool string, verbose bool) zerolog.Logger {
	return NewWithOutput(tool, verbose, os.Stderr)
}

// NewWithOutput is New with an explicit sink, used by tests.
func NewWithOutput(tool string, verbose bool, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(console).
		Level(level).
		With().
		Timestamp().
		Str("tool", tool).
		Logger()
}
