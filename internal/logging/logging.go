// Package logging provides structured diagnostic logging using zerolog.
//
// User-facing messages go through internal/console; this logger carries the
// diagnostic trail (dispatched commands, external process invocations, file
// writes) and stays silent unless FASTMAN_LOG lowers the level.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance. It defaults to a disabled logger
// until Init is called.
var Logger = zerolog.Nop()

// Init configures the global logger. The level is read from the given
// environment variable (debug, info, warn, error); an empty or unknown
// value disables logging entirely.
func Init(levelEnv string, out io.Writer) {
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(levelEnv)))
	if err != nil || levelEnv == "" {
		Logger = zerolog.Nop()
		return
	}

	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	Logger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// Debug starts a debug-level event on the global logger.
func Debug() *zerolog.Event { return Logger.Debug() }

// Warn starts a warn-level event on the global logger.
func Warn() *zerolog.Event { return Logger.Warn() }

// Error starts an error-level event on the global logger.
func Error() *zerolog.Event { return Logger.Error() }
