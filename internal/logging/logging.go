// Package logging configures the process-wide structured logger.
//
// Everything logs to stderr: stdout is reserved for command output and the
// MCP stdio transport, so a stray log line must never corrupt either.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var root zerolog.Logger = zerolog.New(io.Discard)

// Setup initialises the root logger. level is one of debug, info, warn,
// error (anything else means info). When pretty is true, output uses the
// human console writer; otherwise it is JSON lines.
func Setup(level string, pretty bool) {
	var w io.Writer = os.Stderr
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	root = zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Component returns a sub-logger tagged with the given component name.
// Bind the result before chaining events:
//
//	log := logging.Component("adb")
//	log.Debug().Msg("device list refreshed")
func Component(name string) zerolog.Logger {
	return root.With().Str("component", name).Logger()
}
