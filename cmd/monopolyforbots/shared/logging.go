package shared

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rs/zerolog"
)

// SetupLogger returns a zerolog logger on stderr. Console output unless
// structured is set.
func SetupLogger(debug, structured bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	if structured {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		w = os.Stderr
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// SetupConsoleLogger returns a charm logger for human-facing commands.
func SetupConsoleLogger(debug bool, prefix string) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}
