package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Console-formatted, written to w (typically
// stderr so structured host output stays clean), info level unless verbose is
// set or the host requested debug logging via RUNNER_DEBUG.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose || os.Getenv("RUNNER_DEBUG") == "1" {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}
