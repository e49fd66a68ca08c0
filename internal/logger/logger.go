package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New creates the application logger. console selects human readable output
// instead of JSON lines. An unknown level falls back to info.
func New(level string, console bool, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
