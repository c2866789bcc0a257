package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger tagged with the command name.
// APP_ENV=dev (or development) uses a human-friendly console writer on
// stderr; everything else is JSON on stdout. An unknown level means info.
func NewLogger(env, cmd, level string) zerolog.Logger {
	return newLogger(os.Stdout, os.Stderr, env, cmd, level)
}

func newLogger(out, console io.Writer, env, cmd, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	var w io.Writer = out
	if env == "dev" || env == "development" {
		w = zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("cmd", cmd).Logger()
}
