package main

import (
	"os"

	"github.com/rs/zerolog"
)

// setupLogger configures zerolog with pretty console output for the
// engine's structured logs.
func setupLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
