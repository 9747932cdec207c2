// Package logging configures the application-wide zerolog logger.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup returns a logger configured for the given environment. Development
// gets human-readable console output at debug level; everything else gets
// JSON at info level. The global log.Logger is set to the same logger.
func Setup(environment string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	if environment == "development" {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
		logger = zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}

	log.Logger = logger
	return logger
}
