// Package logging configures zerolog for the command line tools.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLogLevel overrides the default info level. It accepts the zerolog
// level names (trace, debug, info, warn, error, disabled).
const EnvLogLevel = "OSCKIT_LOG_LEVEL"

// NewLogger builds the console logger the tools share. It also becomes the
// package global logger, so library-level logging follows the same level.
func NewLogger(app string) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).Level(envLevel()).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

func envLevel() zerolog.Level {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel)))
	if raw == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
