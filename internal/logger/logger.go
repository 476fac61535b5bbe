// Package logger provides the process wide zerolog instance.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is shared across the whole application. Writes structured JSON to
// stderr so the output can be shipped as-is.
var Logger = zerolog.New(os.Stderr).
	Level(zerolog.InfoLevel).
	With().
	Timestamp().
	Caller().
	Logger()

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

// SetLevel adjusts the global log level. Unknown levels fall back to info.
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		Logger.Warn().Str("level", level).Msg("Unknown log level, using info")
		parsed = zerolog.InfoLevel
	}
	Logger = Logger.Level(parsed)
}
