package apns

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the logging capability consumed by the client. Implementations
// must be safe for use from a single goroutine at a time, which is all the
// client requires.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NopLogger discards all messages. It is the default when Config.Logger is
// not set.
var NopLogger Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Infof(format string, args ...interface{})  {}
func (nopLogger) Errorf(format string, args ...interface{}) {}

// NewLogger wraps a zerolog logger into the Logger capability.
func NewLogger(log zerolog.Logger) Logger { return zerologLogger{log} }

// ConsoleLogger returns a Logger writing human-readable output to stderr.
func ConsoleLogger() Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerologLogger{zerolog.New(out).With().Timestamp().Logger()}
}

type zerologLogger struct {
	log zerolog.Logger
}

func (l zerologLogger) Infof(format string, args ...interface{}) {
	l.log.Info().Msgf(format, args...)
}

func (l zerologLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}
