package config

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds a console logger for the given verbosity:
// 0 logs warnings, 1 adds progress, 2 adds search diagnostics.
func NewLogger(w io.Writer, verbosity int) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case verbosity >= 2:
		level = zerolog.DebugLevel
	case verbosity == 1:
		level = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Logger builds the logger for this configuration.
func (c *Config) Logger() zerolog.Logger {
	if c.LogFile == nil {
		return zerolog.Nop()
	}
	return NewLogger(c.LogFile, c.Verbosity)
}
