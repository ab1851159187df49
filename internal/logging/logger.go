// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName is attached to every record as the "service" field.
const ServiceName = "bookmatch"

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error, fatal,
	// panic or disabled. Default: info
	Level string

	// Format is json or console. Default: json
	Format string

	// Caller adds file:line to every record.
	Caller bool

	// Timestamp adds the "time" field. Default: true
	Timestamp bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

// global is swapped whole by Init so readers never take a lock.
var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // logging must work before main calls Init
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"
	Init(DefaultConfig())
}

// Init configures the global logger. It may be called again to reconfigure,
// which the CLI does once flags are parsed.
func Init(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	out := cfg.Output
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	logCtx := zerolog.New(out).With().Str("service", ServiceName)
	if cfg.Timestamp {
		logCtx = logCtx.Timestamp()
	}
	if cfg.Caller {
		logCtx = logCtx.Caller()
	}
	l := logCtx.Logger()
	global.Store(&l)
}

// parseLevel maps a configured level name to zerolog. Unknown or empty names
// fall back to info.
func parseLevel(level string) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	if name == "" {
		return zerolog.InfoLevel
	}
	l, err := zerolog.ParseLevel(name)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	return *global.Load()
}

// Component returns a child of the global logger tagged with a component
// name. Engines and services take the result by value.
//
//	engine, err := recommend.NewEngine(cfg, logging.Component("recommend"))
func Component(name string) zerolog.Logger {
	return global.Load().With().Str("component", name).Logger()
}

// SetLevelString changes the global level, as on a config file reload.
func SetLevelString(level string) {
	zerolog.SetGlobalLevel(parseLevel(level))
}

func Debug() *zerolog.Event { return global.Load().Debug() }

// Info starts a new message with info level.
//
//	logging.Info().Int("items", n).Msg("Catalog loaded")
func Info() *zerolog.Event { return global.Load().Info() }

func Warn() *zerolog.Event { return global.Load().Warn() }

func Error() *zerolog.Event { return global.Load().Error() }

// Fatal logs and then calls os.Exit(1).
func Fatal() *zerolog.Event { return global.Load().Fatal() }

// NewTestLogger creates a logger that writes JSON to w, for tests that
// inspect log output.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
