// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if cfg.Caller {
		t.Error("Caller should default to false")
	}
	if !cfg.Timestamp {
		t.Error("Timestamp should default to true")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"ERROR", zerolog.ErrorLevel},
		{" fatal ", zerolog.FatalLevel},
		{"disabled", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// The tests below reconfigure the global logger and must not run in parallel.

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Timestamp: true, Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("isbn", "0439136350").Msg("test message")

	out := buf.String()
	for _, want := range []string{"test message", `"level":"info"`, `"isbn":"0439136350"`, `"time":`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	defer Init(DefaultConfig())

	Info().Msg("hidden")
	Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message written at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	defer Init(DefaultConfig())

	logger := Component("index")
	logger.Info().Msg("built")

	if !strings.Contains(buf.String(), `"component":"index"`) {
		t.Errorf("component field missing: %s", buf.String())
	}
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	defer Init(DefaultConfig())

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	Ctx(ctx).Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-1"`) || !strings.Contains(out, `"correlation_id":"corr-1"`) {
		t.Errorf("context IDs missing: %s", out)
	}

	if RequestIDFromContext(context.Background()) != "" {
		t.Error("empty context returned a request ID")
	}
	if len(GenerateCorrelationID()) != 8 {
		t.Error("correlation ID should be 8 characters")
	}
}

func TestInit_ServiceField(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Output: &buf})
	defer Init(DefaultConfig())

	Warn().Msg("x")
	if !strings.Contains(buf.String(), `"service":"bookmatch"`) {
		t.Errorf("service field missing: %s", buf.String())
	}
	if strings.Contains(buf.String(), `"time":`) {
		t.Errorf("timestamp written with Timestamp=false: %s", buf.String())
	}
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "error", Output: &buf})
	defer Init(DefaultConfig())

	Warn().Msg("before")
	SetLevelString("warn")
	Warn().Msg("after")

	out := buf.String()
	if strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Errorf("level change not applied: %s", out)
	}
}

func TestSlogHandler(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	defer Init(DefaultConfig())

	h := NewSlogHandlerWithLogger(NewTestLogger(&buf))
	logger := slog.New(h).With("service", "index").WithGroup("build")
	logger.Info("service started", "items", 42, slog.Group("source", "kind", "file"))
	logger.Debug("not shown")

	out := buf.String()
	for _, want := range []string{
		`"service":"index"`,
		`"build.items":42`,
		`"build.source.kind":"file"`,
		`"message":"service started"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "not shown") {
		t.Errorf("debug record written at info level: %s", out)
	}
}
