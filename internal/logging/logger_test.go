// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

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
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	for _, lvl := range []string{"debug", "INFO", "warn", "error"} {
		if !ValidLevel(lvl) {
			t.Errorf("ValidLevel(%q) = false, want true", lvl)
		}
	}
	for _, lvl := range []string{"", "verbose", "loud"} {
		if ValidLevel(lvl) {
			t.Errorf("ValidLevel(%q) = true, want false", lvl)
		}
	}
}

// The remaining tests reconfigure the global logger and must not run in parallel.

func TestInitAndHelpers(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Timestamp: true, Output: &buf})
	defer Init(Config{Level: "info", Output: &bytes.Buffer{}})

	Info().Str("key", "value").Msg("info message")
	Debug().Msg("debug message")
	Warn().Msg("warn message")
	hubLog := WithComponent("websocket_hub")
	hubLog.Info().Msg("component message")

	out := buf.String()
	for _, want := range []string{
		"info message",
		`"key":"value"`,
		"debug message",
		`"level":"warn"`,
		`"component":"websocket_hub"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got: %s", want, out)
		}
	}
}

func TestInitLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	defer Init(Config{Level: "info", Output: &bytes.Buffer{}})

	Info().Msg("should not appear")
	Warn().Msg("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("info message leaked past warn level: %s", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestCtxAttachesIdentifiers(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})
	defer Init(Config{Level: "info", Output: &bytes.Buffer{}})

	ctx := ContextWithRequestID(context.Background(), "req-123")
	ctx = ContextWithConnID(ctx, 42)
	Ctx(ctx).Info().Msg("correlated")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-123"`) {
		t.Errorf("missing request_id: %s", out)
	}
	if !strings.Contains(out, `"conn_id":42`) {
		t.Errorf("missing conn_id: %s", out)
	}
}

func TestContextAccessorsEmpty(t *testing.T) {
	ctx := context.Background()
	if id := RequestIDFromContext(ctx); id != "" {
		t.Errorf("RequestIDFromContext on empty ctx = %q", id)
	}
	if _, ok := ConnIDFromContext(ctx); ok {
		t.Error("ConnIDFromContext on empty ctx reported ok")
	}
	if len(GenerateRequestID()) != 36 {
		t.Error("GenerateRequestID should return a full UUID")
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))

	Ctx(ctx).Info().Msg("through context logger")
	if !strings.Contains(buf.String(), "through context logger") {
		t.Errorf("context logger not used: %s", buf.String())
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})
	defer Init(Config{Level: "info", Output: &bytes.Buffer{}})

	logger := NewSlogLogger().With("supervisor", "fleetrelay").WithGroup("svc")
	logger.Warn("service restarted", slog.String("name", "websocket-hub"), slog.Int("attempt", 2))

	out := buf.String()
	for _, want := range []string{
		`"level":"warn"`,
		`"supervisor":"fleetrelay"`,
		`"svc.name":"websocket-hub"`,
		`"svc.attempt":2`,
		"service restarted",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output: %s", want, out)
		}
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	Init(Config{Level: "warn", Output: &bytes.Buffer{}})
	defer Init(Config{Level: "info", Output: &bytes.Buffer{}})

	h := NewSlogHandler()
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}
