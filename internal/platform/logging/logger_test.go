package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/trace"
)

func TestLoggerWritesJSONWithTraceFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf).Named("optimizer").With("manager_id", int64(42))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.DebugContext(ctx, "hidden below level")
	logger.WarnContext(ctx, "solve failed", "error", errors.New("node limit"), "nodes", 10)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := sonic.UnmarshalString(lines[0], &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	checks := map[string]any{
		"level":      "WARN",
		"logger":     "optimizer",
		"msg":        "solve failed",
		"error":      "node limit",
		"trace_id":   "4bf92f3577b34da6a3ce929d0e0e4736",
		"span_id":    "00f067aa0ba902b7",
		"manager_id": float64(42),
		"nodes":      float64(10),
	}
	for key, want := range checks {
		if entry[key] != want {
			t.Fatalf("field %s: expected %v, got %v", key, want, entry[key])
		}
	}
}

func TestDefaultLoggerFallback(t *testing.T) {
	var nilLogger *Logger
	nilLogger.Info("does not panic")

	var buf bytes.Buffer
	previous := Default()
	SetDefault(New(LevelDebug, &buf))
	defer SetDefault(previous)

	nilLogger.Debug("routed to default")
	if !strings.Contains(buf.String(), "routed to default") {
		t.Fatalf("expected nil logger to use default, got %q", buf.String())
	}
}

func TestLoggerKeepsMalformedPairs(t *testing.T) {
	var buf bytes.Buffer
	New(LevelInfo, &buf).Info("pool loaded", "players", 60, "dangling")

	var entry map[string]any
	if err := sonic.UnmarshalString(strings.TrimSpace(buf.String()), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["players"] != float64(60) {
		t.Fatalf("expected players=60, got %v", entry["players"])
	}
	if entry[badKey] != "dangling" {
		t.Fatalf("expected trailing value under %s, got %v", badKey, entry[badKey])
	}
	caller, _ := entry["caller"].(string)
	if !strings.HasPrefix(caller, "logging/logger_test.go") {
		t.Fatalf("expected caller to point at the test, got %q", caller)
	}
}
