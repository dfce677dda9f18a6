package config

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	LoggingConfig{Level: "info", Format: "json"}.NewLogger(&buf).Info("hello", "section_id", "abc")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected json output, got %q", buf.String())
	}

	buf.Reset()
	LoggingConfig{Level: "info", Format: "text"}.NewLogger(&buf).Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("expected text output, got %q", buf.String())
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info disabled at warn level")
	}
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("expected warn enabled")
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := parseLevel(in)
		if err != nil {
			t.Errorf("parseLevel(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := parseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
