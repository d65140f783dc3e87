package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" DEBUG ", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNewWithWriter_JSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "atolctl", "info", "production")

	log.Debug("hidden")
	log.Info("provider_request", "operation", "sell")

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "hidden") {
		t.Error("expected debug record to be filtered")
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", line, err)
	}
	if record["app"] != "atolctl" {
		t.Errorf("expected app attribute, got %v", record["app"])
	}
	if record["operation"] != "sell" {
		t.Errorf("expected operation attribute, got %v", record["operation"])
	}
}

func TestNewWithWriter_TextInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "atolctl", "debug", "local")

	log.Debug("token refreshed")

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") {
		t.Errorf("expected text output, got %q", out)
	}
	if strings.Contains(out, colorCyan) {
		t.Error("expected no colors when not writing to a terminal")
	}
}
