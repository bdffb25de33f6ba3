package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/thoreinstein/nexus/internal/errors"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("sync complete", "project", "demo")

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, buf.String())
	}
	if parsed["msg"] != "sync complete" {
		t.Errorf("msg = %v", parsed["msg"])
	}
	if parsed["level"] != "INFO" {
		t.Errorf("level = %v", parsed["level"])
	}
	if parsed["project"] != "demo" {
		t.Errorf("project = %v", parsed["project"])
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatText, Output: &buf})

	logger.Info("test message", "key", "value")

	output := buf.String()
	var parsed map[string]any
	if err := json.Unmarshal([]byte(output), &parsed); err == nil {
		t.Error("text format should not be valid JSON")
	}
	for _, want := range []string{"test message", "key=value", "INFO"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestNew_UnknownFormatDefaultsToText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: Format("unknown"), Output: &buf})

	logger.Info("test message")

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err == nil {
		t.Error("unknown format should default to text, not JSON")
	}
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("discard logger should not be enabled at any level")
	}
	logger.Error("dropped")
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name         string
		configLevel  slog.Level
		logLevel     slog.Level
		shouldAppear bool
	}{
		{"info at info", slog.LevelInfo, slog.LevelInfo, true},
		{"debug at info", slog.LevelInfo, slog.LevelDebug, false},
		{"error at info", slog.LevelInfo, slog.LevelError, true},
		{"info at warn", slog.LevelWarn, slog.LevelInfo, false},
		{"trace at debug", slog.LevelDebug, LevelTrace, false},
		{"trace at trace", LevelTrace, LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: tt.configLevel, Format: FormatText, Output: &buf})

			logger.Log(t.Context(), tt.logLevel, "test message")

			if hasOutput := buf.Len() > 0; hasOutput != tt.shouldAppear {
				t.Errorf("got output=%v, want %v (output %q)", hasOutput, tt.shouldAppear, buf.String())
			}
		})
	}
}

func TestTraceLabel(t *testing.T) {
	for _, format := range []Format{FormatText, FormatJSON} {
		var buf bytes.Buffer
		logger := New(Config{Level: LevelTrace, Format: format, Output: &buf})
		logger.Log(t.Context(), LevelTrace, "file unchanged", "path", ".mcp.json")
		if !strings.Contains(buf.String(), "TRACE") {
			t.Errorf("%s output missing TRACE label: %q", format, buf.String())
		}
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{4, LevelTrace},
	}

	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
	if LevelTrace >= slog.LevelDebug {
		t.Error("LevelTrace should be lower than LevelDebug")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelWarn, false},
		{"TRACE", LevelTrace, false},
		{"debug", slog.LevelDebug, false},
		{" info ", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelWarn, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if tt.wantErr && !errors.Is(err, errors.ErrInvalidConfig) {
			t.Errorf("ParseLevel(%q) error should be ErrInvalidConfig", tt.in)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %v, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatText {
		t.Errorf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) expected error")
	}
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf})

	ctx := NewContext(t.Context(), logger)
	FromContext(ctx).Info("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("logger from context did not write: %q", buf.String())
	}

	if FromContext(t.Context()) != slog.Default() {
		t.Error("FromContext without logger should return slog.Default()")
	}
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)
	if !logger.Enabled(t.Context(), LevelTrace) {
		t.Error("ForTest logger should capture trace output")
	}
	logger.Info("info from test logger", "test", t.Name())
}

func TestTestWriter_TrimsNewline(t *testing.T) {
	tw := &testWriter{t: t}
	for _, in := range []string{"test message\n", "no newline", ""} {
		n, err := tw.Write([]byte(in))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != len(in) {
			t.Errorf("Write(%q) returned %d, want %d", in, n, len(in))
		}
	}
}
