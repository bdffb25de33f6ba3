package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/thoreinstein/nexus/internal/errors"
)

func TestMultiHandler(t *testing.T) {
	var term, file bytes.Buffer
	logger := slog.New(NewMultiHandler(
		NewHandlerFor(Config{Level: slog.LevelWarn, Format: FormatText, Output: &term}),
		NewHandlerFor(Config{Level: slog.LevelDebug, Format: FormatJSON, Output: &file}),
	)).With("project", "demo")

	logger.Debug("planning sync")
	logger.Warn("agent skipped", "agent", "warp")

	if strings.Contains(term.String(), "planning sync") {
		t.Error("debug record should not reach the warn-level handler")
	}
	if !strings.Contains(term.String(), "agent=warp") {
		t.Errorf("terminal output missing warn record: %q", term.String())
	}

	lines := strings.Split(strings.TrimSpace(file.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("file handler got %d records, want 2: %q", len(lines), file.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["project"] != "demo" || rec["agent"] != "warp" {
		t.Errorf("file record = %v", rec)
	}
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("disk full")
}

func TestMultiHandler_KeepsDispatchingAfterFailure(t *testing.T) {
	var out bytes.Buffer
	text := NewHandlerFor(Config{Level: slog.LevelInfo, Format: FormatText, Output: &out})
	m := NewMultiHandler(failingHandler{text}, nil, text)

	err := slog.New(m).Handler().Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "synced", 0))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Handle() error = %v, want the failing handler's error", err)
	}
	if !strings.Contains(out.String(), "synced") {
		t.Errorf("second handler should still receive the record, got %q", out.String())
	}
}
