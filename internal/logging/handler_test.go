package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/thoreinstein/nexus/internal/errors"
)

func newTestHandler(buf *bytes.Buffer, level slog.Level) *Handler {
	return NewHandler(buf, &slog.HandlerOptions{Level: level})
}

func TestHandler_SyncRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newTestHandler(&buf, slog.LevelInfo)).With("project", "demo")

	now := time.Now()
	logger.Info("sync finished", "run_id", "5f0c2a9e-1d3b-4c55-9a1e-0b6f7d1c2e3a", "written", 4)

	out := buf.String()
	for _, want := range []string{
		now.Format(time.Kitchen),
		"INFO  sync finished",
		"project=demo",
		"run_id=5f0c2a9e-1d3b-4c55-9a1e-0b6f7d1c2e3a",
		"written=4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n") || strings.Count(out, "\n") != 1 {
		t.Errorf("expected exactly one line, got %q", out)
	}
}

func TestHandler_LevelLabels(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{LevelTrace, "TRACE"},
		{slog.LevelDebug, "DEBUG"},
		{slog.LevelInfo, "INFO"},
		{slog.LevelWarn, "WARN"},
		{slog.LevelError, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var buf bytes.Buffer
			h := newTestHandler(&buf, LevelTrace)
			r := slog.NewRecord(time.Time{}, tt.level, "populated skills", 0)
			if err := h.Handle(t.Context(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if got := buf.String(); !strings.HasPrefix(got, tt.want) {
				t.Errorf("output = %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestHandler_Enabled(t *testing.T) {
	tests := []struct {
		name  string
		min   slog.Level
		level slog.Level
		want  bool
	}{
		{"default warn hides info", slog.LevelWarn, slog.LevelInfo, false},
		{"warn shows warn", slog.LevelWarn, slog.LevelWarn, true},
		{"debug hides trace", slog.LevelDebug, LevelTrace, false},
		{"trace shows trace", LevelTrace, LevelTrace, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&bytes.Buffer{}, tt.min)
			if got := h.Enabled(t.Context(), tt.level); got != tt.want {
				t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}

	if !NewHandler(&bytes.Buffer{}, nil).Enabled(t.Context(), slog.LevelInfo) {
		t.Error("a handler without options should accept info")
	}
}

func TestHandler_NoTime(t *testing.T) {
	var buf bytes.Buffer
	r := slog.NewRecord(time.Time{}, slog.LevelWarn, "skipping agent", 0)
	r.AddAttrs(slog.String("agent", "nonesuch"))
	if err := newTestHandler(&buf, slog.LevelInfo).Handle(t.Context(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got, want := buf.String(), "WARN  skipping agent agent=nonesuch\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestHandler_MasksSecrets(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"env token by key", "GITHUB_TOKEN", "abc123def456", "GITHUB_TOKEN=****f456"},
		{"header by key", "Authorization", "Bearer s3cr3t-value", "Authorization=****alue"},
		{"short secret", "api_key", "abc", "api_key=********"},
		{"token prefix under safe key", "arg", "ghp_1234567890", "arg=****7890"},
		{"plain value untouched", "agent", "claude", "agent=claude"},
		{"password key", "password", "1234567", "password=****4567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			slog.New(newTestHandler(&buf, slog.LevelInfo)).Info("server env", tt.key, tt.val)
			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want it to contain %q", out, tt.want)
			}
			if tt.want != tt.key+"="+tt.val && strings.Contains(out, tt.val) {
				t.Errorf("secret %q leaked: %q", tt.val, out)
			}
		})
	}
}

func TestHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newTestHandler(&buf, slog.LevelInfo)).
		With("run_id", "r1").
		WithGroup("agent").
		With("id", "codex")

	logger.Info("wrote config",
		slog.Group("file", "path", ".codex/config.toml"),
		slog.Group("env", "OPENAI_API_KEY", "sk-live-abcdef"),
	)

	out := buf.String()
	for _, want := range []string{
		"run_id=r1",
		"agent.id=codex",
		"agent.file.path=.codex/config.toml",
		"agent.env.OPENAI_API_KEY=****cdef",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
	if strings.Contains(out, "agent.run_id") {
		t.Errorf("attrs added before WithGroup must stay ungrouped: %q", out)
	}
}

func TestHandler_ErrorValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newTestHandler(&buf, slog.LevelInfo))

	err := errors.Wrapf(errors.ErrUnknownAgent, "resolving %q", "nonesuch")
	logger.Warn("agent render failed", "agent", "nonesuch", "error", err)

	if want := `error=resolving "nonesuch": unknown agent`; !strings.Contains(buf.String(), want) {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
