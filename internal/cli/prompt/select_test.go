package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/nexus/internal/errors"
)

var agents = []Choice{
	{Value: "claude", Label: "Claude Code"},
	{Value: "cursor", Label: "Cursor"},
	{Value: "zed", Label: "Zed"},
}

func TestSelect_EmptyList(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelectorWithIO(strings.NewReader(""), &buf)

	if _, err := s.Select("agent", nil); !errors.Is(err, ErrNoChoices) {
		t.Fatalf("expected ErrNoChoices, got %v", err)
	}
}

func TestSelect_SingleItem(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelectorWithIO(strings.NewReader(""), &buf)

	got, err := s.Select("agent", agents[:1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Value != "claude" {
		t.Errorf("got %q, want claude", got.Value)
	}
	if buf.Len() > 0 {
		t.Errorf("expected no output for single item, got: %s", buf.String())
	}
}

func TestSelect_Numbered(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"second", "2\n", "cursor", nil},
		{"default", "\n", "claude", nil},
		{"no trailing newline", "3", "zed", nil},
		{"out of range", "9\n", "", ErrInvalidSelection},
		{"not a number", "abc\n", "", ErrInvalidSelection},
		{"eof", "", "", ErrSelectionCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			s := NewSelectorWithIO(strings.NewReader(tt.input), &buf)

			got, err := s.Select("Select an agent", agents)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Value != tt.want {
				t.Errorf("got %q, want %q", got.Value, tt.want)
			}
			if !strings.Contains(buf.String(), "[2] Cursor") {
				t.Errorf("prompt should list choices, got: %s", buf.String())
			}
		})
	}
}

func TestSelect_Fuzzy(t *testing.T) {
	orig := findFunc
	t.Cleanup(func() { findFunc = orig })

	s := &Selector{fuzzy: true}

	findFunc = func([]Choice) (int, error) { return 2, nil }
	got, err := s.Select("agent", agents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Value != "zed" {
		t.Errorf("got %q, want zed", got.Value)
	}

	findFunc = func([]Choice) (int, error) { return -1, fuzzyfinder.ErrAbort }
	if _, err := s.Select("agent", agents); !errors.Is(err, ErrSelectionCancelled) {
		t.Errorf("abort should cancel, got %v", err)
	}
}

func TestConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"yes", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if got := Confirm(&buf, strings.NewReader(tt.input), "Continue?"); got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(buf.String(), "Continue? [y/N]: ") {
			t.Errorf("prompt not printed: %q", buf.String())
		}
	}
}
