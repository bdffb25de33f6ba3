package fileutil

import (
	"testing"

	"github.com/thoreinstein/nexus/internal/errors"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"github", true},
		{"my-skill_2", true},
		{"with space", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../etc", false},
		{"a/b", false},
		{`a\b`, false},
		{"nul\x00byte", false},
	}
	for _, tt := range tests {
		if got := SafeName(tt.name); got != tt.want {
			t.Errorf("SafeName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("skill", "ok"); err != nil {
		t.Errorf("ValidateName(ok) = %v", err)
	}
	err := ValidateName("skill", "../x")
	if !errors.Is(err, errors.ErrInvalidName) {
		t.Errorf("ValidateName(../x) = %v, want ErrInvalidName", err)
	}
}
