package commands

import (
	"runtime"
	"strings"
	"testing"

	"github.com/thoreinstein/nexus/cmd"
)

func TestVersionCommand_Output(t *testing.T) {
	isolate(t)

	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version command should not return an error, got: %v", err)
	}

	for _, want := range []string{
		"nexus version " + cmd.Version,
		"commit:    " + cmd.Commit,
		"built:     " + cmd.Date,
		"go:        " + runtime.Version(),
		"agents:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q\nGot:\n%s", want, out)
		}
	}
}

func TestVersionCommand_CommandMetadata(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
	if versionCmd.Short == "" {
		t.Error("versionCmd.Short should not be empty")
	}
	if versionCmd.Long == "" {
		t.Error("versionCmd.Long should not be empty")
	}
}
