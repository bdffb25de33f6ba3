package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ForceColorEnv forces coloured log output even when stderr is not a terminal,
// e.g. when piping into `less -R`. NO_COLOR still wins.
const ForceColorEnv = "NEXUS_FORCE_COLOR"

// IsTTY reports whether w is a terminal. Anything exposing Fd() is checked,
// so *os.File and its wrappers qualify.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether ANSI colour codes should be written to w.
func SupportsColor(w io.Writer) bool {
	return colorAllowed(IsTTY(w))
}

// colorAllowed applies the environment overrides (https://no-color.org)
// on top of the terminal check.
func colorAllowed(isTTY bool) bool {
	if _, off := os.LookupEnv("NO_COLOR"); off {
		return false
	}
	if os.Getenv(ForceColorEnv) != "" {
		return true
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY
}
