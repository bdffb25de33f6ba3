package fileutil

import (
	"strings"

	"github.com/thoreinstein/nexus/internal/errors"
)

// SafeName reports whether name can be used as a single path component:
// non-empty, no separators or NUL bytes, and not "." or "..".
func SafeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}

// ValidateName returns ErrInvalidName for names that fail SafeName.
func ValidateName(kind, name string) error {
	if !SafeName(name) {
		return errors.Wrapf(errors.ErrInvalidName, "%s %q", kind, name)
	}
	return nil
}
