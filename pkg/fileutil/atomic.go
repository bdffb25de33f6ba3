// Package fileutil provides file system utilities shared by the engine:
// atomic writes, bounded reads, directory copies and name safety checks.
package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/nexus/internal/errors"
)

// AtomicWriteFile writes data to a file atomically using a temp file + rename pattern.
// Interrupted writes leave the original file intact.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	// Same directory so the rename stays on one filesystem
	tmp, err := os.CreateTemp(dir, ".nexus-atomic-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	tmpName := tmp.Name()
	defer func() {
		// Only present if the rename did not happen
		if _, statErr := os.Stat(tmpName); statErr == nil {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}

	return nil
}

// WriteFile creates the parent directory of path and writes data atomically
// with 0644 permissions. Most engine writes go through here.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewIOError(filepath.Dir(path), err)
	}
	if err := AtomicWriteFile(path, data, 0o644); err != nil {
		return errors.NewIOError(path, err)
	}
	return nil
}

// AtomicWriteJSON writes v as 2-space indented JSON with a trailing newline.
// The file is created with 0644 permissions; the parent must exist.
func AtomicWriteJSON(path string, v any) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, 0o644)
}

// MarshalJSON renders v the way every nexus-written JSON file is formatted:
// 2-space indentation and a trailing newline.
func MarshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling JSON")
	}
	return append(data, '\n'), nil
}

// MarshalYAML renders v as YAML with 2-space indentation.
// yaml.v3 panics on unmarshalable types; the panic is returned as an error.
func MarshalYAML(v any) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	var buf bytesBuffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "marshaling YAML")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "marshaling YAML")
	}
	return buf.b, nil
}

// bytesBuffer is the minimal io.Writer the YAML encoder needs.
type bytesBuffer struct{ b []byte }

func (w *bytesBuffer) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

// AtomicWriteYAML writes v as YAML with 0644 permissions; the parent must exist.
func AtomicWriteYAML(path string, v any) error {
	data, err := MarshalYAML(v)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, 0o644)
}
