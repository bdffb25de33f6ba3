package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/thoreinstein/nexus/internal/errors"
)

func TestReadFileWithLimit(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name    string
		size    int64
		wantErr bool
	}{
		{"small file", 100, false},
		{"exact limit", MaxFileSize, false},
		{"too large", MaxFileSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tempDir, tt.name)
			f, err := os.Create(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.Truncate(tt.size); err != nil {
				t.Fatal(err)
			}
			f.Close()

			_, err = ReadFileWithLimit(path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadFileWithLimit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrFileTooLarge) {
				t.Errorf("ReadFileWithLimit() error = %v, want ErrFileTooLarge", err)
			}
		})
	}
}

func TestReadOptional(t *testing.T) {
	dir := t.TempDir()

	data, err := ReadOptional(filepath.Join(dir, "missing"))
	if err != nil || data != nil {
		t.Errorf("ReadOptional(missing) = %q, %v; want nil, nil", data, err)
	}

	path := filepath.Join(dir, "present")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err = ReadOptional(path)
	if err != nil || string(data) != "x" {
		t.Errorf("ReadOptional(present) = %q, %v", data, err)
	}
}

func TestExistsAndIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if !Exists(file) || !IsFile(file) || IsDir(file) {
		t.Error("file predicates wrong for regular file")
	}
	if !IsDir(dir) || IsFile(dir) {
		t.Error("directory predicates wrong for directory")
	}
	if Exists("") || IsDir("") || Exists(filepath.Join(dir, "nope")) {
		t.Error("missing paths should not exist")
	}
}
