package fileutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/thoreinstein/nexus/internal/errors"
)

// CopyDir recursively copies src into dst, creating dst as needed.
// Symlinks inside src are followed so the copy is self-contained.
func CopyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.NewIOError(src, err)
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return errors.NewIOError(dst, err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		info, err := os.Stat(srcPath)
		if err != nil {
			return errors.NewIOError(srcPath, err)
		}
		if info.IsDir() {
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := CopyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

// CopyFile copies a single file, preserving its permission bits.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.NewIOError(src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.NewIOError(src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.NewIOError(filepath.Dir(dst), err)
	}
	// A symlink left at dst would redirect the write into its target
	if lst, err := os.Lstat(dst); err == nil && lst.Mode()&fs.ModeSymlink != 0 {
		if err := os.Remove(dst); err != nil {
			return errors.NewIOError(dst, err)
		}
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.NewIOError(dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.NewIOError(dst, err)
	}
	return errors.NewIOError(dst, out.Close())
}

// ReplaceDir replaces dst with a fresh copy of src.
func ReplaceDir(src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return errors.NewIOError(dst, err)
	}
	return CopyDir(src, dst)
}

// Link points dst at src with a symlink, replacing whatever is at dst.
// Where symlinks are unavailable (Windows without developer mode) it falls
// back to a copy.
func Link(src, dst string) error {
	if target, err := os.Readlink(dst); err == nil && target == src {
		return nil
	}
	if err := os.RemoveAll(dst); err != nil {
		return errors.NewIOError(dst, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.NewIOError(filepath.Dir(dst), err)
	}
	if err := os.Symlink(src, dst); err != nil {
		if runtime.GOOS == "windows" {
			return CopyDir(src, dst)
		}
		return errors.NewIOError(dst, err)
	}
	return nil
}

// IsSymlink reports whether path itself is a symbolic link.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}

// RemoveEmptyParents removes dir and its parents up to (not including) stop
// while they are empty.
func RemoveEmptyParents(dir, stop string) {
	stop = filepath.Clean(stop)
	for dir = filepath.Clean(dir); dir != stop && len(dir) > len(stop); dir = filepath.Dir(dir) {
		if err := os.Remove(dir); err != nil {
			return
		}
	}
}
