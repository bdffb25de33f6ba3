// Package git wraps the git binary for the shallow, sparse clones used when
// a remote skill cannot be fetched over plain HTTP.
package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/thoreinstein/nexus/internal/errors"
)

// ErrInvalidURL is returned for repository URLs git must not be handed.
var ErrInvalidURL = errors.New("invalid git URL")

var allowedSchemes = []string{"https://", "http://", "ssh://", "git://", "file://"}

// scpPattern matches user@host:path.git.
var scpPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:[A-Za-z0-9._/~-]+\.git$`)

// IsURL returns true if s looks like a git repository URL.
// It checks for:
//   - URLs containing "://" (e.g., https://, git://)
//   - URLs ending with ".git"
//   - SSH-style URLs starting with "git@"
func IsURL(s string) bool {
	return strings.Contains(s, "://") || strings.HasSuffix(s, ".git") || strings.HasPrefix(s, "git@")
}

// ValidateURL rejects anything git could interpret as an option or a
// transport helper.
func ValidateURL(u string) error {
	switch {
	case u == "":
		return errors.Wrap(ErrInvalidURL, "empty URL")
	case strings.HasPrefix(u, "-"):
		return errors.Wrapf(ErrInvalidURL, "%q looks like an option", u)
	case strings.Contains(u, "::"):
		return errors.Wrapf(ErrInvalidURL, "%q uses a transport helper", u)
	}
	for _, scheme := range allowedSchemes {
		if strings.HasPrefix(u, scheme) {
			return nil
		}
	}
	if scpPattern.MatchString(u) {
		return nil
	}
	return errors.Wrapf(ErrInvalidURL, "%q: unsupported scheme", u)
}

// run executes git in dir and returns stdout. Stderr is folded into the error.
func run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, errors.Wrapf(err, "git %s: %s", args[0], msg)
	}
	return stdout.Bytes(), nil
}

// SparseClone makes a depth-1 clone of url into dest without blobs or a
// checkout. ref selects a branch or tag; empty means the default branch.
// A partial clone is removed on failure.
func SparseClone(ctx context.Context, url, dest, ref string) error {
	if err := ValidateURL(url); err != nil {
		return err
	}
	args := []string{"clone", "--depth=1", "--filter=blob:none", "--no-checkout", "--quiet"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, "--", url, dest)

	if _, err := run(ctx, "", args...); err != nil {
		os.RemoveAll(dest)
		return err
	}
	return nil
}

// ListFiles returns every path in the HEAD tree of repo, slash separated.
// Only tree objects are needed, so it works on a blobless clone.
func ListFiles(ctx context.Context, repo string) ([]string, error) {
	out, err := run(ctx, repo, "ls-tree", "-r", "--name-only", "HEAD")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// SparseCheckout restricts repo to dirs and materializes them.
func SparseCheckout(ctx context.Context, repo string, dirs ...string) error {
	args := append([]string{"sparse-checkout", "set", "--no-cone"}, dirs...)
	if _, err := run(ctx, repo, args...); err != nil {
		return err
	}
	args = append([]string{"checkout", "HEAD", "--"}, dirs...)
	_, err := run(ctx, repo, args...)
	return err
}

// ValidateRemote checks that repoPath holds a .git directory.
func ValidateRemote(repoPath string) error {
	gitDir := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitDir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf("not a git repository: %s", repoPath)
		}
		return errors.Wrap(err, "checking git directory")
	}
	if !info.IsDir() {
		return errors.Newf(".git is not a directory: %s", gitDir)
	}
	return nil
}
