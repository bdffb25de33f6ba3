package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://github.com/user/repo.git", false},
		{"http", "http://github.com/user/repo.git", false},
		{"ssh", "ssh://git@github.com/user/repo.git", false},
		{"git", "git://github.com/user/repo.git", false},
		{"file", "file:///path/to/repo.git", false},
		{"scp-like", "git@github.com:user/repo.git", false},
		{"scp-like user", "user@host.com:path/to/repo.git", false},

		{"empty", "", true},
		{"argument injection", "-oProxyCommand=touch /tmp/pwned", true},
		{"ext protocol", "ext::sh -c touch% /tmp/pwned", true},
		{"unknown scheme", "ftp://github.com/user/repo.git", true},
		{"missing scheme", "github.com/user/repo.git", true},
		{"scp-like missing git suffix", "git@github.com:user/repo", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	if !IsURL("https://github.com/user/repo.git") {
		t.Error("expected true for valid URL")
	}
	if IsURL("owner/repo") {
		t.Error("expected false for a bare owner/repo")
	}
}

func TestValidateRemote(t *testing.T) {
	tmpDir := t.TempDir()

	if err := ValidateRemote(filepath.Join(tmpDir, "nonexistent")); err == nil {
		t.Error("expected error for nonexistent path, got nil")
	}
	if err := ValidateRemote(tmpDir); err == nil {
		t.Error("expected error for non-git directory, got nil")
	}
	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := ValidateRemote(tmpDir); err != nil {
		t.Errorf("expected nil error for valid git directory, got %v", err)
	}
}

func TestSparseClone_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	ctx := context.Background()
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "source")
	dest := filepath.Join(tmpDir, "dest")
	createTestRepo(t, source, map[string]string{
		"README.md":              "# Test Repo",
		"skills/review/SKILL.md": "# review",
		"skills/other/SKILL.md":  "# other",
	})

	if err := SparseClone(ctx, "file://"+source, dest, ""); err != nil {
		t.Fatalf("SparseClone() error = %v", err)
	}
	if err := ValidateRemote(dest); err != nil {
		t.Errorf("cloned directory is not a valid git repo: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "README.md")); !os.IsNotExist(err) {
		t.Errorf("clone should have no checkout, stat err = %v", err)
	}

	files, err := ListFiles(ctx, dest)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(files) != 3 {
		t.Errorf("ListFiles() = %v, want 3 files", files)
	}

	if err := SparseCheckout(ctx, dest, "skills/review"); err != nil {
		t.Fatalf("SparseCheckout() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dest, "skills", "review", "SKILL.md"))
	if err != nil || string(data) != "# review" {
		t.Errorf("checked out SKILL.md = %q, %v", data, err)
	}
	if _, err := os.Stat(filepath.Join(dest, "skills", "other")); !os.IsNotExist(err) {
		t.Errorf("paths outside the sparse set should be absent, stat err = %v", err)
	}
}

func TestSparseClone_RejectsBadURL(t *testing.T) {
	if err := SparseClone(context.Background(), "--upload-pack=evil", t.TempDir(), ""); err == nil {
		t.Error("expected an error for an option-like URL")
	}
}

// createTestRepo initializes a git repository at dir holding files and one commit.
func createTestRepo(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	runGit(t, dir, "init", "--quiet")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")

	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "--quiet", "-m", "initial commit")
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %s failed: %v\nOutput: %s", strings.Join(args, " "), err, out)
	}
}
