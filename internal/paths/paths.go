package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/nexus/internal/errors"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "nexus"

// Fixed names shared by every component.
const (
	// SkillFilename is the primary document of every skill directory.
	SkillFilename = "SKILL.md"

	// ProjectHubDir is the project-local canonical skill directory,
	// relative to the project root.
	ProjectHubDir = ".agents/skills"

	// legacySkillsDir is the historical global skill location relative to home.
	legacySkillsDir = ".nexus/skills"
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// Root is the explicit configuration root every path-resolving function works
// from. Tests construct one over t.TempDir() instead of mutating the
// environment.
type Root struct {
	// Home is the user's home directory; the legacy skill location lives here.
	Home string

	// ConfigDir holds config.yaml.
	ConfigDir string

	// DataDir holds the canonical registry, skills, rules and the project database.
	DataDir string
}

// DefaultRoot resolves a Root from the current user's home and XDG directories.
func DefaultRoot() (Root, error) {
	home, err := ResolveHome()
	if err != nil {
		return Root{}, err
	}
	return Root{
		Home:      home,
		ConfigDir: filepath.Join(xdg.ConfigHome, AppName),
		DataDir:   filepath.Join(xdg.DataHome, AppName),
	}, nil
}

// NewRoot builds a Root with every location beneath base. Intended for tests
// and for the `home` config override.
func NewRoot(base string) Root {
	return Root{
		Home:      base,
		ConfigDir: filepath.Join(base, ".config", AppName),
		DataDir:   filepath.Join(base, ".local", "share", AppName),
	}
}

// RegistryDir returns the canonical MCP server registry directory.
func (r Root) RegistryDir() string {
	return filepath.Join(r.DataDir, "mcp")
}

// SkillsDir returns the canonical global skill location.
func (r Root) SkillsDir() string {
	return filepath.Join(r.DataDir, "skills")
}

// LegacySkillsDir returns the historical global skill location.
// It is read but never written.
func (r Root) LegacySkillsDir() string {
	if r.Home == "" {
		return ""
	}
	return filepath.Join(r.Home, legacySkillsDir)
}

// RulesDir returns the rule store directory.
func (r Root) RulesDir() string {
	return filepath.Join(r.DataDir, "rules")
}

// ProjectsDB returns the path of the project database.
func (r Root) ProjectsDB() string {
	return filepath.Join(r.DataDir, "projects.db")
}

// ReposCacheDir returns the directory for shallow clones used by remote skill fetches.
func (r Root) ReposCacheDir() string {
	return filepath.Join(r.DataDir, "repos")
}

// ConfigFile returns the path of config.yaml.
func (r Root) ConfigFile() string {
	return filepath.Join(r.ConfigDir, "config.yaml")
}

// ProjectHub returns the project hub directory for a project root.
// Returns an empty string for an empty projectDir.
func ProjectHub(projectDir string) string {
	if projectDir == "" {
		return ""
	}
	return filepath.Join(projectDir, filepath.FromSlash(ProjectHubDir))
}

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
func DataHome() string {
	return xdg.DataHome
}
