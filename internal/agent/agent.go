package agent

import (
	"context"

	"github.com/thoreinstein/nexus/internal/mcp"
	"github.com/thoreinstein/nexus/internal/skill"
)

// Agent is one coding tool's view of a project directory. Implementations
// are stateless; everything they read or write lives on disk.
type Agent interface {
	// ID returns the stable identifier stored in projects (claude, cursor...).
	ID() string

	// Label returns the display name.
	Label() string

	// Detect reports whether the tool has a footprint in dir.
	Detect(dir string) bool

	// SkillDirs returns the absolute skill directories for dir.
	SkillDirs(dir string) []string

	// ConfigPath returns the native MCP config file, or "" when the tool
	// has no writable config surface.
	ConfigPath(dir string) string

	// InstructionFile returns the instruction file name relative to the
	// project root.
	InstructionFile() string

	// WriteMCPConfig renders servers into the native config file and
	// returns the path written.
	WriteMCPConfig(ctx context.Context, dir string, servers map[string]*mcp.Server) (string, error)

	// DiscoverMCPServers reads servers back from the native config file.
	// Missing or unreadable files yield an empty map.
	DiscoverMCPServers(ctx context.Context, dir string) map[string]*mcp.Server

	// SyncSkills removes stale skill directories and writes the primary
	// document of every content pair. Names in local are never touched.
	SyncSkills(ctx context.Context, dir string, contents []skill.Content, selected, local []string) ([]string, error)

	// Cleanup removes this agent's footprint, keeping anything one of the
	// remaining agents still uses, and returns the paths it removed or rewrote.
	Cleanup(ctx context.Context, dir string, remaining []Agent) []string

	// CleanupPaths returns what Cleanup would touch without touching it.
	CleanupPaths(dir string, remaining []Agent) []string

	// Capabilities describes which surfaces the tool supports.
	Capabilities() Capabilities
}

// Capabilities describes the configuration surfaces of an agent.
type Capabilities struct {
	MCPConfig    bool
	Skills       bool
	Instructions bool

	// CopySkills is set for tools that do not follow symlinked skill
	// directories.
	CopySkills bool

	// Note is shown to the user, e.g. where configuration must be done by hand.
	Note string
}
