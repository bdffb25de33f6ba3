package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/mcp"
	"github.com/thoreinstein/nexus/internal/skill"
)

func mustLookup(t *testing.T, id string) Agent {
	t.Helper()
	a, err := Lookup(id)
	require.NoError(t, err)
	return a
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestLookup(t *testing.T) {
	a, err := Lookup("claude")
	require.NoError(t, err)
	assert.Equal(t, "Claude Code", a.Label())

	_, err = Lookup("nope")
	assert.True(t, errors.Is(err, errors.ErrUnknownAgent))
}

func TestAll_SortedAndComplete(t *testing.T) {
	ids := IDs()
	assert.IsNonDecreasing(t, ids)
	assert.Len(t, ids, 14)
	assert.Contains(t, ids, "warp")
}

func TestRegistry_RejectsDuplicatesAndUnsafeIDs(t *testing.T) {
	r, err := NewRegistry(mustLookup(t, "claude"))
	require.NoError(t, err)

	err = r.Register(mustLookup(t, "claude"))
	assert.True(t, errors.Is(err, ErrAgentAlreadyRegistered))

	err = r.Register(&variant{id: "../x"})
	assert.True(t, errors.Is(err, errors.ErrInvalidName))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		files map[string]string
		dirs  []string
		want  bool
	}{
		{name: "empty project", id: "claude", want: false},
		{name: "dedicated config", id: "claude", files: map[string]string{".mcp.json": "{}"}, want: true},
		{name: "skill dir", id: "cursor", dirs: []string{".cursor/skills"}, want: true},
		{name: "owned dir", id: "gemini", dirs: []string{".gemini"}, want: true},
		{name: "shared file without key", id: "opencode", files: map[string]string{"opencode.json": `{"theme": "x"}`}, want: false},
		{name: "shared file with key", id: "opencode", files: map[string]string{"opencode.json": `{"mcp": {}}`}, want: true},
		{name: "hub is not a marker", id: "zed", dirs: []string{".agents/skills"}, want: false},
		{name: "toml shared file", id: "codex", files: map[string]string{".codex/config.toml": "[mcp_servers.x]\ncommand = \"y\"\n"}, want: true},
		{name: "yaml shared file without key", id: "goose", files: map[string]string{".goose/config.yaml": "provider: openai\n"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for rel, content := range tt.files {
				writeFile(t, filepath.Join(dir, rel), content)
			}
			for _, rel := range tt.dirs {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, rel), 0o755))
			}
			assert.Equal(t, tt.want, mustLookup(t, tt.id).Detect(dir))
		})
	}

	assert.False(t, mustLookup(t, "claude").Detect(""))
}

func TestWriteMCPConfig_PreservesSharedContent(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "opencode.json")
	writeFile(t, path, "{\n  \"$schema\": \"https://opencode.ai/config.json\",\n  \"theme\": \"tokyonight\"\n}\n")

	servers := map[string]*mcp.Server{"fs": {Command: "mcp-fs"}}
	_, err := mustLookup(t, "opencode").WriteMCPConfig(ctx, dir, servers)
	require.NoError(t, err)

	got := readFile(t, path)
	assert.Contains(t, got, "\"$schema\": \"https://opencode.ai/config.json\",\n  \"theme\": \"tokyonight\",\n  \"mcp\": {")
	assert.Contains(t, got, `"type": "local"`)
}

func TestWriteMCPConfig_SharedMalformedIsNotClobbered(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".zed", "settings.json")
	writeFile(t, path, "{\n  // user comment\n  \"vim_mode\": true\n}")

	_, err := mustLookup(t, "zed").WriteMCPConfig(ctx, dir, map[string]*mcp.Server{"x": {Command: "y"}})
	assert.True(t, errors.Is(err, errors.ErrMalformedData))
	assert.Contains(t, readFile(t, path), "// user comment")
}

func TestWriteMCPConfig_DedicatedMalformedIsReplaced(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".mcp.json"), "{not json")

	path, err := mustLookup(t, "claude").WriteMCPConfig(ctx, dir, map[string]*mcp.Server{"x": {Command: "y"}})
	require.NoError(t, err)
	assert.Contains(t, readFile(t, path), `"mcpServers"`)
}

func TestWriteMCPConfig_NoSurface(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	warp := mustLookup(t, "warp")

	path, err := warp.WriteMCPConfig(ctx, dir, map[string]*mcp.Server{"x": {Command: "y"}})
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Empty(t, warp.DiscoverMCPServers(ctx, dir))
	assert.NotEmpty(t, warp.Capabilities().Note)
	assert.False(t, warp.Capabilities().MCPConfig)
}

func TestDiscoverMCPServers_Tolerant(t *testing.T) {
	ctx := testContext(t)
	claude := mustLookup(t, "claude")

	t.Run("missing file", func(t *testing.T) {
		assert.Empty(t, claude.DiscoverMCPServers(ctx, t.TempDir()))
	})

	t.Run("corrupt file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".mcp.json"), "{\"mcpServers\": ")
		assert.Empty(t, claude.DiscoverMCPServers(ctx, dir))
	})

	t.Run("skips self, unsafe and broken entries", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".mcp.json"), `{
  "mcpServers": {
    "nexus": {"command": "nexus", "args": ["mcp-serve"]},
    "..": {"command": "evil"},
    "broken": {"args": ["no command"]},
    "github": {"type": "stdio", "command": "gh-mcp"}
  }
}`)
		got := claude.DiscoverMCPServers(ctx, dir)
		require.Len(t, got, 1)
		assert.Equal(t, "gh-mcp", got["github"].Command)
	})
}

func TestDiscoverMCPServers_NormalizesForeignTags(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".cursor", "mcp.json"), `{"mcpServers": {"api": {"type": "streamable-http", "url": "https://x"}}}`)

	got := mustLookup(t, "cursor").DiscoverMCPServers(ctx, dir)
	require.Contains(t, got, "api")
	assert.Equal(t, mcp.TransportHTTP, got["api"].Type)
}

func TestSyncSkills_RemovesStale(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	claude := mustLookup(t, "claude")
	skillDir := claude.SkillDirs(dir)[0]

	for _, name := range []string{"a", "b", "mine", ".hidden"} {
		require.NoError(t, os.MkdirAll(filepath.Join(skillDir, name), 0o755))
	}
	writeFile(t, filepath.Join(skillDir, "README.md"), "notes")

	contents := []skill.Content{{Name: "b", Text: "# b\n"}}
	written, err := claude.SyncSkills(ctx, dir, contents, []string{"b"}, []string{"mine"})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(skillDir, "b", "SKILL.md")}, written)
	assert.NoDirExists(t, filepath.Join(skillDir, "a"))
	assert.DirExists(t, filepath.Join(skillDir, "mine"))
	assert.DirExists(t, filepath.Join(skillDir, ".hidden"))
	assert.FileExists(t, filepath.Join(skillDir, "README.md"))
	assert.Equal(t, "# b\n", readFile(t, filepath.Join(skillDir, "b", "SKILL.md")))
}

func TestSyncSkills_NeverWritesLocal(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	claude := mustLookup(t, "claude")
	local := filepath.Join(claude.SkillDirs(dir)[0], "mine", "SKILL.md")
	writeFile(t, local, "user text")

	_, err := claude.SyncSkills(ctx, dir, []skill.Content{{Name: "mine", Text: "global"}}, []string{"mine"}, []string{"mine"})
	require.NoError(t, err)
	assert.Equal(t, "user text", readFile(t, local))
}

func TestCleanup_DedicatedAgentKeepsOthers(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	servers := map[string]*mcp.Server{"x": {Command: "y"}}
	claude, cursor := mustLookup(t, "claude"), mustLookup(t, "cursor")

	for _, a := range []Agent{claude, cursor} {
		_, err := a.WriteMCPConfig(ctx, dir, servers)
		require.NoError(t, err)
		_, err = a.SyncSkills(ctx, dir, []skill.Content{{Name: "s", Text: "t"}}, []string{"s"}, nil)
		require.NoError(t, err)
	}

	preview := cursor.CleanupPaths(dir, []Agent{claude})
	assert.ElementsMatch(t, []string{cursor.ConfigPath(dir), cursor.SkillDirs(dir)[0]}, preview)
	assert.FileExists(t, cursor.ConfigPath(dir), "preview must not mutate")

	removed := cursor.Cleanup(ctx, dir, []Agent{claude})
	assert.ElementsMatch(t, preview, removed)
	assert.NoDirExists(t, filepath.Join(dir, ".cursor"))
	assert.FileExists(t, claude.ConfigPath(dir))
	assert.DirExists(t, claude.SkillDirs(dir)[0])
	assert.False(t, cursor.Detect(dir))
}

func TestCleanup_SharedHubSurvives(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	servers := map[string]*mcp.Server{"x": {Command: "y"}}
	zed, amp := mustLookup(t, "zed"), mustLookup(t, "amp")

	writeFile(t, zed.ConfigPath(dir), "{\n  \"vim_mode\": true\n}\n")
	for _, a := range []Agent{zed, amp} {
		_, err := a.WriteMCPConfig(ctx, dir, servers)
		require.NoError(t, err)
		_, err = a.SyncSkills(ctx, dir, []skill.Content{{Name: "s", Text: "t"}}, []string{"s"}, nil)
		require.NoError(t, err)
	}

	removed := zed.Cleanup(ctx, dir, []Agent{amp})
	assert.Equal(t, []string{zed.ConfigPath(dir)}, removed)
	assert.Equal(t, "{\n  \"vim_mode\": true\n}\n", readFile(t, zed.ConfigPath(dir)))
	assert.FileExists(t, filepath.Join(dir, ".agents", "skills", "s", "SKILL.md"))
	assert.FileExists(t, amp.ConfigPath(dir))
	assert.False(t, zed.Detect(dir))

	removed = amp.Cleanup(ctx, dir, nil)
	assert.Equal(t, []string{amp.ConfigPath(dir)}, removed)
	assert.NoDirExists(t, filepath.Join(dir, ".amp"))
	assert.DirExists(t, filepath.Join(dir, ".agents", "skills"))
}

func TestCleanup_OwnedDirectory(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	gemini := mustLookup(t, "gemini")

	_, err := gemini.WriteMCPConfig(ctx, dir, map[string]*mcp.Server{"x": {Command: "y"}})
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, ".gemini", "commands", "c.toml"), "x")

	removed := gemini.Cleanup(ctx, dir, nil)
	assert.Equal(t, []string{filepath.Join(dir, ".gemini")}, removed)
	assert.NoDirExists(t, filepath.Join(dir, ".gemini"))
	assert.False(t, gemini.Detect(dir))
}

func TestCleanup_SharedTOMLKeepsOtherKeys(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	codex := mustLookup(t, "codex")
	writeFile(t, codex.ConfigPath(dir), "model = \"o3\"\n")

	_, err := codex.WriteMCPConfig(ctx, dir, map[string]*mcp.Server{"x": {Command: "y"}})
	require.NoError(t, err)
	require.True(t, codex.Detect(dir))

	codex.Cleanup(ctx, dir, nil)
	got := readFile(t, codex.ConfigPath(dir))
	assert.Contains(t, got, "model")
	assert.Contains(t, got, "o3")
	assert.NotContains(t, got, "mcp_servers")
}
