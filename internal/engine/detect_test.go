package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/nexus/internal/project"
)

const discoveredMCP = `{
  "mcpServers": {
    "fs": {"command": "npx", "args": ["-y", "@modelcontextprotocol/server-filesystem"]},
    "nexus": {"command": "/old/nexus", "args": ["mcp-serve"]}
  }
}
`

func TestAutodetect_ReadOnly(t *testing.T) {
	f := newFixture(t)
	f.globalSkill("shared")
	f.file(".mcp.json", discoveredMCP)
	f.file(".cursor/skills/shared/SKILL.md", "copy of a global")
	f.file(".claude/skills/mine/SKILL.md", "local")
	f.file(".claude/skills/.hidden/SKILL.md", "ignored")
	f.file(".claude/skills/notes.txt", "ignored")
	p := &project.Project{Name: "demo", Directory: f.dir}

	before := snapshot(t, f.dir)
	d, err := f.engine.Autodetect(f.ctx, p)
	require.NoError(t, err)
	assert.Equal(t, before, snapshot(t, f.dir))

	assert.Equal(t, []string{"claude", "cursor"}, d.Agents)
	assert.Equal(t, []string{"shared"}, d.Skills)
	assert.Equal(t, []string{"mine"}, d.LocalSkills)
	require.Contains(t, d.Servers, "fs")
	assert.NotContains(t, d.Servers, "nexus", "the self entry is never discovered")
	assert.False(t, f.servers.Exists("fs"), "autodetect alone persists nothing")
}

func TestSync_MergesDetection(t *testing.T) {
	f := newFixture(t)
	f.file(".mcp.json", discoveredMCP)
	f.file(".claude/skills/mine/SKILL.md", "local")
	f.project(&project.Project{Skills: nil, Agents: []string{"gemini"}})

	res, err := f.engine.Sync(f.ctx, "demo")
	require.NoError(t, err)
	assert.Empty(t, res.Failed)

	saved, err := f.store.Get(f.ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, []string{"claude", "gemini"}, saved.Agents)
	assert.Equal(t, []string{"mine"}, saved.LocalSkills)
	assert.Empty(t, saved.Skills, "local skills are never promoted by autodetect")
	assert.Equal(t, []string{"fs"}, saved.MCPServers)

	s, err := f.servers.Get("fs")
	require.NoError(t, err)
	assert.Equal(t, "npx", s.Command)
	assert.Contains(t, f.read(".gemini/settings.json"), "server-filesystem")
	assert.FileExists(t, filepath.Join(f.dir, ".agents", "skills", "mine", "SKILL.md"))
}

func TestSync_KeepsUserSelections(t *testing.T) {
	f := newFixture(t)
	f.globalSkill("a")
	f.server("github")
	f.project(&project.Project{
		Skills:     []string{"a"},
		MCPServers: []string{"github"},
		Agents:     []string{"claude"},
	})

	_, err := f.engine.Sync(f.ctx, "demo")
	require.NoError(t, err)
	p, d, err := f.engine.AutodetectOnly(f.ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, p.Skills)
	assert.Equal(t, []string{"github"}, p.MCPServers)
	assert.Equal(t, []string{"claude"}, p.Agents)
	assert.Contains(t, d.Servers, "github")
}

func TestMerge_LocalAndGlobalStayApart(t *testing.T) {
	f := newFixture(t)
	p := &project.Project{Name: "demo", Skills: []string{"x"}, LocalSkills: []string{"y"}}
	changed := f.engine.merge(f.ctx, p, &Detection{
		Skills:      []string{"y"},
		LocalSkills: []string{"x", "z"},
	})
	assert.True(t, changed)
	assert.Equal(t, []string{"x"}, p.Skills)
	assert.Equal(t, []string{"y", "z"}, p.LocalSkills)

	assert.False(t, f.engine.merge(f.ctx, p, &Detection{}))
}
