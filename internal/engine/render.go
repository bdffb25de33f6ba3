package engine

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/thoreinstein/nexus/internal/agent"
	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/instructions"
	"github.com/thoreinstein/nexus/internal/logging"
	"github.com/thoreinstein/nexus/internal/mcp"
	"github.com/thoreinstein/nexus/internal/paths"
	"github.com/thoreinstein/nexus/internal/project"
	"github.com/thoreinstein/nexus/internal/skill"
	"github.com/thoreinstein/nexus/pkg/fileutil"
)

type renderOutput struct {
	written []string
	failed  []string
}

// canonicalServers is the self entry plus every registry entry the project
// selects.
func (e *Engine) canonicalServers(ctx context.Context, p *project.Project) map[string]*mcp.Server {
	servers := e.servers.LoadAll(ctx, p.MCPServers)
	servers[mcp.SelfServerName] = mcp.SelfServer(e.self, p.Name)
	return servers
}

// render writes p's configuration into dir, which is the project directory
// for a sync and a scratch copy for a drift check. Per-agent failures are
// logged and collected; the remaining agents still render.
func (e *Engine) render(ctx context.Context, p *project.Project, dir string, mode skill.LinkMode) *renderOutput {
	logger := logging.FromContext(ctx)
	out := &renderOutput{}

	agents := e.resolve(ctx, p.Agents)
	servers := e.canonicalServers(ctx, p)
	contents, err := e.hub.Load(ctx, p.Skills)
	if err != nil {
		logger.Warn("loading skills", "error", err)
	}

	var agentDirs []string
	for _, a := range agents {
		agentDirs = append(agentDirs, a.SkillDirs(dir)...)
	}
	// the hub must be complete before any agent reads from it
	hubWritten, err := e.hub.MaterializeHub(ctx, dir, p.Skills, p.LocalSkills, agentDirs)
	if err != nil {
		logger.Warn("materializing project hub", "error", err)
	}
	out.written = append(out.written, hubWritten...)

	hubDir := paths.ProjectHub(dir)
	for _, a := range agents {
		written, err := e.renderAgent(ctx, a, p, dir, hubDir, mode, contents, servers)
		if err != nil {
			logger.Warn("agent render failed", "agent", a.ID(), "error", err)
			out.failed = append(out.failed, a.ID())
			continue
		}
		out.written = append(out.written, written...)
	}

	out.written = append(out.written, e.writeInstructions(ctx, p, dir, agents)...)
	out.written = uniqueSorted(out.written)
	return out
}

func (e *Engine) renderAgent(
	ctx context.Context,
	a agent.Agent,
	p *project.Project,
	dir, hubDir string,
	mode skill.LinkMode,
	contents []skill.Content,
	servers map[string]*mcp.Server,
) ([]string, error) {
	if a.Capabilities().CopySkills {
		mode = skill.LinkCopy
	}

	var written []string
	for _, d := range a.SkillDirs(dir) {
		w, err := skill.Populate(ctx, hubDir, d, p.Skills, mode)
		if err != nil {
			return nil, errors.Wrapf(err, "populating %s", d)
		}
		written = append(written, w...)
	}

	w, err := a.SyncSkills(ctx, dir, contents, p.Skills, p.LocalSkills)
	if err != nil {
		return nil, errors.Wrap(err, "syncing skills")
	}
	written = append(written, w...)

	path, err := a.WriteMCPConfig(ctx, dir, servers)
	if err != nil {
		return nil, errors.Wrap(err, "writing MCP config")
	}
	if path != "" {
		written = append(written, path)
	}
	return written, nil
}

// instructionFiles returns the distinct instruction filenames of agents in
// agent order.
func instructionFiles(agents []agent.Agent) []string {
	var files []string
	seen := map[string]bool{}
	for _, a := range agents {
		f := a.InstructionFile()
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		files = append(files, f)
	}
	return files
}

// writeInstructions strips legacy blocks from every instruction file and
// sets its rules block. In unified mode with more than one file, every file
// is rewritten as the same user body plus the unified rules.
func (e *Engine) writeInstructions(ctx context.Context, p *project.Project, dir string, agents []agent.Agent) []string {
	logger := logging.FromContext(ctx)
	files := instructionFiles(agents)

	unified := false
	var body string
	if p.Unified() && len(files) > 1 {
		body, unified = unifiedBody(ctx, dir, files)
	}

	var written []string
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		rulesBody := e.rules.Render(ctx, p.RulesFor(f))

		existing, err := fileutil.ReadOptional(path)
		if err != nil {
			logger.Warn("instruction file unreadable", "path", path, "error", err)
			continue
		}

		var next string
		switch {
		case unified:
			next = instructions.Render(body, rulesBody)
		case existing == nil && rulesBody == "":
			continue
		default:
			next = instructions.Refresh(string(existing), rulesBody)
		}
		if err := writeText(path, string(existing), next); err != nil {
			logger.Warn("writing instruction file", "path", path, "error", err)
			continue
		}
		if next != "" {
			written = append(written, path)
		}
	}
	return written
}

// unifiedBody returns the user body of the first instruction file, in agent
// order, that exists on disk. It reports false when none of files exists.
func unifiedBody(ctx context.Context, dir string, files []string) (string, bool) {
	source := ""
	for _, f := range files {
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(f)))
		if err == nil && info.Mode().IsRegular() {
			source = f
			break
		}
	}
	if source == "" {
		return "", false
	}
	data, err := fileutil.ReadOptional(filepath.Join(dir, filepath.FromSlash(source)))
	if err != nil || data == nil {
		logging.FromContext(ctx).Warn("instruction source unreadable", "file", source, "error", err)
		return "", false
	}
	logging.FromContext(ctx).Debug("replicating instructions", "source", source, "targets", len(files)-1)
	return instructions.UserBody(string(data)), true
}

// writeText writes next when it differs from existing and removes the file
// when next is empty.
func writeText(path, existing, next string) error {
	switch {
	case next == existing:
		return nil
	case next == "":
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.NewIOError(path, err)
		}
		return nil
	default:
		return fileutil.WriteFile(path, []byte(next))
	}
}

func uniqueSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	sort.Strings(in)
	out := in[:1]
	for _, s := range in[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
