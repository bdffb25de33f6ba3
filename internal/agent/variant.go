package agent

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/logging"
	"github.com/thoreinstein/nexus/internal/mcp"
	"github.com/thoreinstein/nexus/internal/paths"
	"github.com/thoreinstein/nexus/internal/skill"
	"github.com/thoreinstein/nexus/pkg/fileutil"
)

// variant is the single Agent implementation, configured per tool by a
// table entry in variants.go. All paths are relative to the project root
// and use forward slashes.
type variant struct {
	id    string
	label string

	// configFile is the native MCP config; "" when the tool has none.
	configFile string

	// shared marks config files that also hold user settings. Only the
	// codec's managed key is written or removed.
	shared bool

	// ownedDir is removed as a whole on cleanup and counts as a marker.
	ownedDir string

	skillDirs       []string
	instructionFile string
	codec           codec
	copySkills      bool
	note            string
}

var _ Agent = (*variant)(nil)

func (v *variant) ID() string              { return v.id }
func (v *variant) Label() string           { return v.label }
func (v *variant) InstructionFile() string { return v.instructionFile }

func (v *variant) Capabilities() Capabilities {
	return Capabilities{
		MCPConfig:    v.codec != nil,
		Skills:       len(v.skillDirs) > 0,
		Instructions: v.instructionFile != "",
		CopySkills:   v.copySkills,
		Note:         v.note,
	}
}

func join(dir, rel string) string {
	return filepath.Join(dir, filepath.FromSlash(rel))
}

func (v *variant) ConfigPath(dir string) string {
	if v.configFile == "" || v.codec == nil {
		return ""
	}
	return join(dir, v.configFile)
}

func (v *variant) SkillDirs(dir string) []string {
	out := make([]string, 0, len(v.skillDirs))
	for _, rel := range v.skillDirs {
		out = append(out, join(dir, rel))
	}
	return out
}

// Detect checks the owned directory, a dedicated config file and any skill
// directory other than the project hub. A shared config file counts only
// when it carries the managed key, since the file alone may belong to the
// user.
func (v *variant) Detect(dir string) bool {
	if dir == "" {
		return false
	}
	if v.ownedDir != "" && fileutil.IsDir(join(dir, v.ownedDir)) {
		return true
	}
	if cfg := v.ConfigPath(dir); cfg != "" {
		if !v.shared && fileutil.IsFile(cfg) {
			return true
		}
		if v.shared {
			if data, err := fileutil.ReadOptional(cfg); err == nil && data != nil && v.codec.contains(data) {
				return true
			}
		}
	}
	hub := paths.ProjectHub(dir)
	for _, d := range v.SkillDirs(dir) {
		if d != hub && fileutil.IsDir(d) {
			return true
		}
	}
	return false
}

func (v *variant) WriteMCPConfig(ctx context.Context, dir string, servers map[string]*mcp.Server) (string, error) {
	path := v.ConfigPath(dir)
	if path == "" {
		return "", nil
	}
	logger := logging.FromContext(ctx).With("agent", v.id)

	existing, err := fileutil.ReadOptional(path)
	if err != nil {
		return "", err
	}

	data, err := v.codec.encode(existing, servers)
	if err != nil && !v.shared && errors.Is(err, errors.ErrMalformedData) {
		// a dedicated file holds nothing but the managed section
		logger.Debug("replacing unreadable config", "path", path, "error", err)
		data, err = v.codec.encode(nil, servers)
	}
	if err != nil {
		return "", errors.Wrapf(err, "rendering %s", path)
	}

	if existing != nil && string(existing) == string(data) {
		logger.Log(ctx, logging.LevelTrace, "config unchanged", "path", path)
		return path, nil
	}
	if err := fileutil.WriteFile(path, data); err != nil {
		return "", err
	}
	logger.Debug("wrote MCP config", "path", path, "servers", len(servers))
	return path, nil
}

func (v *variant) DiscoverMCPServers(ctx context.Context, dir string) map[string]*mcp.Server {
	found := map[string]*mcp.Server{}
	path := v.ConfigPath(dir)
	if path == "" {
		return found
	}
	logger := logging.FromContext(ctx).With("agent", v.id, "path", path)

	data, err := fileutil.ReadOptional(path)
	if err != nil {
		logger.Debug("config unreadable", "error", err)
		return found
	}
	if data == nil {
		return found
	}

	servers, err := v.codec.decode(data)
	if err != nil {
		logger.Debug("skipping unreadable servers", "error", err)
	}
	for name, s := range servers {
		if name == mcp.SelfServerName || !fileutil.SafeName(name) {
			continue
		}
		found[name] = s
	}
	return found
}

func (v *variant) SyncSkills(ctx context.Context, dir string, contents []skill.Content, selected, local []string) ([]string, error) {
	logger := logging.FromContext(ctx).With("agent", v.id)
	keep := make(map[string]bool, len(selected)+len(local))
	for _, n := range selected {
		keep[n] = true
	}
	for _, n := range local {
		keep[n] = true
	}

	var written []string
	for _, skillDir := range v.SkillDirs(dir) {
		if err := removeStale(skillDir, keep); err != nil {
			return written, err
		}
		for _, c := range contents {
			if !fileutil.SafeName(c.Name) || slices.Contains(local, c.Name) {
				continue
			}
			path := filepath.Join(skillDir, c.Name, paths.SkillFilename)
			if err := fileutil.WriteFile(path, []byte(c.Text)); err != nil {
				return written, err
			}
			written = append(written, path)
		}
		logger.Debug("synced skills", "dir", skillDir, "count", len(contents))
	}
	return written, nil
}

// removeStale deletes skill subdirectories (or links to them) whose names
// are safe and not kept. Hidden entries and plain files are left alone.
func removeStale(skillDir string, keep map[string]bool) error {
	entries, err := os.ReadDir(skillDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewIOError(skillDir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || !fileutil.SafeName(name) || keep[name] {
			continue
		}
		p := filepath.Join(skillDir, name)
		if !e.IsDir() && e.Type()&os.ModeSymlink == 0 {
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			return errors.NewIOError(p, err)
		}
	}
	return nil
}

type cleanupAction int

const (
	removeTree cleanupAction = iota
	removeFile
	stripConfig
)

type cleanupStep struct {
	path   string
	action cleanupAction
}

// cleanupPlan lists what removing this agent touches. Skill directories
// another remaining agent uses, and the project hub, are kept.
func (v *variant) cleanupPlan(dir string, remaining []Agent) []cleanupStep {
	if dir == "" {
		return nil
	}
	var steps []cleanupStep
	var owned string
	if v.ownedDir != "" {
		owned = join(dir, v.ownedDir)
		if fileutil.Exists(owned) {
			steps = append(steps, cleanupStep{owned, removeTree})
		}
	}
	inOwned := func(p string) bool {
		return owned != "" && (p == owned || strings.HasPrefix(p, owned+string(filepath.Separator)))
	}

	if cfg := v.ConfigPath(dir); cfg != "" && !inOwned(cfg) && fileutil.IsFile(cfg) {
		action := removeFile
		if v.shared {
			action = stripConfig
		}
		steps = append(steps, cleanupStep{cfg, action})
	}

	inUse := map[string]bool{paths.ProjectHub(dir): true}
	for _, other := range remaining {
		if other == nil || other.ID() == v.id {
			continue
		}
		for _, d := range other.SkillDirs(dir) {
			inUse[d] = true
		}
	}
	for _, d := range v.SkillDirs(dir) {
		if inUse[d] || inOwned(d) || !fileutil.Exists(d) {
			continue
		}
		steps = append(steps, cleanupStep{d, removeTree})
	}
	return steps
}

func (v *variant) CleanupPaths(dir string, remaining []Agent) []string {
	steps := v.cleanupPlan(dir, remaining)
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.path)
	}
	return out
}

func (v *variant) Cleanup(ctx context.Context, dir string, remaining []Agent) []string {
	logger := logging.FromContext(ctx).With("agent", v.id)
	var removed []string
	for _, step := range v.cleanupPlan(dir, remaining) {
		if err := v.apply(step); err != nil {
			logger.Warn("cleanup failed", "path", step.path, "error", err)
			continue
		}
		removed = append(removed, step.path)
		fileutil.RemoveEmptyParents(filepath.Dir(step.path), dir)
	}
	return removed
}

func (v *variant) apply(step cleanupStep) error {
	switch step.action {
	case removeTree:
		if err := os.RemoveAll(step.path); err != nil {
			return errors.NewIOError(step.path, err)
		}
	case removeFile:
		if err := os.Remove(step.path); err != nil && !os.IsNotExist(err) {
			return errors.NewIOError(step.path, err)
		}
	case stripConfig:
		existing, err := fileutil.ReadOptional(step.path)
		if err != nil || existing == nil {
			return err
		}
		rest, empty, err := v.codec.strip(existing)
		if err != nil {
			return err
		}
		if empty {
			if err := os.Remove(step.path); err != nil && !os.IsNotExist(err) {
				return errors.NewIOError(step.path, err)
			}
			return nil
		}
		return fileutil.WriteFile(step.path, rest)
	}
	return nil
}
