package engine

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/nexus/internal/agent"
	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/logging"
	"github.com/thoreinstein/nexus/internal/project"
	"github.com/thoreinstein/nexus/internal/skill"
	"github.com/thoreinstein/nexus/pkg/fileutil"
)

// DriftKind classifies one drifted file.
type DriftKind string

const (
	// DriftMissing means a file sync would write is absent.
	DriftMissing DriftKind = "missing"
	// DriftModified means the file differs from what sync would write.
	DriftModified DriftKind = "modified"
	// DriftStale means a skill directory is on disk but no longer selected.
	DriftStale DriftKind = "stale"
	// DriftUnreadable means the file exists but could not be read.
	DriftUnreadable DriftKind = "unreadable"
)

// DriftedFile is one difference between disk and a fresh render. Expected
// and Actual are only set for modified files.
type DriftedFile struct {
	Path     string    `json:"path"`
	Kind     DriftKind `json:"kind"`
	Expected string    `json:"expected,omitempty"`
	Actual   string    `json:"actual,omitempty"`
}

// AgentDrift groups drifted files by agent.
type AgentDrift struct {
	Agent string        `json:"agent"`
	Files []DriftedFile `json:"files"`
}

// DriftReport is the result of CheckDrift.
type DriftReport struct {
	Project string       `json:"project"`
	Drifted bool         `json:"drifted"`
	Agents  []AgentDrift `json:"agents"`
}

// maxWalkDepth bounds recursion through skill directories.
const maxWalkDepth = 16

// CheckDrift compares the named project's files with what a sync would
// write, without touching the project directory.
func (e *Engine) CheckDrift(ctx context.Context, name string) (*DriftReport, error) {
	p, err := e.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.Drift(ctx, p)
}

// Drift renders p into a scratch directory with the same per-agent code a
// sync uses and diffs the result against p's directory file by file. Local
// skills are never reported.
func (e *Engine) Drift(ctx context.Context, p *project.Project) (*DriftReport, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := requireDirectory(p); err != nil {
		return nil, err
	}
	ctx, _ = startRun(ctx, p)
	logger := logging.FromContext(ctx)

	scratch, err := os.MkdirTemp("", "nexus-drift-*")
	if err != nil {
		return nil, errors.NewIOError(os.TempDir(), err)
	}
	defer os.RemoveAll(scratch)

	agents := e.resolve(ctx, p.Agents)
	seeded := seed(ctx, p.Directory, scratch, agents)

	// copies everywhere: only file content matters for the comparison
	out := e.render(ctx, p, scratch, skill.LinkCopy)
	failed := map[string]bool{}
	for _, id := range out.failed {
		failed[id] = true
	}

	d := differ{
		disk:     p.Directory,
		scratch:  scratch,
		selected: toSet(p.Skills),
		local:    toSet(p.LocalSkills),
		seeded:   seeded,
	}
	report := &DriftReport{Project: p.Name}
	for _, a := range agents {
		if failed[a.ID()] {
			logger.Warn("drift skipped for agent that failed to render", "agent", a.ID())
			continue
		}
		files := d.agent(a)
		if len(files) > 0 {
			report.Drifted = true
		}
		report.Agents = append(report.Agents, AgentDrift{Agent: a.ID(), Files: files})
	}
	logger.Debug("drift check finished", "drifted", report.Drifted)
	return report, nil
}

// seed copies every file a render edits in place, so shared config files
// and instruction files keep their user-owned parts in the scratch copy. It
// returns the relative paths it copied; a file that cannot be copied is
// left out and surfaces as unreadable in the diff.
func seed(ctx context.Context, dir, scratch string, agents []agent.Agent) map[string]bool {
	var rels []string
	for _, a := range agents {
		if cfg := a.ConfigPath(dir); cfg != "" {
			if rel, err := filepath.Rel(dir, cfg); err == nil {
				rels = append(rels, rel)
			}
		}
		if f := a.InstructionFile(); f != "" {
			rels = append(rels, filepath.FromSlash(f))
		}
	}
	seeded := map[string]bool{}
	for _, rel := range uniqueSorted(rels) {
		src := filepath.Join(dir, rel)
		if !fileutil.IsFile(src) {
			continue
		}
		if err := fileutil.CopyFile(src, filepath.Join(scratch, rel)); err != nil {
			logging.FromContext(ctx).Debug("seeding scratch copy", "file", rel, "error", err)
			continue
		}
		seeded[rel] = true
	}
	return seeded
}

type differ struct {
	disk     string
	scratch  string
	selected map[string]bool
	local    map[string]bool
	// seeded holds the files copied from disk before rendering.
	seeded map[string]bool
}

func (d differ) agent(a agent.Agent) []DriftedFile {
	var files []DriftedFile
	add := func(f *DriftedFile) {
		if f != nil {
			files = append(files, *f)
		}
	}

	if cfg := a.ConfigPath(d.scratch); cfg != "" {
		if rel, err := filepath.Rel(d.scratch, cfg); err == nil {
			add(d.compare(rel))
		}
	}
	if f := a.InstructionFile(); f != "" {
		add(d.compare(filepath.FromSlash(f)))
	}

	for _, sd := range a.SkillDirs(d.scratch) {
		rel, err := filepath.Rel(d.scratch, sd)
		if err != nil {
			continue
		}
		for _, f := range walkFiles(sd, d.local) {
			add(d.compare(filepath.Join(rel, filepath.FromSlash(f))))
		}
		files = append(files, d.stale(rel)...)
	}
	return files
}

// compare reports how the disk copy of rel differs from the scratch copy.
// A seeded file the render removed is reported as modified with an empty
// Expected, since the next sync deletes it. Other files the render did not
// produce are not compared.
func (d differ) compare(rel string) *DriftedFile {
	want, err := os.ReadFile(filepath.Join(d.scratch, rel))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || !d.seeded[rel] {
			return nil
		}
		got, err := os.ReadFile(filepath.Join(d.disk, rel))
		if err != nil {
			return &DriftedFile{Path: filepath.ToSlash(rel), Kind: DriftUnreadable}
		}
		return &DriftedFile{Path: filepath.ToSlash(rel), Kind: DriftModified, Actual: string(got)}
	}
	out := &DriftedFile{Path: filepath.ToSlash(rel)}
	got, err := os.ReadFile(filepath.Join(d.disk, rel))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		out.Kind = DriftMissing
	case err != nil:
		out.Kind = DriftUnreadable
	case !bytes.Equal(want, got):
		out.Kind = DriftModified
		out.Expected = string(want)
		out.Actual = string(got)
	default:
		return nil
	}
	return out
}

// stale lists skill directories on disk that are neither selected nor local.
func (d differ) stale(rel string) []DriftedFile {
	entries, err := os.ReadDir(filepath.Join(d.disk, rel))
	if err != nil {
		return nil
	}
	var out []DriftedFile
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || !fileutil.SafeName(name) || d.selected[name] || d.local[name] {
			continue
		}
		if !e.IsDir() && e.Type()&os.ModeSymlink == 0 {
			continue
		}
		out = append(out, DriftedFile{Path: filepath.ToSlash(filepath.Join(rel, name)), Kind: DriftStale})
	}
	return out
}

// walkFiles lists regular files below root as slash paths, following
// symlinks. Top-level entries named in skip and hidden ones are ignored.
func walkFiles(root string, skip map[string]bool) []string {
	var out []string
	var walk func(dir, rel string, depth int)
	walk = func(dir, rel string, depth int) {
		if depth > maxWalkDepth {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, e := range entries {
			name := e.Name()
			if depth == 0 && (strings.HasPrefix(name, ".") || skip[name]) {
				continue
			}
			p := filepath.Join(dir, name)
			info, err := os.Stat(p)
			if err != nil {
				continue
			}
			if info.IsDir() {
				walk(p, path.Join(rel, name), depth+1)
				continue
			}
			out = append(out, path.Join(rel, name))
		}
	}
	walk(root, "", 0)
	return out
}

func toSet(list []string) map[string]bool {
	m := make(map[string]bool, len(list))
	for _, s := range list {
		m[s] = true
	}
	return m
}
