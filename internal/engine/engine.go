package engine

import (
	"context"
	"os"

	"github.com/google/uuid"

	"github.com/thoreinstein/nexus/internal/agent"
	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/logging"
	"github.com/thoreinstein/nexus/internal/mcp"
	"github.com/thoreinstein/nexus/internal/project"
	"github.com/thoreinstein/nexus/internal/rules"
	"github.com/thoreinstein/nexus/internal/skill"
	"github.com/thoreinstein/nexus/pkg/fileutil"
)

// ProjectStore loads and persists projects.
type ProjectStore interface {
	Get(ctx context.Context, name string) (*project.Project, error)
	Save(ctx context.Context, p *project.Project) error
}

// Engine synchronizes projects onto disk for every selected agent.
type Engine struct {
	store   ProjectStore
	agents  *agent.Registry
	servers *mcp.Registry
	hub     *skill.Hub
	rules   *rules.Store

	self     string
	linkMode skill.LinkMode
}

// Option configures an Engine.
type Option func(*Engine)

// WithSelfCommand sets the executable the self server entry points at.
func WithSelfCommand(path string) Option {
	return func(e *Engine) { e.self = path }
}

// WithLinkMode sets how hub skills reach agent skill directories.
func WithLinkMode(m skill.LinkMode) Option {
	return func(e *Engine) {
		if m != "" {
			e.linkMode = m
		}
	}
}

// New builds an Engine. A nil agent registry means the built-in one.
func New(store ProjectStore, agents *agent.Registry, servers *mcp.Registry, hub *skill.Hub, rs *rules.Store, opts ...Option) *Engine {
	if agents == nil {
		agents = agent.Default()
	}
	e := &Engine{
		store:    store,
		agents:   agents,
		servers:  servers,
		hub:      hub,
		rules:    rs,
		linkMode: skill.LinkCopy,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.self == "" {
		if exe, err := os.Executable(); err == nil {
			e.self = exe
		}
	}
	return e
}

// Result is the outcome of one sync.
type Result struct {
	RunID   string
	Project *project.Project

	// Written lists every path rendered, sorted and without duplicates.
	Written []string

	// Failed lists agents whose render failed; their files are omitted
	// from Written.
	Failed []string
}

// startRun attaches a fresh run id to the context logger.
func startRun(ctx context.Context, p *project.Project) (context.Context, string) {
	id := uuid.NewString()
	logger := logging.FromContext(ctx).With("run_id", id, "project", p.Name)
	return logging.NewContext(ctx, logger), id
}

// requireDirectory is the single fatal precondition of every render.
func requireDirectory(p *project.Project) error {
	if p.Directory == "" || !fileutil.IsDir(p.Directory) {
		return errors.WithHint(
			errors.Wrapf(errors.ErrDirectoryMissing, "project %q directory %q", p.Name, p.Directory),
			"Set it with 'nexus project set "+p.Name+" --dir <path>'",
		)
	}
	return nil
}

// resolve maps ids to agents, skipping unknown ones with a warning.
func (e *Engine) resolve(ctx context.Context, ids []string) []agent.Agent {
	out := make([]agent.Agent, 0, len(ids))
	for _, id := range ids {
		a, err := e.agents.Lookup(id)
		if err != nil {
			logging.FromContext(ctx).Warn("skipping agent", "agent", id, "error", err)
			continue
		}
		out = append(out, a)
	}
	return out
}

// Sync runs autodetect, merges its findings into the named project,
// persists it and renders every selected agent.
func (e *Engine) Sync(ctx context.Context, name string) (*Result, error) {
	p, _, err := e.AutodetectOnly(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.SyncProject(ctx, p)
}

// SyncProject renders p exactly as given, without autodetect. Use it after
// an explicit removal so discovery cannot bring the removed item back.
func (e *Engine) SyncProject(ctx context.Context, p *project.Project) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := requireDirectory(p); err != nil {
		return nil, err
	}
	ctx, runID := startRun(ctx, p)
	logger := logging.FromContext(ctx)
	logger.Info("sync started", "agents", len(p.Agents), "skills", len(p.Skills), "servers", len(p.MCPServers))

	out := e.render(ctx, p, p.Directory, e.linkMode)
	logger.Info("sync finished", "written", len(out.written), "failed", len(out.failed))
	return &Result{
		RunID:   runID,
		Project: p,
		Written: out.written,
		Failed:  out.failed,
	}, nil
}

// SyncWithoutAutodetect loads the named project and renders it as stored.
func (e *Engine) SyncWithoutAutodetect(ctx context.Context, name string) (*Result, error) {
	p, err := e.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.SyncProject(ctx, p)
}

// AddAgent selects agent id for the named project and renders it.
func (e *Engine) AddAgent(ctx context.Context, name, id string) (*Result, error) {
	if _, err := e.agents.Lookup(id); err != nil {
		return nil, errors.WithHint(err, "Run 'nexus agent list' to see supported agents")
	}
	p, err := e.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	var changed bool
	if p.Agents, changed = project.Merge(p.Agents, id); changed {
		if err := e.store.Save(ctx, p); err != nil {
			return nil, err
		}
	}
	return e.SyncProject(ctx, p)
}

// ImportSkill promotes a local skill into the global registry and moves it
// from local_skills to skills.
func (e *Engine) ImportSkill(ctx context.Context, name, skillName string) (*project.Project, error) {
	p, err := e.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := requireDirectory(p); err != nil {
		return nil, err
	}
	var dirs []string
	for _, a := range e.agents.All() {
		dirs = append(dirs, a.SkillDirs(p.Directory)...)
	}
	if _, err := e.hub.Import(ctx, p.Directory, skillName, dirs...); err != nil {
		return nil, err
	}
	p.LocalSkills = project.Remove(p.LocalSkills, skillName)
	p.Skills, _ = project.Merge(p.Skills, skillName)
	if err := e.store.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
