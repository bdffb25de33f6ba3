// Package app wires the nexus services together using go.uber.org/dig.
package app

import (
	"go.uber.org/dig"

	"github.com/thoreinstein/nexus/internal/agent"
	"github.com/thoreinstein/nexus/internal/config"
	"github.com/thoreinstein/nexus/internal/engine"
	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/mcp"
	"github.com/thoreinstein/nexus/internal/paths"
	"github.com/thoreinstein/nexus/internal/project"
	"github.com/thoreinstein/nexus/internal/rules"
	"github.com/thoreinstein/nexus/internal/skill"
)

// Container holds the resolved service singletons. Callers use the typed
// getters and never import dig.
type Container struct {
	root     paths.Root
	projects *project.Store
	servers  *mcp.Registry
	hub      *skill.Hub
	rules    *rules.Store
	fetcher  *skill.Fetcher
	engine   *engine.Engine
}

func (c *Container) Root() paths.Root         { return c.root }
func (c *Container) Projects() *project.Store { return c.projects }
func (c *Container) Servers() *mcp.Registry   { return c.servers }
func (c *Container) Hub() *skill.Hub          { return c.hub }
func (c *Container) Rules() *rules.Store      { return c.rules }
func (c *Container) Fetcher() *skill.Fetcher  { return c.fetcher }
func (c *Container) Engine() *engine.Engine   { return c.engine }
func (c *Container) Agents() *agent.Registry  { return agent.Default() }

// Close releases the project database.
func (c *Container) Close() error {
	if c == nil || c.projects == nil {
		return nil
	}
	return c.projects.Close()
}

// New builds and wires every service from cfg. A nil cfg means the defaults.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	d := dig.New()

	providers := []any{
		func() *config.Config { return cfg },
		newRoot,
		newProjectStore,
		newServerRegistry,
		skill.NewHub,
		newRuleStore,
		newFetcher,
		newEngine,
	}
	for _, p := range providers {
		if err := d.Provide(p); err != nil {
			return nil, errors.Wrap(err, "registering service")
		}
	}

	var result *Container
	err := d.Invoke(func(
		root paths.Root,
		projects *project.Store,
		servers *mcp.Registry,
		hub *skill.Hub,
		rs *rules.Store,
		fetcher *skill.Fetcher,
		eng *engine.Engine,
	) {
		result = &Container{
			root:     root,
			projects: projects,
			servers:  servers,
			hub:      hub,
			rules:    rs,
			fetcher:  fetcher,
			engine:   eng,
		}
	})
	if err != nil {
		return nil, errors.Wrap(dig.RootCause(err), "building services")
	}
	return result, nil
}

func newRoot(cfg *config.Config) (paths.Root, error) {
	return cfg.Root()
}

func newProjectStore(root paths.Root) (*project.Store, error) {
	return project.Open(root.ProjectsDB())
}

func newServerRegistry(root paths.Root) *mcp.Registry {
	return mcp.NewRegistry(root.RegistryDir())
}

func newRuleStore(root paths.Root) *rules.Store {
	return rules.NewStore(root.RulesDir())
}

func newFetcher(root paths.Root) *skill.Fetcher {
	return skill.NewFetcher(root.ReposCacheDir())
}

func newEngine(
	cfg *config.Config,
	store *project.Store,
	servers *mcp.Registry,
	hub *skill.Hub,
	rs *rules.Store,
) *engine.Engine {
	return engine.New(store, agent.Default(), servers, hub, rs,
		engine.WithSelfCommand(cfg.SelfExecutable()),
		engine.WithLinkMode(skill.LinkMode(cfg.Skills.LinkMode)),
	)
}
