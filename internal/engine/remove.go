package engine

import (
	"context"

	"github.com/thoreinstein/nexus/internal/agent"
	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/logging"
	"github.com/thoreinstein/nexus/internal/project"
)

// RemoveResult is the outcome of RemoveAgent.
type RemoveResult struct {
	Agent string

	// Removed lists the paths the agent's cleanup deleted or rewrote.
	Removed []string

	// Sync is the re-render of the remaining agents; nil when the project
	// has no directory.
	Sync *Result
}

func (e *Engine) removal(ctx context.Context, name, id string) (*project.Project, agent.Agent, []string, error) {
	p, err := e.store.Get(ctx, name)
	if err != nil {
		return nil, nil, nil, err
	}
	if !p.HasAgent(id) {
		return nil, nil, nil, errors.WithHint(
			errors.Wrapf(errors.ErrNotFound, "agent %q in project %q", id, name),
			"Run 'nexus project show "+name+"' to see its agents",
		)
	}
	a, err := e.agents.Lookup(id)
	if err != nil {
		return nil, nil, nil, err
	}
	return p, a, p.WithoutAgent(id), nil
}

// PreviewRemoveAgent returns the paths RemoveAgent would delete or rewrite,
// without changing anything.
func (e *Engine) PreviewRemoveAgent(ctx context.Context, name, id string) ([]string, error) {
	p, a, remaining, err := e.removal(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if p.Directory == "" {
		return nil, nil
	}
	return a.CleanupPaths(p.Directory, e.resolve(ctx, remaining)), nil
}

// RemoveAgent deletes agent id's footprint from the named project, keeping
// anything a remaining agent still uses, persists the project and then
// re-renders the remaining agents without autodetect.
func (e *Engine) RemoveAgent(ctx context.Context, name, id string) (*RemoveResult, error) {
	p, a, remaining, err := e.removal(ctx, name, id)
	if err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx).With("project", name, "agent", id)

	res := &RemoveResult{Agent: id}
	hasDir := requireDirectory(p) == nil
	if hasDir {
		res.Removed = a.Cleanup(ctx, p.Directory, e.resolve(ctx, remaining))
		logger.Info("removed agent files", "count", len(res.Removed))
	}

	p.Agents = remaining
	if err := e.store.Save(ctx, p); err != nil {
		return nil, err
	}
	if !hasDir {
		return res, nil
	}

	res.Sync, err = e.SyncProject(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err, "re-rendering remaining agents")
	}
	return res, nil
}
