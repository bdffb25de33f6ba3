package agent

import (
	"sort"
	"sync"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/pkg/fileutil"
)

// Sentinel errors for registry operations.
var (
	// ErrAgentAlreadyRegistered is returned when registering an id twice.
	ErrAgentAlreadyRegistered = errors.New("agent already registered")
)

// Registry maps agent ids to implementations. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]Agent
}

// NewRegistry creates a registry holding agents.
func NewRegistry(agents ...Agent) (*Registry, error) {
	r := &Registry{agents: make(map[string]Agent, len(agents))}
	for _, a := range agents {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an agent. The id must be a safe name and not yet taken.
func (r *Registry) Register(a Agent) error {
	if err := fileutil.ValidateName("agent", a.ID()); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[a.ID()]; exists {
		return errors.Wrapf(ErrAgentAlreadyRegistered, "registering %q", a.ID())
	}
	r.agents[a.ID()] = a
	return nil
}

// Lookup returns the agent for id, or an error marked ErrUnknownAgent.
func (r *Registry) Lookup(id string) (Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownAgent, "agent %q", id)
	}
	return a, nil
}

// All returns every agent ordered by id.
func (r *Registry) All() []Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Agent, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// IDs returns every agent id in sorted order.
func (r *Registry) IDs() []string {
	all := r.All()
	ids := make([]string, len(all))
	for i, a := range all {
		ids[i] = a.ID()
	}
	return ids
}

var defaultRegistry = func() *Registry {
	vs := builtins()
	agents := make([]Agent, len(vs))
	for i, v := range vs {
		agents[i] = v
	}
	r, err := NewRegistry(agents...)
	if err != nil {
		panic(err)
	}
	return r
}()

// Default returns the registry of built-in agents.
func Default() *Registry { return defaultRegistry }

// Lookup resolves a built-in agent id.
func Lookup(id string) (Agent, error) { return defaultRegistry.Lookup(id) }

// All returns the built-in agents ordered by id.
func All() []Agent { return defaultRegistry.All() }

// IDs returns the built-in agent ids in sorted order.
func IDs() []string { return defaultRegistry.IDs() }
