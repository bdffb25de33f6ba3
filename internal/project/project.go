package project

import (
	"slices"
	"sort"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/pkg/fileutil"
)

// InstructionMode controls how instruction files are written across agents.
type InstructionMode string

const (
	// ModePerAgent leaves each agent's instruction file independent.
	ModePerAgent InstructionMode = "per_agent"

	// ModeUnified replicates one instruction body to every agent's file.
	ModeUnified InstructionMode = "unified"
)

// UnifiedKey is the FileRules key used in unified mode.
const UnifiedKey = "*"

// Project is the persisted selection of skills, servers and agents for one
// working directory.
type Project struct {
	Name string `json:"name"`

	// Directory is absolute; empty means the project is not configured yet.
	Directory string `json:"directory,omitempty"`

	Skills      []string `json:"skills,omitempty"`
	LocalSkills []string `json:"local_skills,omitempty"`
	MCPServers  []string `json:"mcp_servers,omitempty"`
	Agents      []string `json:"agents,omitempty"`

	// FileRules maps an instruction filename (or UnifiedKey) to rule ids.
	FileRules map[string][]string `json:"file_rules,omitempty"`

	InstructionMode InstructionMode `json:"instruction_mode,omitempty"`
}

// Validate checks that every name is usable as a path component.
func (p *Project) Validate() error {
	if err := fileutil.ValidateName("project", p.Name); err != nil {
		return err
	}
	lists := []struct {
		kind  string
		names []string
	}{
		{"skill", p.Skills},
		{"local skill", p.LocalSkills},
		{"mcp server", p.MCPServers},
		{"agent", p.Agents},
	}
	for _, l := range lists {
		for _, n := range l.names {
			if err := fileutil.ValidateName(l.kind, n); err != nil {
				return err
			}
		}
	}
	switch p.InstructionMode {
	case "", ModePerAgent, ModeUnified:
	default:
		return errors.Newf("unknown instruction mode %q", p.InstructionMode)
	}
	return nil
}

// Normalize removes duplicates and sorts agents. Other lists keep their
// first-seen order.
func (p *Project) Normalize() {
	p.Skills = dedupe(p.Skills)
	p.LocalSkills = dedupe(p.LocalSkills)
	p.MCPServers = dedupe(p.MCPServers)
	p.Agents = dedupe(p.Agents)
	sort.Strings(p.Agents)
	if p.InstructionMode == "" {
		p.InstructionMode = ModePerAgent
	}
}

// Unified reports whether the project replicates one instruction body.
func (p *Project) Unified() bool {
	return p.InstructionMode == ModeUnified
}

// RulesFor returns the rule ids attached to an instruction filename.
func (p *Project) RulesFor(filename string) []string {
	if p.Unified() {
		return p.FileRules[UnifiedKey]
	}
	return p.FileRules[filename]
}

// HasAgent reports whether id is selected.
func (p *Project) HasAgent(id string) bool {
	return slices.Contains(p.Agents, id)
}

// WithoutAgent returns the agent list minus id.
func (p *Project) WithoutAgent(id string) []string {
	out := make([]string, 0, len(p.Agents))
	for _, a := range p.Agents {
		if a != id {
			out = append(out, a)
		}
	}
	return out
}

// Clone returns a deep copy.
func (p *Project) Clone() *Project {
	c := *p
	c.Skills = slices.Clone(p.Skills)
	c.LocalSkills = slices.Clone(p.LocalSkills)
	c.MCPServers = slices.Clone(p.MCPServers)
	c.Agents = slices.Clone(p.Agents)
	if p.FileRules != nil {
		c.FileRules = make(map[string][]string, len(p.FileRules))
		for k, v := range p.FileRules {
			c.FileRules[k] = slices.Clone(v)
		}
	}
	return &c
}

// Merge appends the names in add that list does not already hold and
// reports whether anything was added.
func Merge(list []string, add ...string) ([]string, bool) {
	changed := false
	for _, n := range add {
		if !slices.Contains(list, n) {
			list = append(list, n)
			changed = true
		}
	}
	return list, changed
}

// Remove deletes name from list.
func Remove(list []string, name string) []string {
	return slices.DeleteFunc(slices.Clone(list), func(s string) bool { return s == name })
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
