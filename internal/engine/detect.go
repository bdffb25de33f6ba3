package engine

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/thoreinstein/nexus/internal/logging"
	"github.com/thoreinstein/nexus/internal/mcp"
	"github.com/thoreinstein/nexus/internal/paths"
	"github.com/thoreinstein/nexus/internal/project"
	"github.com/thoreinstein/nexus/pkg/fileutil"
)

// Detection is what autodetect found in a project directory.
type Detection struct {
	// Agents with a footprint in the directory, sorted.
	Agents []string

	// Skills found on disk that also exist in the global registry.
	Skills []string

	// LocalSkills found on disk with no registry entry.
	LocalSkills []string

	// Servers discovered in native config files, keyed by name. The first
	// agent (in id order) to report a name wins.
	Servers map[string]*mcp.Server
}

// Autodetect scans p's directory without writing anything.
func (e *Engine) Autodetect(ctx context.Context, p *project.Project) (*Detection, error) {
	if err := requireDirectory(p); err != nil {
		return nil, err
	}
	dir := p.Directory
	logger := logging.FromContext(ctx).With("project", p.Name)

	d := &Detection{Servers: map[string]*mcp.Server{}}
	skillDirs := []string{paths.ProjectHub(dir)}
	for _, a := range e.agents.All() {
		if a.Detect(dir) {
			d.Agents = append(d.Agents, a.ID())
		}
		skillDirs = append(skillDirs, a.SkillDirs(dir)...)
		for name, s := range a.DiscoverMCPServers(ctx, dir) {
			if _, ok := d.Servers[name]; !ok {
				d.Servers[name] = s
			}
		}
	}

	global, local := map[string]bool{}, map[string]bool{}
	for _, sd := range skillDirs {
		for _, name := range skillsIn(sd) {
			if e.hub.Exists(name) {
				global[name] = true
			} else {
				local[name] = true
			}
		}
	}
	d.Skills = sortedKeys(global)
	d.LocalSkills = sortedKeys(local)

	logger.Debug("autodetect finished",
		"agents", len(d.Agents),
		"skills", len(d.Skills),
		"local_skills", len(d.LocalSkills),
		"servers", len(d.Servers),
	)
	return d, nil
}

// skillsIn lists subdirectories of dir holding a primary skill document.
func skillsIn(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || !fileutil.SafeName(name) {
			continue
		}
		if fileutil.IsFile(filepath.Join(dir, name, paths.SkillFilename)) {
			names = append(names, name)
		}
	}
	return names
}

// AutodetectOnly merges autodetect findings into the named project and
// persists it without rendering. Newly discovered servers are stored in
// the registry first.
func (e *Engine) AutodetectOnly(ctx context.Context, name string) (*project.Project, *Detection, error) {
	p, err := e.store.Get(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	d, err := e.Autodetect(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	if e.merge(ctx, p, d) {
		if err := e.store.Save(ctx, p); err != nil {
			return nil, nil, err
		}
	}
	return p, d, nil
}

// merge adds detected facts to p and reports whether p changed. User
// selections are never removed; a local skill is never promoted.
func (e *Engine) merge(ctx context.Context, p *project.Project, d *Detection) bool {
	logger := logging.FromContext(ctx)
	changed := false
	add := func(list []string, names ...string) []string {
		out, c := project.Merge(list, names...)
		changed = changed || c
		return out
	}

	p.Agents = add(p.Agents, d.Agents...)

	for _, s := range d.Skills {
		if !slices.Contains(p.LocalSkills, s) {
			p.Skills = add(p.Skills, s)
		}
	}
	for _, s := range d.LocalSkills {
		if !slices.Contains(p.Skills, s) {
			p.LocalSkills = add(p.LocalSkills, s)
		}
	}

	for _, name := range sortedKeys(d.Servers) {
		if !e.servers.Exists(name) {
			s := d.Servers[name].Clone()
			s.Name = name
			if err := e.servers.Put(s); err != nil {
				logger.Warn("not registering discovered server", "server", name, "error", err)
				continue
			}
			logger.Info("registered discovered server", "server", name)
		}
		p.MCPServers = add(p.MCPServers, name)
	}
	return changed
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
