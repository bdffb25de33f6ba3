package skill

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/logging"
	"github.com/thoreinstein/nexus/internal/paths"
	"github.com/thoreinstein/nexus/pkg/fileutil"
)

// OriginFile sits beside SKILL.md in skills installed from a remote source.
const OriginFile = ".nexus-origin.json"

// Origin records where an installed skill came from.
type Origin struct {
	// Source is the repository, e.g. "anthropics/skills".
	Source string `json:"source"`

	// ID is the skill's directory name or path inside Source.
	ID string `json:"id"`

	// Ref is the branch or tag fetched; empty means the default branch.
	Ref string `json:"ref,omitempty"`
}

// Entry describes one skill in the global registry.
type Entry struct {
	Name        string
	Description string

	InCanonical bool
	InLegacy    bool

	Origin *Origin

	// HasResources is set when the skill directory holds companion files
	// besides SKILL.md and the origin record.
	HasResources bool
}

// Hub is the global skill registry. It reads the canonical and legacy
// locations; the canonical one wins on a name collision and is the only one
// written.
type Hub struct {
	canonical string
	legacy    string
}

// NewHub returns a Hub over the skill locations of root.
func NewHub(root paths.Root) *Hub {
	return &Hub{
		canonical: root.SkillsDir(),
		legacy:    root.LegacySkillsDir(),
	}
}

// Dir returns the canonical registry directory.
func (h *Hub) Dir() string {
	return h.canonical
}

// locate returns the directory holding the named skill.
func (h *Hub) locate(name string) (string, bool) {
	if !fileutil.SafeName(name) {
		return "", false
	}
	for _, base := range []string{h.canonical, h.legacy} {
		if base == "" {
			continue
		}
		dir := filepath.Join(base, name)
		if fileutil.IsFile(filepath.Join(dir, paths.SkillFilename)) {
			return dir, true
		}
	}
	return "", false
}

// Exists reports whether the named skill is in either location.
func (h *Hub) Exists(name string) bool {
	_, ok := h.locate(name)
	return ok
}

// Path returns the directory of the named skill, or an error marked ErrNotFound.
func (h *Hub) Path(name string) (string, error) {
	dir, ok := h.locate(name)
	if !ok {
		return "", errors.Wrapf(errors.ErrNotFound, "skill %q", name)
	}
	return dir, nil
}

// List returns every skill sorted by name.
func (h *Hub) List(ctx context.Context) ([]Entry, error) {
	names := map[string]bool{}
	for _, base := range []string{h.canonical, h.legacy} {
		found, err := skillNames(base)
		if err != nil {
			return nil, err
		}
		for _, n := range found {
			names[n] = true
		}
	}

	entries := make([]Entry, 0, len(names))
	for name := range names {
		e, err := h.Get(name)
		if err != nil {
			logging.FromContext(ctx).Warn("skipping skill", "skill", name, "error", err)
			continue
		}
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// skillNames lists subdirectories of base that contain SKILL.md.
func skillNames(base string) ([]string, error) {
	if base == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewIOError(base, err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || !fileutil.SafeName(name) {
			continue
		}
		if fileutil.IsFile(filepath.Join(base, name, paths.SkillFilename)) {
			names = append(names, name)
		}
	}
	return names, nil
}

// Get describes one skill.
func (h *Hub) Get(name string) (*Entry, error) {
	dir, err := h.Path(name)
	if err != nil {
		return nil, err
	}

	e := &Entry{Name: name}
	if h.canonical != "" {
		e.InCanonical = fileutil.IsFile(filepath.Join(h.canonical, name, paths.SkillFilename))
	}
	if h.legacy != "" {
		e.InLegacy = fileutil.IsFile(filepath.Join(h.legacy, name, paths.SkillFilename))
	}

	doc, err := ParseHeader(filepath.Join(dir, paths.SkillFilename))
	if err != nil {
		return nil, err
	}
	e.Description = doc.Description

	if data, err := fileutil.ReadOptional(filepath.Join(dir, OriginFile)); err == nil && data != nil {
		var o Origin
		if json.Unmarshal(data, &o) == nil {
			e.Origin = &o
		}
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewIOError(dir, err)
	}
	for _, f := range files {
		if f.Name() != paths.SkillFilename && f.Name() != OriginFile {
			e.HasResources = true
			break
		}
	}
	return e, nil
}

// Load reads the primary document of each named skill. Skills that are
// missing or unreadable are skipped with a warning.
func (h *Hub) Load(ctx context.Context, names []string) ([]Content, error) {
	logger := logging.FromContext(ctx)
	contents := make([]Content, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir, ok := h.locate(name)
		if !ok {
			logger.Warn("skill not found, skipping", "skill", name)
			continue
		}
		data, err := fileutil.ReadFileWithLimit(filepath.Join(dir, paths.SkillFilename))
		if err != nil {
			logger.Warn("skill unreadable, skipping", "skill", name, "error", err)
			continue
		}
		contents = append(contents, Content{Name: name, Text: string(data)})
	}
	return contents, nil
}

// Install writes a skill's primary document into the canonical location,
// recording origin when given. Lint issues are logged, not enforced.
func (h *Hub) Install(ctx context.Context, name string, content []byte, origin *Origin) error {
	if err := fileutil.ValidateName("skill", name); err != nil {
		return err
	}
	dir := filepath.Join(h.canonical, name)

	doc, err := ParseDocument(content, filepath.Join(dir, paths.SkillFilename))
	if err != nil {
		return err
	}
	for _, issue := range Lint(doc, filepath.Join(dir, paths.SkillFilename)) {
		logging.FromContext(ctx).Warn("skill lint", "skill", name, "issue", issue)
	}

	if err := fileutil.WriteFile(filepath.Join(dir, paths.SkillFilename), content); err != nil {
		return err
	}
	if origin == nil {
		return nil
	}
	data, err := fileutil.MarshalJSON(origin)
	if err != nil {
		return errors.Wrap(err, "encoding origin")
	}
	return fileutil.WriteFile(filepath.Join(dir, OriginFile), data)
}

// Import copies a project-local skill, companions included, into the
// canonical location. The project hub is searched first, then searchDirs.
// Moving the name from local_skills to skills is the caller's job.
func (h *Hub) Import(ctx context.Context, projectDir, name string, searchDirs ...string) (string, error) {
	if err := fileutil.ValidateName("skill", name); err != nil {
		return "", err
	}
	candidates := append([]string{paths.ProjectHub(projectDir)}, searchDirs...)
	for _, base := range candidates {
		if base == "" {
			continue
		}
		src := filepath.Join(base, name)
		if !fileutil.IsFile(filepath.Join(src, paths.SkillFilename)) {
			continue
		}
		dst := filepath.Join(h.canonical, name)
		if err := os.MkdirAll(h.canonical, 0o755); err != nil {
			return "", errors.NewIOError(h.canonical, err)
		}
		if err := fileutil.ReplaceDir(src, dst); err != nil {
			return "", err
		}
		logging.FromContext(ctx).Info("imported skill", "skill", name, "from", src)
		return dst, nil
	}
	return "", errors.WithHint(
		errors.Wrapf(errors.ErrNotFound, "local skill %q", name),
		"the skill must exist in the project's .agents/skills or an agent skill directory",
	)
}

// Remove deletes a skill from the canonical location. Skills only present in
// the legacy location are never deleted.
func (h *Hub) Remove(name string) error {
	if err := fileutil.ValidateName("skill", name); err != nil {
		return err
	}
	dir := filepath.Join(h.canonical, name)
	if fileutil.IsDir(dir) {
		if err := os.RemoveAll(dir); err != nil {
			return errors.NewIOError(dir, err)
		}
		return nil
	}
	if h.legacy != "" && fileutil.IsDir(filepath.Join(h.legacy, name)) {
		return errors.WithHint(
			errors.Newf("skill %q lives in the legacy location", name),
			"remove "+filepath.Join(h.legacy, name)+" by hand",
		)
	}
	return nil
}
