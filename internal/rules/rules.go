package rules

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/logging"
	"github.com/thoreinstein/nexus/internal/paths"
	"github.com/thoreinstein/nexus/pkg/fileutil"
	"github.com/thoreinstein/nexus/pkg/frontmatter"
)

const ext = ".md"

// Rule is one reusable block of agent instructions.
type Rule struct {
	ID          string `yaml:"-"`
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
	Body        string `yaml:"-"`
}

// Heading returns the title, or the id when the rule has none.
func (r *Rule) Heading() string {
	if r.Title != "" {
		return r.Title
	}
	return r.ID
}

// Store keeps rules as markdown files named <id>.md.
type Store struct {
	dir string
}

// NewStore returns a Store over dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(id string) (string, error) {
	if err := fileutil.ValidateName("rule", id); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, id+ext), nil
}

// Put writes a rule. Frontmatter in content is optional.
func (s *Store) Put(id string, content []byte) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if _, _, err := frontmatter.ParseOptional[Rule](bytes.NewReader(content)); err != nil {
		return errors.Malformed(err, "parsing rule "+id)
	}
	if err := paths.EnsureDir(s.dir, 0); err != nil {
		return errors.NewIOError(s.dir, err)
	}
	return fileutil.AtomicWriteFile(path, content, 0o644)
}

// Get reads a rule; a missing rule returns ErrNotFound.
func (s *Store) Get(id string) (*Rule, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	data, err := fileutil.ReadOptional(path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "rule %q", id)
	}
	r, body, err := frontmatter.ParseOptional[Rule](bytes.NewReader(data))
	if err != nil {
		return nil, errors.Malformed(err, "parsing "+path)
	}
	r.ID = id
	r.Body = strings.TrimSpace(body)
	return &r, nil
}

// List returns every rule sorted by id. Unparseable files are skipped.
func (s *Store) List(ctx context.Context) ([]Rule, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewIOError(s.dir, err)
	}

	var out []Rule
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		r, err := s.Get(strings.TrimSuffix(name, ext))
		if err != nil {
			logging.FromContext(ctx).Warn("skipping rule", "file", name, "error", err)
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes a rule. Deleting a missing rule is not an error.
func (s *Store) Delete(id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.NewIOError(path, err)
	}
	return nil
}

// Render concatenates the named rules into one block of markdown, in the
// given order. Missing rules are skipped with a warning. An empty result
// means there is nothing to write.
func (s *Store) Render(ctx context.Context, ids []string) string {
	var parts []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		r, err := s.Get(id)
		if err != nil {
			logging.FromContext(ctx).Warn("rule unavailable", "rule", id, "error", err)
			continue
		}
		parts = append(parts, "## "+r.Heading()+"\n\n"+r.Body)
	}
	return strings.Join(parts, "\n\n")
}
