package mcp

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/logging"
	"github.com/thoreinstein/nexus/pkg/fileutil"
)

const entryExt = ".json"

// Registry is the flat, name-keyed store of canonical server configs.
// Each entry lives in <dir>/<name>.json.
type Registry struct {
	dir string
}

// NewRegistry returns a registry rooted at dir. The directory is created on
// the first Put.
func NewRegistry(dir string) *Registry {
	return &Registry{dir: dir}
}

// Dir returns the registry directory.
func (r *Registry) Dir() string {
	return r.dir
}

func (r *Registry) path(name string) string {
	return filepath.Join(r.dir, name+entryExt)
}

// Put validates s and writes it atomically. Nothing touches disk when the
// name is unsafe or the entry fails schema validation.
func (r *Registry) Put(s *Server) error {
	if err := fileutil.ValidateName("server", s.Name); err != nil {
		return err
	}
	data, err := fileutil.MarshalJSON(s)
	if err != nil {
		return errors.Malformed(err, "encoding server")
	}
	return r.write(s.Name, data)
}

// PutRaw stores a JSON payload received from outside (CLI input, the MCP
// tool surface) after validating it.
func (r *Registry) PutRaw(name string, payload []byte) (*Server, error) {
	if err := fileutil.ValidateName("server", name); err != nil {
		return nil, err
	}
	var s Server
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, errors.Malformed(err, "decoding server "+name)
	}
	s.Name = name
	if err := r.Put(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Registry) write(name string, data []byte) error {
	if err := ValidatePayload(data); err != nil {
		return errors.Wrapf(err, "server %q", name)
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return errors.NewIOError(r.dir, err)
	}
	return errors.NewIOError(r.path(name), fileutil.AtomicWriteFile(r.path(name), data, 0o644))
}

// Get reads one entry, returning ErrNotFound when it is absent.
func (r *Registry) Get(name string) (*Server, error) {
	s, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "server %q", name)
	}
	return s, nil
}

// Lookup reads one entry, returning (nil, nil) when it is absent.
func (r *Registry) Lookup(name string) (*Server, error) {
	if !fileutil.SafeName(name) {
		return nil, errors.Wrapf(errors.ErrInvalidName, "server %q", name)
	}
	data, err := fileutil.ReadFileWithLimit(r.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.NewIOError(r.path(name), err)
	}
	var s Server
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Malformed(err, "parsing "+r.path(name))
	}
	s.Name = name
	return &s, nil
}

// Exists reports whether an entry named name is stored.
func (r *Registry) Exists(name string) bool {
	return fileutil.SafeName(name) && fileutil.IsFile(r.path(name))
}

// LoadAll resolves names to servers. Absent, unsafe and unreadable entries
// are skipped with a warning so one bad file never blocks a sync.
func (r *Registry) LoadAll(ctx context.Context, names []string) map[string]*Server {
	logger := logging.FromContext(ctx)
	out := make(map[string]*Server, len(names))
	for _, name := range names {
		s, err := r.Lookup(name)
		switch {
		case err != nil:
			logger.Warn("skipping registry entry", "server", name, "error", err)
		case s == nil:
			logger.Warn("server not in registry", "server", name)
		default:
			out[name] = s
		}
	}
	return out
}

// List returns the names of all stored entries, sorted.
func (r *Registry) List() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.NewIOError(r.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), entryExt) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), entryExt)
		if fileutil.SafeName(name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes an entry. Deleting an absent entry is not an error.
func (r *Registry) Delete(name string) error {
	if err := fileutil.ValidateName("server", name); err != nil {
		return err
	}
	if err := os.Remove(r.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.NewIOError(r.path(name), err)
	}
	return nil
}
