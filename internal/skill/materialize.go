package skill

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/logging"
	"github.com/thoreinstein/nexus/internal/paths"
	"github.com/thoreinstein/nexus/pkg/fileutil"
)

// LinkMode selects how hub skills reach agent skill directories.
type LinkMode string

const (
	LinkCopy    LinkMode = "copy"
	LinkSymlink LinkMode = "symlink"
)

// MaterializeHub fills the project hub with full copies of every selected
// global skill and with any local skill found in agentDirs but missing from
// the hub. Hub skills in neither selected nor local are removed first. It
// returns the hub directories written.
func (h *Hub) MaterializeHub(ctx context.Context, projectDir string, selected, local, agentDirs []string) ([]string, error) {
	logger := logging.FromContext(ctx)
	hub := paths.ProjectHub(projectDir)
	if hub == "" {
		return nil, errors.ErrDirectoryMissing
	}
	if err := os.MkdirAll(hub, 0o755); err != nil {
		return nil, errors.NewIOError(hub, err)
	}
	if err := pruneHub(ctx, hub, selected, local); err != nil {
		return nil, err
	}

	var written []string
	for _, name := range selected {
		src, ok := h.locate(name)
		if !ok {
			logger.Warn("selected skill not in registry", "skill", name)
			continue
		}
		dst := filepath.Join(hub, name)
		if err := fileutil.ReplaceDir(src, dst); err != nil {
			return written, err
		}
		// provenance stays in the registry
		if err := os.Remove(filepath.Join(dst, OriginFile)); err != nil && !os.IsNotExist(err) {
			return written, errors.NewIOError(dst, err)
		}
		written = append(written, dst)
	}

	for _, name := range local {
		if !fileutil.SafeName(name) {
			continue
		}
		dst := filepath.Join(hub, name)
		if fileutil.IsFile(filepath.Join(dst, paths.SkillFilename)) {
			continue
		}
		for _, d := range agentDirs {
			src := filepath.Join(d, name)
			if d == hub || !fileutil.IsFile(filepath.Join(src, paths.SkillFilename)) {
				continue
			}
			if err := fileutil.CopyDir(src, dst); err != nil {
				return written, err
			}
			logger.Debug("collected local skill into hub", "skill", name, "from", src)
			written = append(written, dst)
			break
		}
	}
	return written, nil
}

// pruneHub deletes safe-named skill directories (or links) in hub that are
// not listed in keep.
func pruneHub(ctx context.Context, hub string, keep ...[]string) error {
	wanted := map[string]bool{}
	for _, list := range keep {
		for _, name := range list {
			wanted[name] = true
		}
	}
	entries, err := os.ReadDir(hub)
	if err != nil {
		return errors.NewIOError(hub, err)
	}
	for _, e := range entries {
		name := e.Name()
		if wanted[name] || strings.HasPrefix(name, ".") || !fileutil.SafeName(name) {
			continue
		}
		if !e.IsDir() && e.Type()&fs.ModeSymlink == 0 {
			continue
		}
		if err := os.RemoveAll(filepath.Join(hub, name)); err != nil {
			return errors.NewIOError(filepath.Join(hub, name), err)
		}
		logging.FromContext(ctx).Debug("removed deselected skill from hub", "skill", name)
	}
	return nil
}

// Populate places the named hub skills into targetDir by copy or symlink.
// Nothing happens when targetDir is the hub itself.
func Populate(ctx context.Context, hubDir, targetDir string, names []string, mode LinkMode) ([]string, error) {
	if filepath.Clean(hubDir) == filepath.Clean(targetDir) {
		return nil, nil
	}
	var written []string
	for _, name := range names {
		src := filepath.Join(hubDir, name)
		if !fileutil.SafeName(name) || !fileutil.IsDir(src) {
			continue
		}
		dst := filepath.Join(targetDir, name)
		link := fileutil.ReplaceDir
		if mode == LinkSymlink {
			link = fileutil.Link
		}
		if err := link(src, dst); err != nil {
			return written, err
		}
		written = append(written, dst)
	}
	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "populated skills", "dir", targetDir, "mode", string(mode), "count", len(written))
	return written, nil
}
