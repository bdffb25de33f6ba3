// Package skill manages skill documents: the global registry, the per-project
// hub, and fetching skills from remote repositories.
//
// A skill is a directory holding SKILL.md plus optional companion files. The
// global registry lives in the XDG data directory; an older location under
// the home directory is still read, never written, and loses name
// collisions.
//
// Each project has a hub at .agents/skills holding full copies of its
// selected global skills and of its local skills. Agent skill directories
// are filled from the hub by [Populate]. A local skill only enters the
// global registry through [Hub.Import].
package skill
