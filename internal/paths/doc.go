// Package paths resolves every on-disk location nexus reads or writes.
//
// No function in this package consults process-wide state after
// construction: callers obtain a [Root] once (from [DefaultRoot] in the CLI,
// or [NewRoot] over a temporary directory in tests) and pass it to every
// component that needs a path.
//
// # XDG Base Directory Compliance
//
// [DefaultRoot] wraps github.com/adrg/xdg, so on Linux the defaults are:
//
//	| Location          | Path                              |
//	|-------------------|-----------------------------------|
//	| config.yaml       | ~/.config/nexus/config.yaml       |
//	| MCP registry      | ~/.local/share/nexus/mcp/         |
//	| global skills     | ~/.local/share/nexus/skills/      |
//	| legacy skills     | ~/.nexus/skills/ (read only)      |
//	| rules             | ~/.local/share/nexus/rules/       |
//	| projects database | ~/.local/share/nexus/projects.db  |
//
// The project hub lives inside each project at [ProjectHubDir].
package paths
