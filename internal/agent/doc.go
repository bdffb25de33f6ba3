// Package agent models the coding tools nexus configures.
//
// Every tool is one [Agent]. A single table-driven implementation covers all
// of them: each table entry names the tool's config file, skill directories,
// instruction file and the codec that translates canonical servers
// ([mcp.Server]) to the tool's native shape.
//
// # Native files
//
// Dedicated files such as .mcp.json belong to nexus. Shared files such as
// opencode.json or .zed/settings.json also carry user settings, so only the
// managed key is rewritten. JSON files are edited by splicing the managed
// value's bytes; every other byte is preserved. TOML and YAML files keep
// other keys by value.
//
// # Lossy translation
//
// Not every tool accepts every canonical field. [DroppedFields] reports, per
// tool and transport, exactly which fields do not survive a write followed
// by [Agent.DiscoverMCPServers].
package agent
