// Package mcp defines the canonical MCP server configuration and the
// registry that stores it.
//
// # Canonical Shape
//
// [Server] is the single in-memory form every agent variant translates to
// and from. On disk and on the wire it looks like:
//
//	{ "type": "stdio", "command": "npx", "args": ["-y", "server-github"],
//	  "env": {"GITHUB_TOKEN": "${GITHUB_TOKEN}"} }
//
// A server has exactly one transport. When "type" is missing it is inferred:
// a command means [TransportStdio], a URL means [TransportHTTP]. Keys the
// struct does not model are kept and written back on the next save.
//
// # Registry
//
// [Registry] stores one JSON file per server. Writes are validated against
// an embedded JSON Schema before anything touches disk; reads of absent
// entries return nothing rather than failing, except [Registry.Get].
//
// # Self Server
//
// [SelfServer] builds the entry pointing back at the nexus binary that is
// injected into every rendered configuration under [SelfServerName].
package mcp
