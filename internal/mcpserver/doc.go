// Package mcpserver exposes the engine's public operations as MCP tools
// over stdio. It is what the self entry in every rendered config runs.
package mcpserver
