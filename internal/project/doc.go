// Package project defines the Project model and its SQLite-backed store.
//
// A Project names a working directory and the skills, MCP servers and agents
// selected for it. The store is the only place a Project is persisted; the
// engine saves after every mutation.
package project
