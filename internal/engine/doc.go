// Package engine synchronizes a project's selected skills, MCP servers and
// rules into the native files of every selected agent.
//
// # Operations
//
//   - [Engine.Sync]: autodetect, merge findings, persist, render
//   - [Engine.SyncProject]: render exactly the given project
//   - [Engine.AutodetectOnly]: merge findings and persist without rendering
//   - [Engine.CheckDrift]: render into a scratch directory and diff
//   - [Engine.RemoveAgent]: clean up one agent and re-render the rest
//
// Rendering is sequential and best effort. A project without an existing
// directory fails before any agent is touched; after that, an agent whose
// render fails is logged, listed in [Result.Failed] and skipped.
//
// Nothing guards a project directory against two concurrent syncs.
package engine
