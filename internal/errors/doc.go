// Package errors provides the error taxonomy and wrapping conventions for nexus.
//
// Every package in the module imports this package as "errors" and uses its
// [Wrap], [Wrapf], [New] and [Newf] helpers, which delegate to
// github.com/cockroachdb/errors so stack traces and hints survive wrapping.
//
// # Taxonomy
//
//   - [ErrInvalidName]: unsafe characters or path traversal in a name
//   - [ErrDirectoryMissing]: project directory unset or absent (fatal for sync)
//   - [IOError]: a filesystem failure tied to a path
//   - [ErrMalformedData]: JSON/TOML/YAML parse failure
//   - [ErrUnknownAgent]: no variant registered for an agent id
//
// Callers test for these with [Is]:
//
//	if errors.Is(err, errors.ErrDirectoryMissing) {
//	    // abort before any per-agent work
//	}
//
// # Exit Codes
//
// [Classify] maps a taxonomy error onto an [ExitError] carrying an exit code
// and the suggestion the CLI prints below the message.
package errors
