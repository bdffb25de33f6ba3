// Package logging provides structured logging for nexus using slog.
//
// Text output goes through [Handler], which colors levels on a terminal,
// prints times in Kitchen format and masks secret-looking attributes with
// the redact package. JSON output uses the standard slog JSON handler.
//
// # Levels
//
// The CLI maps its repeatable -v flag through [LevelFromVerbosity]; the
// extra [LevelTrace] level reports per-file decisions made while syncing.
//
// # Context
//
// Commands store their logger with [NewContext]; engine code retrieves it
// with [FromContext] and never reaches for a global.
//
// # Testing
//
// Use [ForTest] to send log output through t.Log:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
package logging
