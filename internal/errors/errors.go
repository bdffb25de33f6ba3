package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors forming the engine's error taxonomy.
var (
	// ErrInvalidName indicates a name with unsafe characters or path traversal.
	ErrInvalidName = crdb.New("invalid name")

	// ErrDirectoryMissing indicates the project has no directory or it does not exist.
	// This is the only fatal precondition of a sync.
	ErrDirectoryMissing = crdb.New("project directory missing")

	// ErrMalformedData indicates a JSON or other structured parse failure.
	ErrMalformedData = crdb.New("malformed data")

	// ErrUnknownAgent indicates an agent id with no registered variant.
	ErrUnknownAgent = crdb.New("unknown agent")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = crdb.New("resource not found")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = crdb.New("invalid configuration")
)

// IOError records a filesystem failure against the path that caused it.
type IOError struct {
	Path string
	Err  error
}

// NewIOError wraps err with the path it occurred on. Returns nil for a nil err.
func NewIOError(path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Path: path, Err: err}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Malformed marks err as ErrMalformedData while keeping its message.
func Malformed(err error, msg string) error {
	if err == nil {
		return nil
	}
	return crdb.Mark(crdb.WrapWithDepth(1, err, msg), ErrMalformedData)
}

// New creates an error with a stack trace recorded at the caller.
func New(msg string) error {
	return crdb.NewWithDepth(1, msg)
}

// Newf creates a formatted error with a stack trace recorded at the caller.
func Newf(format string, args ...any) error {
	return crdb.NewWithDepthf(1, format, args...)
}

// Wrap annotates err with msg. Returns nil when err is nil.
func Wrap(err error, msg string) error {
	return crdb.WrapWithDepth(1, err, msg)
}

// Wrapf annotates err with a formatted message. Returns nil when err is nil.
func Wrapf(err error, format string, args ...any) error {
	return crdb.WrapWithDepthf(1, err, format, args...)
}

// Join combines errs into one error; nil entries are ignored.
func Join(errs ...error) error {
	return crdb.Join(errs...)
}

// Mark makes err match reference under Is without changing its message.
func Mark(err, reference error) error {
	return crdb.Mark(err, reference)
}

// WithHint attaches a user-facing hint to err.
func WithHint(err error, hint string) error {
	return crdb.WithHint(err, hint)
}

// FlattenHints returns all hints attached to err joined by newlines.
func FlattenHints(err error) string {
	return crdb.FlattenHints(err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return crdb.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return crdb.As(err, target)
}

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// Classify converts an engine error into an ExitError, choosing the exit code
// from the taxonomy and carrying any attached hint as the suggestion.
func Classify(err error) *ExitError {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if As(err, &exitErr) {
		return exitErr
	}

	suggestion := FlattenHints(err)
	switch {
	case Is(err, ErrDirectoryMissing):
		if suggestion == "" {
			suggestion = "Run: nexus project set <name> --dir <path>"
		}
		return NewUserError(err, suggestion)
	case Is(err, ErrUnknownAgent):
		if suggestion == "" {
			suggestion = "Run: nexus agent list"
		}
		return NewUserError(err, suggestion)
	case Is(err, ErrInvalidName), Is(err, ErrNotFound), Is(err, ErrMalformedData), Is(err, ErrInvalidConfig):
		return NewUserError(err, suggestion)
	default:
		return NewSystemError(err, suggestion)
	}
}

// Error returns the error message from the underlying error.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}
