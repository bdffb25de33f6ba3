package config

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/logging"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates a version this build does not understand.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidLinkMode indicates skills.link_mode is neither copy nor symlink.
	ErrInvalidLinkMode = errors.New("invalid link mode")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

var envReplacer = strings.NewReplacer(".", "_")

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, &FieldError{Field: "version", Value: strconv.Itoa(cfg.Version), Err: ErrUnsupportedVersion})
	}

	switch cfg.Skills.LinkMode {
	case "", LinkCopy, LinkSymlink:
	default:
		errs = append(errs, &FieldError{Field: "skills.link_mode", Value: cfg.Skills.LinkMode, Err: ErrInvalidLinkMode})
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, &FieldError{Field: "log.level", Value: cfg.Log.Level, Err: err})
	}
	if _, err := logging.ParseFormat(cfg.Log.Format); err != nil {
		errs = append(errs, &FieldError{Field: "log.format", Value: cfg.Log.Format, Err: err})
	}

	for field, p := range map[string]string{"home": cfg.Home, "data_dir": cfg.DataDir, "self_command": cfg.SelfCommand} {
		if err := validatePath(p); err != nil {
			errs = append(errs, &FieldError{Field: field, Value: p, Err: err})
		}
	}

	return errs
}

// validatePath checks that a path string is well-formed without touching disk.
// Empty means "use the default".
func validatePath(path string) error {
	if path == "" {
		return nil
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	if cleaned := filepath.Clean(path); cleaned == "." {
		return ErrInvalidPath
	}
	return nil
}

// FieldError ties a validation failure to the config key that caused it.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func joinErrors(errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	// Sorted so map iteration order never changes the message
	slices.Sort(msgs)
	return errors.Mark(errors.New(strings.Join(msgs, "; ")), errors.ErrInvalidConfig)
}
