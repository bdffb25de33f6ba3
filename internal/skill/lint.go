package skill

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const maxNameLength = 64

// lintNameRegex accepts lowercase alphanumeric segments joined by single hyphens.
var lintNameRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// toolRegex matches ToolName or ToolName(scope); names are PascalCase.
var toolRegex = regexp.MustCompile(`^([A-Z][a-zA-Z0-9]*)(?:\(([^)]+)\))?$`)

// LintIssue is a non-fatal problem in a SKILL.md. Skills with issues still
// sync; tools may ignore or reject them.
type LintIssue struct {
	Field   string
	Message string
	Value   string
}

func (i *LintIssue) Error() string {
	if i.Value == "" {
		return fmt.Sprintf("%s: %s", i.Field, i.Message)
	}
	return fmt.Sprintf("%s %q: %s", i.Field, i.Value, i.Message)
}

// Permission is one entry of the allowed-tools field.
type Permission struct {
	Name  string
	Scope string
}

func (p Permission) String() string {
	if p.Scope == "" {
		return p.Name
	}
	return p.Name + "(" + p.Scope + ")"
}

// ParseAllowedTools splits a space-delimited allowed-tools value.
func ParseAllowedTools(s string) ([]Permission, error) {
	fields := strings.Fields(s)
	perms := make([]Permission, 0, len(fields))
	for _, tok := range fields {
		m := toolRegex.FindStringSubmatch(tok)
		if m == nil {
			return nil, &LintIssue{
				Field:   "allowed-tools",
				Message: "tool name must be PascalCase, optionally followed by (scope)",
				Value:   tok,
			}
		}
		perms = append(perms, Permission{Name: m[1], Scope: m[2]})
	}
	return perms, nil
}

// Lint checks doc against the conventions agents expect. path is the
// SKILL.md location; its directory name must match the declared name.
func Lint(doc *Document, path string) []error {
	var issues []error

	switch {
	case doc.Name == "":
		issues = append(issues, &LintIssue{Field: "name", Message: "name is required"})
	case len(doc.Name) > maxNameLength:
		issues = append(issues, &LintIssue{Field: "name", Message: "name exceeds 64 characters", Value: doc.Name})
	case !lintNameRegex.MatchString(doc.Name):
		msg := "name must be lowercase alphanumeric with single hyphens between segments"
		if strings.HasPrefix(doc.Name, "-") || strings.HasSuffix(doc.Name, "-") {
			msg = "name cannot start or end with a hyphen"
		} else if strings.Contains(doc.Name, "--") {
			msg = "name cannot contain consecutive hyphens"
		}
		issues = append(issues, &LintIssue{Field: "name", Message: msg, Value: doc.Name})
	}

	if doc.Name != "" && path != "" {
		if dir := filepath.Base(filepath.Dir(path)); dir != doc.Name {
			issues = append(issues, &LintIssue{
				Field:   "name",
				Message: "name must match directory " + dir,
				Value:   doc.Name,
			})
		}
	}

	if strings.TrimSpace(doc.Description) == "" {
		issues = append(issues, &LintIssue{Field: "description", Message: "description is required"})
	}

	if doc.AllowedTools != "" {
		if _, err := ParseAllowedTools(doc.AllowedTools); err != nil {
			issues = append(issues, err)
		}
	}
	return issues
}
