package skill

import (
	"bytes"
	"os"
	"strings"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/pkg/frontmatter"
)

// Document is the parsed form of a SKILL.md file.
type Document struct {
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description"`
	License       string            `yaml:"license,omitempty"`
	Compatibility []string          `yaml:"compatibility,omitempty"`
	Metadata      map[string]any    `yaml:"metadata,omitempty"`
	AllowedTools  string            `yaml:"allowed-tools,omitempty"`

	// Body is the markdown after the frontmatter, trimmed.
	Body string `yaml:"-"`
}

// ParseError reports a SKILL.md that could not be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return "parsing skill: " + e.Err.Error()
	}
	return "parsing skill " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseDocument parses SKILL.md content. Frontmatter is optional; a file
// without it is all body. The path is used for error context only.
func ParseDocument(data []byte, path string) (*Document, error) {
	doc, body, err := frontmatter.ParseOptional[Document](bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Path: path, Err: errors.Malformed(err, "frontmatter")}
	}
	doc.Body = strings.TrimSpace(body)
	return &doc, nil
}

// ParseHeader reads only the frontmatter of the SKILL.md at path.
func ParseHeader(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: errors.NewIOError(path, err)}
	}
	defer f.Close()

	var doc Document
	if err := frontmatter.ParseHeader(f, &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &doc, nil
}
