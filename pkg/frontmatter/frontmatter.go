package frontmatter

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoFrontmatter is returned when the document does not open with "---".
	ErrNoFrontmatter = errors.New("no frontmatter found")

	// ErrInvalidYAML is returned when the frontmatter block is not valid YAML.
	ErrInvalidYAML = errors.New("invalid YAML in frontmatter")

	// ErrUnterminated is returned when the opening delimiter has no closing pair.
	ErrUnterminated = errors.New("missing closing frontmatter delimiter")
)

// Parse reads a document that must carry frontmatter and decodes it into T.
// Line endings are normalized to LF in the returned body.
func Parse[T any](r io.Reader) (T, string, error) {
	var meta T
	content, err := io.ReadAll(r)
	if err != nil {
		return meta, "", errors.Wrap(err, "reading document")
	}

	raw, body, ok := split(normalize(content))
	if !ok {
		if hasOpening(normalize(content)) {
			return meta, "", ErrUnterminated
		}
		return meta, "", ErrNoFrontmatter
	}
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return meta, "", errors.Mark(errors.Wrap(err, "decoding frontmatter"), ErrInvalidYAML)
	}
	return meta, body, nil
}

// ParseOptional is like Parse but treats a missing block as an empty T with
// the whole document as body. Rule files use this.
func ParseOptional[T any](r io.Reader) (T, string, error) {
	var meta T
	content, err := io.ReadAll(r)
	if err != nil {
		return meta, "", errors.Wrap(err, "reading document")
	}
	norm := normalize(content)
	raw, body, ok := split(norm)
	if !ok {
		return meta, string(norm), nil
	}
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return meta, "", errors.Mark(errors.Wrap(err, "decoding frontmatter"), ErrInvalidYAML)
	}
	return meta, body, nil
}

// ParseFile opens path and calls Parse on it.
func ParseFile[T any](path string) (T, string, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, "", err
	}
	defer f.Close()
	return Parse[T](f)
}

// ParseHeader decodes only the frontmatter, stopping at the closing
// delimiter so large bodies are never read. A document without frontmatter
// leaves matter untouched and returns nil.
func ParseHeader(r io.Reader, matter any) error {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return scanner.Err()
	}
	if strings.TrimSpace(scanner.Text()) != "---" {
		return nil
	}

	var buf bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			if err := yaml.Unmarshal(buf.Bytes(), matter); err != nil {
				return errors.Mark(errors.Wrap(err, "decoding frontmatter"), ErrInvalidYAML)
			}
			return nil
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return ErrUnterminated
}

// Format renders matter as a YAML block between "---" delimiters followed by body.
func Format(matter any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(matter); err != nil {
		return nil, errors.Wrap(err, "encoding frontmatter")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encoding frontmatter")
	}

	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(strings.TrimLeft(body, "\n"))
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

func normalize(content []byte) []byte {
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}

func hasOpening(content []byte) bool {
	return bytes.HasPrefix(content, []byte("---\n"))
}

// split separates the YAML block from the body. The body keeps everything
// after the newline that ends the closing delimiter.
func split(content []byte) ([]byte, string, bool) {
	if !hasOpening(content) {
		return nil, "", false
	}
	rest := content[len("---\n"):]

	// Empty block: closing delimiter immediately follows
	if bytes.HasPrefix(rest, []byte("---")) {
		after := rest[3:]
		if len(after) == 0 || after[0] == '\n' {
			return nil, string(bytes.TrimPrefix(after, []byte("\n"))), true
		}
	}

	idx := bytes.Index(rest, []byte("\n---"))
	for idx >= 0 {
		end := idx + len("\n---")
		if end == len(rest) || rest[end] == '\n' {
			body := rest[end:]
			return rest[:idx+1], string(bytes.TrimPrefix(body, []byte("\n"))), true
		}
		next := bytes.Index(rest[end:], []byte("\n---"))
		if next < 0 {
			break
		}
		idx = end + next
	}
	return nil, "", false
}
