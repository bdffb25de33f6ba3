// Package frontmatter parses and formats the YAML frontmatter carried by
// skill documents (SKILL.md) and rule files.
//
// Frontmatter is delimited by lines containing only "---" at the start and end.
// The content between delimiters is decoded as YAML into the type parameter T.
// The remaining content after the closing delimiter is returned as the body.
//
// # Basic Usage
//
//	type SkillMeta struct {
//		Name        string `yaml:"name"`
//		Description string `yaml:"description"`
//	}
//
//	meta, body, err := frontmatter.ParseFile[SkillMeta]("SKILL.md")
//	if errors.Is(err, frontmatter.ErrNoFrontmatter) {
//		// handle missing frontmatter
//	}
//
// Both Unix (LF) and Windows (CRLF) line endings are accepted; bodies are
// returned with LF endings.
package frontmatter
