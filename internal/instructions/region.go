package instructions

import (
	"strings"
)

// Markers delimit one engine-owned block inside a user-authored file.
type Markers struct {
	Start string
	End   string
}

var (
	// Rules delimits the rules appended to instruction files.
	Rules = Markers{Start: "<!-- nexus:rules:start -->", End: "<!-- nexus:rules:end -->"}

	// LegacySkills delimits the skills list older versions wrote. It is
	// only ever removed.
	LegacySkills = Markers{Start: "<!-- nexus:skills:start -->", End: "<!-- nexus:skills:end -->"}
)

// Region is a managed block located in a text. Start and End are byte
// offsets of the whole block, markers included. When Found is false the
// block is absent and Apply appends.
type Region struct {
	Markers Markers
	Start   int
	End     int
	Found   bool

	// Body replaces the block's content; empty removes the block.
	Body string
}

// Locate finds the first complete block delimited by m. A start marker
// without a matching end is treated as absent so user text is never cut.
func Locate(text string, m Markers) Region {
	r := Region{Markers: m, Start: len(text), End: len(text)}
	start := strings.Index(text, m.Start)
	if start < 0 {
		return r
	}
	rel := strings.Index(text[start+len(m.Start):], m.End)
	if rel < 0 {
		return r
	}
	r.Start = start
	r.End = start + len(m.Start) + rel + len(m.End)
	r.Found = true
	return r
}

// Block renders the markers around body.
func (r Region) Block() string {
	return r.Markers.Start + "\n" + strings.TrimSpace(r.Body) + "\n" + r.Markers.End
}

// Apply returns text with the region replaced, removed or appended.
func (r Region) Apply(text string) string {
	body := strings.TrimSpace(r.Body)
	switch {
	case r.Found && body != "":
		return text[:r.Start] + r.Block() + text[r.End:]
	case r.Found:
		before := strings.TrimRight(text[:r.Start], "\n")
		after := strings.TrimLeft(text[r.End:], "\n")
		switch {
		case before == "":
			return after
		case after == "":
			return before + "\n"
		default:
			return before + "\n\n" + after
		}
	case body != "":
		trimmed := strings.TrimRight(text, "\n")
		if trimmed == "" {
			return r.Block() + "\n"
		}
		return trimmed + "\n\n" + r.Block() + "\n"
	default:
		return text
	}
}

// Merge sets the block delimited by m to body, removing it when body is empty.
func Merge(text string, m Markers, body string) string {
	r := Locate(text, m)
	r.Body = body
	return r.Apply(text)
}

// Strip removes every complete block delimited by m.
func Strip(text string, m Markers) string {
	for {
		r := Locate(text, m)
		if !r.Found {
			return text
		}
		text = r.Apply(text)
	}
}

// UserBody returns the user-authored part of an instruction file: the text
// with every managed block removed, trimmed.
func UserBody(text string) string {
	text = Strip(text, LegacySkills)
	text = Strip(text, Rules)
	return strings.TrimSpace(text)
}

// Render builds an instruction file from a user body and a rules block.
func Render(body, rules string) string {
	text := ""
	if b := strings.TrimSpace(body); b != "" {
		text = b + "\n"
	}
	return Merge(text, Rules, rules)
}

// Refresh drops legacy blocks from an existing file and sets its rules block.
func Refresh(text, rules string) string {
	return Merge(Strip(text, LegacySkills), Rules, rules)
}
