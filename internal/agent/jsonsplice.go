package agent

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/thoreinstein/nexus/internal/errors"
)

// Shared JSON settings files are edited by splicing bytes: the value span of
// the one managed key is replaced and every other byte of the document,
// including key order and formatting, is left as it was.

// jsonMember records where one top-level member sits in the document.
type jsonMember struct {
	key        string
	keyStart   int
	valueStart int
	valueEnd   int
}

type jsonObject struct {
	open, close int
	members     []jsonMember
}

func (o *jsonObject) find(key string) int {
	for i, m := range o.members {
		if m.key == key {
			return i
		}
	}
	return -1
}

// parseTopLevel locates the members of a top-level JSON object.
func parseTopLevel(doc []byte) (*jsonObject, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Malformed(err, "reading JSON document")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.Malformed(errors.New("top-level value is not an object"), "reading JSON document")
	}
	obj := &jsonObject{open: int(dec.InputOffset()) - 1}

	for dec.More() {
		from := int(dec.InputOffset())
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Malformed(err, "reading JSON key")
		}
		key, _ := tok.(string)
		keyStart := from + bytes.IndexByte(doc[from:], '"')

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Malformed(err, "reading JSON value for "+key)
		}
		end := int(dec.InputOffset())
		obj.members = append(obj.members, jsonMember{
			key:        key,
			keyStart:   keyStart,
			valueStart: end - len(raw),
			valueEnd:   end,
		})
	}

	if _, err := dec.Token(); err != nil {
		return nil, errors.Malformed(err, "reading end of JSON object")
	}
	obj.close = int(dec.InputOffset()) - 1

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.Malformed(errors.New("trailing data after object"), "reading JSON document")
	}
	return obj, nil
}

// jsonValue returns the raw value of a top-level key.
func jsonValue(doc []byte, key string) (json.RawMessage, bool, error) {
	if len(bytes.TrimSpace(doc)) == 0 {
		return nil, false, nil
	}
	obj, err := parseTopLevel(doc)
	if err != nil {
		return nil, false, err
	}
	i := obj.find(key)
	if i < 0 {
		return nil, false, nil
	}
	m := obj.members[i]
	return json.RawMessage(doc[m.valueStart:m.valueEnd]), true, nil
}

// spliceJSON sets key to value in doc, replacing only the old value's bytes
// or inserting a new member after the last one.
func spliceJSON(doc []byte, key string, value any) ([]byte, error) {
	quotedKey, err := json.Marshal(key)
	if err != nil {
		return nil, errors.Wrap(err, "encoding key")
	}

	if len(bytes.TrimSpace(doc)) == 0 {
		rendered, err := json.MarshalIndent(value, "  ", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "encoding value")
		}
		var buf bytes.Buffer
		buf.WriteString("{\n  ")
		buf.Write(quotedKey)
		buf.WriteString(": ")
		buf.Write(rendered)
		buf.WriteString("\n}\n")
		return buf.Bytes(), nil
	}

	obj, err := parseTopLevel(doc)
	if err != nil {
		return nil, err
	}

	if i := obj.find(key); i >= 0 {
		m := obj.members[i]
		indent := lineIndent(doc, m.keyStart)
		rendered, err := json.MarshalIndent(value, indent, indentUnit(indent))
		if err != nil {
			return nil, errors.Wrap(err, "encoding value")
		}
		return splice(doc, m.valueStart, m.valueEnd, rendered), nil
	}

	indent := "  "
	if n := len(obj.members); n > 0 {
		if li := lineIndent(doc, obj.members[n-1].keyStart); li != "" {
			indent = li
		}
	}
	rendered, err := json.MarshalIndent(value, indent, indentUnit(indent))
	if err != nil {
		return nil, errors.Wrap(err, "encoding value")
	}

	var member bytes.Buffer
	if n := len(obj.members); n > 0 {
		member.WriteString(",\n")
		member.WriteString(indent)
		member.Write(quotedKey)
		member.WriteString(": ")
		member.Write(rendered)
		at := obj.members[n-1].valueEnd
		return splice(doc, at, at, member.Bytes()), nil
	}

	member.WriteString("\n")
	member.WriteString(indent)
	member.Write(quotedKey)
	member.WriteString(": ")
	member.Write(rendered)
	member.WriteString("\n")
	return splice(doc, obj.open+1, obj.close, member.Bytes()), nil
}

// removeJSONKey deletes a top-level member. empty reports whether the
// object has no members left.
func removeJSONKey(doc []byte, key string) (out []byte, empty bool, err error) {
	if len(bytes.TrimSpace(doc)) == 0 {
		return doc, true, nil
	}
	obj, err := parseTopLevel(doc)
	if err != nil {
		return nil, false, err
	}

	i := obj.find(key)
	switch {
	case i < 0:
		return doc, len(obj.members) == 0, nil
	case len(obj.members) == 1:
		return splice(doc, obj.open+1, obj.close, nil), true, nil
	case i == 0:
		return splice(doc, obj.members[0].keyStart, obj.members[1].keyStart, nil), false, nil
	default:
		return splice(doc, obj.members[i-1].valueEnd, obj.members[i].valueEnd, nil), false, nil
	}
}

func splice(doc []byte, start, end int, repl []byte) []byte {
	out := make([]byte, 0, len(doc)-(end-start)+len(repl))
	out = append(out, doc[:start]...)
	out = append(out, repl...)
	return append(out, doc[end:]...)
}

// lineIndent returns the whitespace between the start of the line holding
// pos and pos itself, or "" when other text precedes pos on that line.
func lineIndent(doc []byte, pos int) string {
	lineStart := bytes.LastIndexByte(doc[:pos], '\n') + 1
	prefix := doc[lineStart:pos]
	if len(bytes.TrimLeft(prefix, " \t")) != 0 {
		return ""
	}
	return string(prefix)
}

func indentUnit(indent string) string {
	if indent == "" {
		return "  "
	}
	if indent[0] == '\t' {
		return "\t"
	}
	if len(indent) >= 4 && len(indent)%4 == 0 {
		return "    "
	}
	return "  "
}
