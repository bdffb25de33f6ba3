package agent

import (
	"bytes"
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/mcp"
)

// codec reads and writes the managed server section of one native file.
type codec interface {
	// encode returns existing with the managed section set to servers.
	encode(existing []byte, servers map[string]*mcp.Server) ([]byte, error)

	// decode returns the servers found in data. Entries that fail to decode
	// are skipped and reported through the joined error.
	decode(data []byte) (map[string]*mcp.Server, error)

	// strip removes the managed section; empty reports that nothing is left.
	strip(existing []byte) (rest []byte, empty bool, err error)

	// contains reports whether data carries the managed section.
	contains(data []byte) bool
}

func buildSection(servers map[string]*mcp.Server, entry entryTranslator) map[string]any {
	section := make(map[string]any, len(servers))
	for name, s := range servers {
		named := s
		if named.Name != name {
			named = s.Clone()
			named.Name = name
		}
		section[name] = entry.toNative(named)
	}
	return section
}

func decodeSection(section map[string]any, entry entryTranslator) (map[string]*mcp.Server, error) {
	servers := make(map[string]*mcp.Server, len(section))
	var errs []error
	for _, name := range sortedKeys(section) {
		raw, ok := asMap(normalizeAny(section[name]))
		if !ok {
			errs = append(errs, errors.Malformed(errors.Newf("entry %q is not an object", name), "decoding servers"))
			continue
		}
		s, err := entry.fromNative(name, raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		servers[name] = s
	}
	return servers, errors.Join(errs...)
}

// jsonCodec manages one top-level key of a JSON document by byte splicing.
type jsonCodec struct {
	key   string
	entry entryTranslator
}

func (c jsonCodec) encode(existing []byte, servers map[string]*mcp.Server) ([]byte, error) {
	return spliceJSON(existing, c.key, buildSection(servers, c.entry))
}

func (c jsonCodec) decode(data []byte) (map[string]*mcp.Server, error) {
	raw, ok, err := jsonValue(data, c.key)
	if err != nil || !ok {
		return map[string]*mcp.Server{}, err
	}
	var section map[string]any
	if err := json.Unmarshal(raw, &section); err != nil {
		return map[string]*mcp.Server{}, errors.Malformed(err, "decoding "+c.key)
	}
	return decodeSection(section, c.entry)
}

func (c jsonCodec) strip(existing []byte) ([]byte, bool, error) {
	return removeJSONKey(existing, c.key)
}

func (c jsonCodec) contains(data []byte) bool {
	_, ok, err := jsonValue(data, c.key)
	return err == nil && ok
}

// tomlCodec manages one table of a TOML document. Other keys survive by
// value; comments and layout do not.
type tomlCodec struct {
	key   string
	entry entryTranslator
}

func (c tomlCodec) load(data []byte) (map[string]any, error) {
	doc := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Malformed(err, "decoding TOML")
	}
	return doc, nil
}

func (c tomlCodec) encode(existing []byte, servers map[string]*mcp.Server) ([]byte, error) {
	doc, err := c.load(existing)
	if err != nil {
		return nil, err
	}
	doc[c.key] = buildSection(servers, c.entry)
	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encoding TOML")
	}
	return out, nil
}

func (c tomlCodec) decode(data []byte) (map[string]*mcp.Server, error) {
	doc, err := c.load(data)
	if err != nil {
		return map[string]*mcp.Server{}, err
	}
	section, ok := asMap(doc[c.key])
	if !ok {
		return map[string]*mcp.Server{}, nil
	}
	return decodeSection(section, c.entry)
}

func (c tomlCodec) strip(existing []byte) ([]byte, bool, error) {
	doc, err := c.load(existing)
	if err != nil {
		return nil, false, err
	}
	if _, ok := doc[c.key]; !ok {
		return existing, len(doc) == 0, nil
	}
	delete(doc, c.key)
	if len(doc) == 0 {
		return nil, true, nil
	}
	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, false, errors.Wrap(err, "encoding TOML")
	}
	return out, false, nil
}

func (c tomlCodec) contains(data []byte) bool {
	doc, err := c.load(data)
	if err != nil {
		return false
	}
	_, ok := doc[c.key]
	return ok
}

// yamlCodec manages one mapping of a YAML document, by value.
type yamlCodec struct {
	key   string
	entry entryTranslator
}

func (c yamlCodec) load(data []byte) (map[string]any, error) {
	doc := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Malformed(err, "decoding YAML")
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func (c yamlCodec) marshal(doc map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, "encoding YAML")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encoding YAML")
	}
	return buf.Bytes(), nil
}

func (c yamlCodec) encode(existing []byte, servers map[string]*mcp.Server) ([]byte, error) {
	doc, err := c.load(existing)
	if err != nil {
		return nil, err
	}
	doc[c.key] = buildSection(servers, c.entry)
	return c.marshal(doc)
}

func (c yamlCodec) decode(data []byte) (map[string]*mcp.Server, error) {
	doc, err := c.load(data)
	if err != nil {
		return map[string]*mcp.Server{}, err
	}
	section, ok := asMap(normalizeAny(doc[c.key]))
	if !ok {
		return map[string]*mcp.Server{}, nil
	}
	return decodeSection(section, c.entry)
}

func (c yamlCodec) strip(existing []byte) ([]byte, bool, error) {
	doc, err := c.load(existing)
	if err != nil {
		return nil, false, err
	}
	if _, ok := doc[c.key]; !ok {
		return existing, len(doc) == 0, nil
	}
	delete(doc, c.key)
	if len(doc) == 0 {
		return nil, true, nil
	}
	out, err := c.marshal(doc)
	return out, false, err
}

func (c yamlCodec) contains(data []byte) bool {
	doc, err := c.load(data)
	if err != nil {
		return false
	}
	_, ok := doc[c.key]
	return ok
}
