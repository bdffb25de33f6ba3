package agent

import (
	"maps"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/mcp"
)

// entryTranslator converts one server between the canonical shape and the
// generic map a native codec encodes.
type entryTranslator interface {
	toNative(s *mcp.Server) map[string]any
	fromNative(name string, raw map[string]any) (*mcp.Server, error)
}

// canonicalTransport maps the transport tags used across tools onto the
// canonical set. Used when a file carries a tag the variant does not write.
func canonicalTransport(tag string) string {
	switch tag {
	case "stdio", "local":
		return mcp.TransportStdio
	case "http", "streamable-http", "streamable_http", "streamableHttp", "remote":
		return mcp.TransportHTTP
	case "sse":
		return mcp.TransportSSE
	}
	return ""
}

// nativeFields is a consumable view over a decoded native entry; whatever is
// left after the known keys are taken becomes unknown fields.
type nativeFields map[string]any

func (f nativeFields) take(key string) any {
	v := f[key]
	delete(f, key)
	return v
}

func (f nativeFields) takeString(key string) string {
	s, _ := asString(f.take(key))
	return s
}

func (f nativeFields) keepRest(s *mcp.Server) {
	for _, k := range sortedKeys(f) {
		if raw, ok := fromAny(f[k]); ok {
			s.SetUnknown(k, raw)
		}
	}
}

// unknownToNative seeds a native entry with the server's unknown fields.
func unknownToNative(s *mcp.Server) map[string]any {
	out := make(map[string]any, len(s.Unknown())+8)
	for k, raw := range s.Unknown() {
		out[k] = toAny(raw)
	}
	return out
}

// finishServer applies the transport recovered from the tag, or infers it.
func finishServer(s *mcp.Server, transport, tag string) (*mcp.Server, error) {
	if transport == "" {
		transport = canonicalTransport(tag)
	}
	s.Type = transport
	if s.Command == "" && s.URL == "" {
		return nil, errors.Malformed(errors.Newf("server %q has neither command nor url", s.Name), "decoding entry")
	}
	return s.Normalize(), nil
}

// standardEntry is the command/args/env or url/headers layout shared by most
// tools. The transport tag, the headers key and a few constant extras vary.
type standardEntry struct {
	table fieldTable

	// headersKey overrides the native name of headers.
	headersKey string

	// extra is written into every entry and discarded on read.
	extra map[string]any
}

func (e standardEntry) headers() string {
	if e.headersKey != "" {
		return e.headersKey
	}
	return "headers"
}

func (e standardEntry) toNative(s *mcp.Server) map[string]any {
	p := e.table.forTransport(s.Transport())
	out := unknownToNative(s)
	maps.Copy(out, e.extra)

	if p.typeName != "" {
		out["type"] = p.typeName
	}
	if s.IsStdio() {
		out["command"] = s.Command
		if len(s.Args) > 0 {
			out["args"] = s.Args
		}
		if len(s.Env) > 0 {
			out["env"] = stringMapAny(s.Env)
		}
	} else {
		out["url"] = s.URL
		if len(s.Headers) > 0 && !p.drops(FieldHeaders) {
			out[e.headers()] = stringMapAny(s.Headers)
		}
		if len(s.OAuth) > 0 && !p.drops(FieldOAuth) {
			out["oauth"] = s.OAuth
		}
	}
	if s.Enabled != nil && !p.drops(FieldEnabled) {
		out["enabled"] = *s.Enabled
	}
	if s.Timeout != nil && !p.drops(FieldTimeout) {
		out["timeout"] = *s.Timeout
	}
	return out
}

func (e standardEntry) fromNative(name string, raw map[string]any) (*mcp.Server, error) {
	f := nativeFields(maps.Clone(raw))
	for k := range e.extra {
		delete(f, k)
	}

	s := &mcp.Server{Name: name}
	tag := f.takeString("type")
	s.Command = f.takeString("command")
	s.URL = f.takeString("url")

	var err error
	if s.Args, err = asStrings(f.take("args")); err != nil {
		return nil, errors.Malformed(err, "args of "+name)
	}
	if s.Env, err = asStringMap(f.take("env")); err != nil {
		return nil, errors.Malformed(err, "env of "+name)
	}
	if s.Headers, err = asStringMap(f.take(e.headers())); err != nil {
		return nil, errors.Malformed(err, "headers of "+name)
	}
	if oauth, ok := asMap(f.take("oauth")); ok {
		s.OAuth = oauth
	}
	if s.Enabled, err = asBool(f.take("enabled")); err != nil {
		return nil, errors.Malformed(err, "enabled of "+name)
	}
	if s.Timeout, err = asFloat(f.take("timeout")); err != nil {
		return nil, errors.Malformed(err, "timeout of "+name)
	}
	f.keepRest(s)

	return finishServer(s, e.table.transportFor(tag), tag)
}
