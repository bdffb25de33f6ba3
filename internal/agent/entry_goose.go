package agent

import (
	"maps"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/mcp"
)

// gooseEntry writes extensions: the entry repeats its own name and uses
// cmd, envs and uri.
type gooseEntry struct {
	table fieldTable
}

func (e gooseEntry) toNative(s *mcp.Server) map[string]any {
	p := e.table.forTransport(s.Transport())
	out := unknownToNative(s)
	out["name"] = s.Name
	out["type"] = p.typeName

	if s.IsStdio() {
		out["cmd"] = s.Command
		if len(s.Args) > 0 {
			out["args"] = s.Args
		}
		if len(s.Env) > 0 {
			out["envs"] = stringMapAny(s.Env)
		}
	} else {
		out["uri"] = s.URL
		if len(s.Headers) > 0 {
			out["headers"] = stringMapAny(s.Headers)
		}
	}
	if s.Enabled != nil {
		out["enabled"] = *s.Enabled
	}
	if s.Timeout != nil {
		out["timeout"] = *s.Timeout
	}
	return out
}

func (e gooseEntry) fromNative(name string, raw map[string]any) (*mcp.Server, error) {
	f := nativeFields(maps.Clone(raw))
	delete(f, "name")
	s := &mcp.Server{Name: name}
	tag := f.takeString("type")

	s.Command = f.takeString("cmd")
	s.URL = f.takeString("uri")

	var err error
	if s.Args, err = asStrings(f.take("args")); err != nil {
		return nil, errors.Malformed(err, "args of "+name)
	}
	if s.Env, err = asStringMap(f.take("envs")); err != nil {
		return nil, errors.Malformed(err, "envs of "+name)
	}
	if s.Headers, err = asStringMap(f.take("headers")); err != nil {
		return nil, errors.Malformed(err, "headers of "+name)
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
