package agent

import (
	"maps"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/mcp"
)

// opencodeEntry folds command and args into one array and calls env
// "environment". Transport is local or remote.
type opencodeEntry struct {
	table fieldTable
}

func (e opencodeEntry) toNative(s *mcp.Server) map[string]any {
	p := e.table.forTransport(s.Transport())
	out := unknownToNative(s)
	out["type"] = p.typeName

	if s.IsStdio() {
		out["command"] = append([]string{s.Command}, s.Args...)
		if len(s.Env) > 0 {
			out["environment"] = stringMapAny(s.Env)
		}
	} else {
		out["url"] = s.URL
		if len(s.Headers) > 0 {
			out["headers"] = stringMapAny(s.Headers)
		}
		if len(s.OAuth) > 0 {
			out["oauth"] = s.OAuth
		}
	}
	if s.Enabled != nil {
		out["enabled"] = *s.Enabled
	}
	return out
}

func (e opencodeEntry) fromNative(name string, raw map[string]any) (*mcp.Server, error) {
	f := nativeFields(maps.Clone(raw))
	s := &mcp.Server{Name: name}
	tag := f.takeString("type")

	var err error
	switch cmd := f.take("command").(type) {
	case nil:
	case string:
		s.Command = cmd
	default:
		argv, err := asStrings(cmd)
		if err != nil {
			return nil, errors.Malformed(err, "command of "+name)
		}
		if len(argv) > 0 {
			s.Command = argv[0]
		}
		if len(argv) > 1 {
			s.Args = argv[1:]
		}
	}
	if s.Env, err = asStringMap(f.take("environment")); err != nil {
		return nil, errors.Malformed(err, "environment of "+name)
	}
	s.URL = f.takeString("url")
	if s.Headers, err = asStringMap(f.take("headers")); err != nil {
		return nil, errors.Malformed(err, "headers of "+name)
	}
	if oauth, ok := asMap(f.take("oauth")); ok {
		s.OAuth = oauth
	}
	if s.Enabled, err = asBool(f.take("enabled")); err != nil {
		return nil, errors.Malformed(err, "enabled of "+name)
	}
	f.keepRest(s)

	return finishServer(s, e.table.transportFor(tag), tag)
}
