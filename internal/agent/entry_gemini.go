package agent

import (
	"maps"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/mcp"
)

// geminiEntry encodes the transport in the URL key: httpUrl for streamable
// HTTP, url for SSE, and no type tag at all.
type geminiEntry struct{}

func (geminiEntry) toNative(s *mcp.Server) map[string]any {
	out := unknownToNative(s)
	switch s.Transport() {
	case mcp.TransportHTTP:
		out["httpUrl"] = s.URL
	case mcp.TransportSSE:
		out["url"] = s.URL
	default:
		out["command"] = s.Command
		if len(s.Args) > 0 {
			out["args"] = s.Args
		}
		if len(s.Env) > 0 {
			out["env"] = stringMapAny(s.Env)
		}
	}
	if s.IsRemote() {
		if len(s.Headers) > 0 {
			out["headers"] = stringMapAny(s.Headers)
		}
		if len(s.OAuth) > 0 {
			out["oauth"] = s.OAuth
		}
	}
	if s.Timeout != nil {
		out["timeout"] = *s.Timeout
	}
	return out
}

func (geminiEntry) fromNative(name string, raw map[string]any) (*mcp.Server, error) {
	f := nativeFields(maps.Clone(raw))
	s := &mcp.Server{Name: name}

	transport := ""
	s.Command = f.takeString("command")
	if u := f.takeString("httpUrl"); u != "" {
		s.URL, transport = u, mcp.TransportHTTP
	} else if u := f.takeString("url"); u != "" {
		s.URL, transport = u, mcp.TransportSSE
	}
	if s.Command != "" {
		transport = mcp.TransportStdio
	}
	tag := f.takeString("type")

	var err error
	if s.Args, err = asStrings(f.take("args")); err != nil {
		return nil, errors.Malformed(err, "args of "+name)
	}
	if s.Env, err = asStringMap(f.take("env")); err != nil {
		return nil, errors.Malformed(err, "env of "+name)
	}
	if s.Headers, err = asStringMap(f.take("headers")); err != nil {
		return nil, errors.Malformed(err, "headers of "+name)
	}
	if oauth, ok := asMap(f.take("oauth")); ok {
		s.OAuth = oauth
	}
	if s.Timeout, err = asFloat(f.take("timeout")); err != nil {
		return nil, errors.Malformed(err, "timeout of "+name)
	}
	f.keepRest(s)

	return finishServer(s, transport, tag)
}
