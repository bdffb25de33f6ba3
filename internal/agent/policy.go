package agent

import (
	"slices"

	"github.com/thoreinstein/nexus/internal/mcp"
)

// Canonical field names as they appear in the canonical JSON shape.
const (
	FieldType    = "type"
	FieldEnabled = "enabled"
	FieldTimeout = "timeout"
	FieldOAuth   = "oauth"
	FieldHeaders = "headers"
)

// transportPolicy is the fixed export rule of one variant for one transport.
type transportPolicy struct {
	// typeName is the native transport tag; empty means the key is omitted
	// and discovery infers the transport from the fields present.
	typeName string

	// dropped lists canonical fields that do not survive write then discover.
	// "type" appears here only when the transport cannot be recovered.
	dropped []string
}

// fieldTable holds a variant's policy for every canonical transport.
type fieldTable struct {
	stdio, http, sse transportPolicy
}

func (t fieldTable) forTransport(transport string) transportPolicy {
	switch transport {
	case mcp.TransportHTTP:
		return t.http
	case mcp.TransportSSE:
		return t.sse
	default:
		return t.stdio
	}
}

// transportFor maps a native tag back to its canonical transport.
// Unknown or empty tags return "" so the caller can infer.
func (t fieldTable) transportFor(typeName string) string {
	if typeName == "" {
		return ""
	}
	for _, tr := range mcp.Transports {
		if t.forTransport(tr).typeName == typeName {
			return tr
		}
	}
	return ""
}

func (p transportPolicy) drops(field string) bool {
	return slices.Contains(p.dropped, field)
}

// fieldTables is the per-variant translation table. Stripping of enabled and
// timeout is deliberately not uniform across variants; each entry mirrors
// what the native tool accepts.
var fieldTables = map[string]fieldTable{
	"claude": {
		stdio: transportPolicy{typeName: "stdio", dropped: []string{FieldEnabled, FieldTimeout}},
		http:  transportPolicy{typeName: "http"},
		sse:   transportPolicy{typeName: "sse"},
	},
	"cursor": {
		stdio: transportPolicy{dropped: []string{FieldEnabled, FieldTimeout}},
		http:  transportPolicy{typeName: "http", dropped: []string{FieldEnabled, FieldTimeout}},
		sse:   transportPolicy{typeName: "sse", dropped: []string{FieldEnabled, FieldTimeout}},
	},
	"vscode": {
		stdio: transportPolicy{typeName: "stdio", dropped: []string{FieldEnabled, FieldTimeout}},
		http:  transportPolicy{typeName: "http", dropped: []string{FieldEnabled, FieldTimeout}},
		sse:   transportPolicy{typeName: "sse", dropped: []string{FieldEnabled, FieldTimeout}},
	},
	"gemini": {
		stdio: transportPolicy{dropped: []string{FieldEnabled}},
		http:  transportPolicy{dropped: []string{FieldEnabled}},
		sse:   transportPolicy{dropped: []string{FieldEnabled}},
	},
	"opencode": {
		stdio: transportPolicy{typeName: "local", dropped: []string{FieldTimeout}},
		http:  transportPolicy{typeName: "remote", dropped: []string{FieldTimeout}},
		sse:   transportPolicy{typeName: "remote", dropped: []string{FieldType, FieldTimeout}},
	},
	"codex": {
		stdio: transportPolicy{dropped: []string{FieldEnabled, FieldTimeout}},
		http:  transportPolicy{dropped: []string{FieldEnabled, FieldTimeout, FieldOAuth}},
		sse:   transportPolicy{dropped: []string{FieldType, FieldEnabled, FieldTimeout, FieldOAuth}},
	},
	"roo": {
		stdio: transportPolicy{dropped: []string{FieldEnabled}},
		http:  transportPolicy{typeName: "streamable-http", dropped: []string{FieldEnabled}},
		sse:   transportPolicy{typeName: "sse", dropped: []string{FieldEnabled}},
	},
	"kilocode": {
		stdio: transportPolicy{dropped: []string{FieldEnabled}},
		http:  transportPolicy{typeName: "streamable-http", dropped: []string{FieldEnabled}},
		sse:   transportPolicy{typeName: "sse", dropped: []string{FieldEnabled}},
	},
	"zed": {
		stdio: transportPolicy{dropped: []string{FieldEnabled, FieldTimeout}},
		http:  transportPolicy{dropped: []string{FieldEnabled, FieldTimeout, FieldOAuth}},
		sse:   transportPolicy{dropped: []string{FieldType, FieldEnabled, FieldTimeout, FieldOAuth}},
	},
	"amazonq": {
		stdio: transportPolicy{dropped: []string{FieldEnabled}},
		http:  transportPolicy{typeName: "http", dropped: []string{FieldEnabled}},
		sse:   transportPolicy{typeName: "sse", dropped: []string{FieldEnabled}},
	},
	"junie": {
		stdio: transportPolicy{dropped: []string{FieldEnabled, FieldTimeout}},
		http:  transportPolicy{typeName: "http", dropped: []string{FieldEnabled, FieldTimeout}},
		sse:   transportPolicy{typeName: "sse", dropped: []string{FieldEnabled, FieldTimeout}},
	},
	"goose": {
		stdio: transportPolicy{typeName: "stdio"},
		http:  transportPolicy{typeName: "streamable_http", dropped: []string{FieldOAuth}},
		sse:   transportPolicy{typeName: "sse", dropped: []string{FieldOAuth}},
	},
	"amp": {
		stdio: transportPolicy{dropped: []string{FieldEnabled, FieldTimeout}},
		http:  transportPolicy{dropped: []string{FieldEnabled, FieldTimeout, FieldOAuth}},
		sse:   transportPolicy{dropped: []string{FieldType, FieldEnabled, FieldTimeout, FieldOAuth}},
	},
}

// DroppedFields returns the canonical fields the given variant does not
// carry through write then discover for transport. The stdio tag is omitted
// by several variants but recovered by inference, so it is not listed.
// Returns nil for variants without a config surface.
func DroppedFields(id, transport string) []string {
	t, ok := fieldTables[id]
	if !ok {
		return nil
	}
	return slices.Clone(t.forTransport(transport).dropped)
}

// OmitsTypeTag reports whether the variant writes transport without an
// explicit tag, relying on discovery to infer it.
func OmitsTypeTag(id, transport string) bool {
	t, ok := fieldTables[id]
	if !ok {
		return false
	}
	return t.forTransport(transport).typeName == ""
}
