package mcp

import (
	"encoding/json"
	"maps"
	"slices"
)

// Transport type constants for MCP server communication.
const (
	// TransportStdio indicates local process communication via stdin/stdout.
	// It is inferred when a Command is set and no type is given.
	TransportStdio = "stdio"

	// TransportHTTP indicates a remote streamable-HTTP server.
	// It is inferred when only a URL is set.
	TransportHTTP = "http"

	// TransportSSE indicates a remote server using Server-Sent Events.
	TransportSSE = "sse"
)

// Transports lists every canonical transport in a stable order.
var Transports = []string{TransportStdio, TransportHTTP, TransportSSE}

// Server is the canonical MCP server configuration. Every agent variant
// translates to and from this shape.
type Server struct {
	// Name is the registry key. It is carried by the surrounding map or file
	// name and never serialized inside the entry.
	Name string `json:"-"`

	// Type is the transport; empty means "infer from the fields present".
	Type string `json:"type,omitempty"`

	// Command, Args and Env describe a stdio server.
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`

	// URL, Headers and OAuth describe an http or sse server.
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	OAuth   map[string]any    `json:"oauth,omitempty"`

	// Enabled and Timeout are optional for any transport. Pointers keep
	// "absent" distinct from false and zero.
	Enabled *bool    `json:"enabled,omitempty"`
	Timeout *float64 `json:"timeout,omitempty"`

	// unknownFields holds keys this struct does not model so they survive
	// one read-modify-write cycle.
	unknownFields map[string]json.RawMessage
}

// knownKeys are the canonical JSON keys; everything else is unknown.
var knownKeys = []string{"type", "command", "args", "env", "url", "headers", "oauth", "enabled", "timeout"}

// Transport returns the explicit Type or, when empty, the transport implied
// by the populated fields.
func (s *Server) Transport() string {
	if s.Type != "" {
		return s.Type
	}
	if s.Command != "" {
		return TransportStdio
	}
	if s.URL != "" {
		return TransportHTTP
	}
	return ""
}

// IsStdio reports whether the server is launched as a local process.
func (s *Server) IsStdio() bool {
	return s.Transport() == TransportStdio
}

// IsRemote reports whether the server is reached over the network.
func (s *Server) IsRemote() bool {
	t := s.Transport()
	return t == TransportHTTP || t == TransportSSE
}

// Normalize makes the inferred transport explicit.
func (s *Server) Normalize() *Server {
	s.Type = s.Transport()
	return s
}

// Clone returns a deep copy of s.
func (s *Server) Clone() *Server {
	if s == nil {
		return nil
	}
	c := *s
	c.Args = slices.Clone(s.Args)
	c.Env = maps.Clone(s.Env)
	c.Headers = maps.Clone(s.Headers)
	c.OAuth = cloneAny(s.OAuth)
	if s.Enabled != nil {
		v := *s.Enabled
		c.Enabled = &v
	}
	if s.Timeout != nil {
		v := *s.Timeout
		c.Timeout = &v
	}
	if s.unknownFields != nil {
		c.unknownFields = make(map[string]json.RawMessage, len(s.unknownFields))
		for k, v := range s.unknownFields {
			c.unknownFields[k] = slices.Clone(v)
		}
	}
	return &c
}

// Unknown returns the preserved unknown fields. The map must not be modified.
func (s *Server) Unknown() map[string]json.RawMessage {
	return s.unknownFields
}

// SetUnknown records an extra key to be written back verbatim.
func (s *Server) SetUnknown(key string, raw json.RawMessage) {
	if s.unknownFields == nil {
		s.unknownFields = make(map[string]json.RawMessage)
	}
	s.unknownFields[key] = raw
}

// MarshalJSON writes the canonical shape with the transport made explicit
// and unknown fields merged back in.
func (s *Server) MarshalJSON() ([]byte, error) {
	result := make(map[string]any, len(s.unknownFields)+len(knownKeys))

	// Unknown fields first so known fields win on collision
	for k, v := range s.unknownFields {
		result[k] = v
	}

	if t := s.Transport(); t != "" {
		result["type"] = t
	}
	if s.Command != "" {
		result["command"] = s.Command
	}
	if len(s.Args) > 0 {
		result["args"] = s.Args
	}
	if len(s.Env) > 0 {
		result["env"] = s.Env
	}
	if s.URL != "" {
		result["url"] = s.URL
	}
	if len(s.Headers) > 0 {
		result["headers"] = s.Headers
	}
	if len(s.OAuth) > 0 {
		result["oauth"] = s.OAuth
	}
	if s.Enabled != nil {
		result["enabled"] = *s.Enabled
	}
	if s.Timeout != nil {
		result["timeout"] = *s.Timeout
	}

	return json.Marshal(result)
}

// UnmarshalJSON reads the canonical shape and captures unknown fields.
func (s *Server) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := map[string]any{
		"type":    &s.Type,
		"command": &s.Command,
		"args":    &s.Args,
		"env":     &s.Env,
		"url":     &s.URL,
		"headers": &s.Headers,
		"oauth":   &s.OAuth,
		"enabled": &s.Enabled,
		"timeout": &s.Timeout,
	}
	for _, key := range knownKeys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, fields[key]); err != nil {
			return err
		}
		delete(raw, key)
	}

	if len(raw) > 0 {
		s.unknownFields = raw
	}
	return nil
}

// Bool returns a pointer to v, for populating Enabled.
func Bool(v bool) *bool { return &v }

// Float returns a pointer to v, for populating Timeout.
func Float(v float64) *float64 { return &v }

func cloneAny(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch tv := v.(type) {
		case map[string]any:
			out[k] = cloneAny(tv)
		case []any:
			out[k] = slices.Clone(tv)
		default:
			out[k] = v
		}
	}
	return out
}
