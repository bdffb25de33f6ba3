package agent

import (
	"context"
	"encoding/json"
	"os"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/nexus/internal/logging"
	"github.com/thoreinstein/nexus/internal/mcp"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	return logging.NewContext(context.Background(), logging.ForTest(t))
}

// fullServer populates every canonical field valid for transport.
func fullServer(transport string) *mcp.Server {
	s := &mcp.Server{
		Name:    "github",
		Type:    transport,
		Enabled: mcp.Bool(false),
		Timeout: mcp.Float(30000),
	}
	if transport == mcp.TransportStdio {
		s.Command = "npx"
		s.Args = []string{"-y", "@modelcontextprotocol/server-github"}
		s.Env = map[string]string{"GITHUB_TOKEN": "ghp_x"}
	} else {
		s.URL = "https://api.example.com/mcp"
		s.Headers = map[string]string{"Authorization": "Bearer x"}
		s.OAuth = map[string]any{"clientId": "abc"}
	}
	s.SetUnknown("alwaysAllow", json.RawMessage(`["search"]`))
	return s
}

// expectedAfterRoundTrip clears exactly the fields the variant drops.
func expectedAfterRoundTrip(id string, s *mcp.Server) *mcp.Server {
	want := s.Clone()
	dropped := DroppedFields(id, s.Transport())
	if slices.Contains(dropped, FieldEnabled) {
		want.Enabled = nil
	}
	if slices.Contains(dropped, FieldTimeout) {
		want.Timeout = nil
	}
	if slices.Contains(dropped, FieldOAuth) {
		want.OAuth = nil
	}
	if slices.Contains(dropped, FieldHeaders) {
		want.Headers = nil
	}
	if slices.Contains(dropped, FieldType) {
		want.Type = ""
		want.Type = want.Transport()
	}
	return want.Normalize()
}

func TestRoundTrip_FixedPoint(t *testing.T) {
	ctx := testContext(t)

	for _, a := range All() {
		if !a.Capabilities().MCPConfig {
			continue
		}
		for _, transport := range mcp.Transports {
			t.Run(a.ID()+"/"+transport, func(t *testing.T) {
				dir := t.TempDir()
				in := fullServer(transport)

				path, err := a.WriteMCPConfig(ctx, dir, map[string]*mcp.Server{in.Name: in})
				require.NoError(t, err)
				require.Equal(t, a.ConfigPath(dir), path)

				got := a.DiscoverMCPServers(ctx, dir)
				require.Contains(t, got, in.Name)
				assert.Equal(t, expectedAfterRoundTrip(a.ID(), in), got[in.Name])

				// a second pass is a fixed point
				_, err = a.WriteMCPConfig(ctx, dir, got)
				require.NoError(t, err)
				again := a.DiscoverMCPServers(ctx, dir)
				assert.Equal(t, got, again)
			})
		}
	}
}

func TestDroppedFields(t *testing.T) {
	tests := []struct {
		id, transport string
		want          []string
	}{
		{"claude", mcp.TransportStdio, []string{FieldEnabled, FieldTimeout}},
		{"claude", mcp.TransportHTTP, nil},
		{"gemini", mcp.TransportSSE, []string{FieldEnabled}},
		{"opencode", mcp.TransportSSE, []string{FieldType, FieldTimeout}},
		{"codex", mcp.TransportHTTP, []string{FieldEnabled, FieldTimeout, FieldOAuth}},
		{"goose", mcp.TransportStdio, nil},
		{"warp", mcp.TransportStdio, nil},
		{"bogus", mcp.TransportStdio, nil},
	}
	for _, tt := range tests {
		t.Run(tt.id+"/"+tt.transport, func(t *testing.T) {
			assert.Equal(t, tt.want, DroppedFields(tt.id, tt.transport))
		})
	}
}

func TestOmitsTypeTag(t *testing.T) {
	assert.True(t, OmitsTypeTag("cursor", mcp.TransportStdio))
	assert.False(t, OmitsTypeTag("cursor", mcp.TransportHTTP))
	assert.False(t, OmitsTypeTag("claude", mcp.TransportStdio))
	assert.True(t, OmitsTypeTag("gemini", mcp.TransportHTTP))
}

func TestSelfServer_TransportInferredOnImport(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	self := mcp.SelfServer("/usr/local/bin/nexus", "demo")

	a, err := Lookup("cursor")
	require.NoError(t, err)
	require.True(t, OmitsTypeTag("cursor", mcp.TransportStdio))

	path, err := a.WriteMCPConfig(ctx, dir, map[string]*mcp.Server{self.Name: self})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"type"`)

	servers, err := a.(*variant).codec.decode(raw)
	require.NoError(t, err)
	require.Contains(t, servers, mcp.SelfServerName)
	got := servers[mcp.SelfServerName]
	assert.Equal(t, mcp.TransportStdio, got.Type)
	assert.Equal(t, "/usr/local/bin/nexus", got.Command)
	assert.Equal(t, []string{"mcp-serve"}, got.Args)

	// discovery hides the self entry from autodetect
	assert.NotContains(t, a.DiscoverMCPServers(ctx, dir), mcp.SelfServerName)
}
