package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/nexus/internal/engine"
	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/project"
)

type fakeEngine struct {
	calls []string
	err   error
}

func (f *fakeEngine) Sync(_ context.Context, name string) (*engine.Result, error) {
	f.calls = append(f.calls, "sync:"+name)
	return &engine.Result{RunID: "run-1", Written: []string{"/p/.mcp.json"}}, f.err
}

func (f *fakeEngine) SyncWithoutAutodetect(_ context.Context, name string) (*engine.Result, error) {
	f.calls = append(f.calls, "render:"+name)
	return &engine.Result{RunID: "run-2"}, f.err
}

func (f *fakeEngine) AutodetectOnly(_ context.Context, name string) (*project.Project, *engine.Detection, error) {
	f.calls = append(f.calls, "autodetect:"+name)
	return &project.Project{Name: name}, &engine.Detection{Agents: []string{"claude"}}, f.err
}

func (f *fakeEngine) CheckDrift(_ context.Context, name string) (*engine.DriftReport, error) {
	f.calls = append(f.calls, "drift:"+name)
	return &engine.DriftReport{Project: name}, f.err
}

func (f *fakeEngine) RemoveAgent(_ context.Context, name, id string) (*engine.RemoveResult, error) {
	f.calls = append(f.calls, "remove:"+name+":"+id)
	return &engine.RemoveResult{Agent: id, Removed: []string{"/p/.mcp.json"}}, f.err
}

func (f *fakeEngine) PreviewRemoveAgent(_ context.Context, name, id string) ([]string, error) {
	f.calls = append(f.calls, "preview:"+name+":"+id)
	return []string{"/p/.mcp.json"}, f.err
}

func request(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, r)
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestTools_Definitions(t *testing.T) {
	base := tool{engine: &fakeEngine{}}
	names := map[string]handler{
		"sync":         &syncTool{base},
		"autodetect":   &autodetectTool{base},
		"check_drift":  &driftTool{base},
		"remove_agent": &removeAgentTool{base},
	}
	for want, h := range names {
		def := h.Definition()
		assert.Equal(t, want, def.Name)
		assert.Contains(t, def.InputSchema.Properties, "project")
	}
	assert.Equal(t, []string{"agent"}, (&removeAgentTool{base}).Definition().InputSchema.Required)

	assert.NotNil(t, New(&fakeEngine{}, "dev", "demo"))
}

func TestSyncTool(t *testing.T) {
	ctx := context.Background()
	fe := &fakeEngine{}
	st := &syncTool{tool{engine: fe, project: "from-env"}}

	r, err := st.Handle(ctx, request(nil))
	require.NoError(t, err)
	assert.False(t, r.IsError)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, r)), &out))
	assert.Equal(t, "run-1", out["run_id"])

	_, err = st.Handle(ctx, request(map[string]any{"project": "other", "autodetect": false}))
	require.NoError(t, err)
	assert.Equal(t, []string{"sync:from-env", "render:other"}, fe.calls)
}

func TestTools_NoProject(t *testing.T) {
	st := &driftTool{tool{engine: &fakeEngine{}}}
	r, err := st.Handle(context.Background(), request(nil))
	require.NoError(t, err)
	assert.True(t, r.IsError)
}

func TestTools_EngineErrorIsToolError(t *testing.T) {
	fe := &fakeEngine{err: errors.ErrDirectoryMissing}
	r, err := (&syncTool{tool{engine: fe, project: "demo"}}).Handle(context.Background(), request(nil))
	require.NoError(t, err)
	assert.True(t, r.IsError)
	assert.Contains(t, resultText(t, r), "directory")
}

func TestRemoveAgentTool(t *testing.T) {
	ctx := context.Background()
	fe := &fakeEngine{}
	rt := &removeAgentTool{tool{engine: fe, project: "demo"}}

	r, err := rt.Handle(ctx, request(map[string]any{"agent": "claude", "preview": true}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, r), "would_remove")

	_, err = rt.Handle(ctx, request(map[string]any{"agent": "claude"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"preview:demo:claude", "remove:demo:claude"}, fe.calls)

	r, err = rt.Handle(ctx, request(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, r.IsError)
}

func TestAutodetectAndDriftTools(t *testing.T) {
	ctx := context.Background()
	fe := &fakeEngine{}
	base := tool{engine: fe, project: "demo"}

	r, err := (&autodetectTool{base}).Handle(ctx, request(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, r), `"claude"`)

	r, err = (&driftTool{base}).Handle(ctx, request(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, r), `"drifted": false`)
}
