package mcpserver

import (
	"context"
	"encoding/json"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/thoreinstein/nexus/internal/engine"
	nexusmcp "github.com/thoreinstein/nexus/internal/mcp"
	"github.com/thoreinstein/nexus/internal/project"
)

// Engine is the subset of the sync engine exposed as tools.
type Engine interface {
	Sync(ctx context.Context, name string) (*engine.Result, error)
	SyncWithoutAutodetect(ctx context.Context, name string) (*engine.Result, error)
	AutodetectOnly(ctx context.Context, name string) (*project.Project, *engine.Detection, error)
	CheckDrift(ctx context.Context, name string) (*engine.DriftReport, error)
	RemoveAgent(ctx context.Context, name, id string) (*engine.RemoveResult, error)
	PreviewRemoveAgent(ctx context.Context, name, id string) ([]string, error)
}

// New builds the MCP server. defaultProject is used when a tool call names
// no project; it normally comes from the environment of the self entry.
func New(eng Engine, version, defaultProject string) *server.MCPServer {
	s := server.NewMCPServer(
		nexusmcp.SelfServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	base := tool{engine: eng, project: defaultProject}
	for _, t := range []handler{
		&syncTool{base},
		&autodetectTool{base},
		&driftTool{base},
		&removeAgentTool{base},
	} {
		s.AddTool(t.Definition(), t.Handle)
	}
	return s
}

// Serve runs the server over stdio until stdin closes.
func Serve(eng Engine, version string) error {
	return server.ServeStdio(New(eng, version, os.Getenv(nexusmcp.ProjectEnv)))
}

type handler interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// tool carries what every handler needs.
type tool struct {
	engine  Engine
	project string
}

func (t tool) projectArg(req mcp.CallToolRequest) string {
	if p := req.GetString("project", ""); p != "" {
		return p
	}
	return t.project
}

func projectOption() mcp.ToolOption {
	return mcp.WithString("project",
		mcp.Description("Project name. Defaults to the project this server was started for."),
	)
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func errNoProject() *mcp.CallToolResult {
	return mcp.NewToolResultError("no project given and " + nexusmcp.ProjectEnv + " is not set")
}
