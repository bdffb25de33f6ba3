package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

type syncTool struct{ tool }

func (t *syncTool) Definition() mcp.Tool {
	return mcp.NewTool("sync",
		mcp.WithDescription("Render the project's skills, MCP servers and rules into every selected agent's files. "+
			"With autodetect (the default) new agents, skills and servers found on disk are merged in first."),
		projectOption(),
		mcp.WithBoolean("autodetect",
			mcp.Description("Merge on-disk findings before rendering. Set false after removing something on purpose."),
		),
	)
}

func (t *syncTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := t.projectArg(req)
	if name == "" {
		return errNoProject(), nil
	}
	run := t.engine.Sync
	if !req.GetBool("autodetect", true) {
		run = t.engine.SyncWithoutAutodetect
	}
	res, err := run(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"run_id":  res.RunID,
		"written": res.Written,
		"failed":  res.Failed,
	})
}

type autodetectTool struct{ tool }

func (t *autodetectTool) Definition() mcp.Tool {
	return mcp.NewTool("autodetect",
		mcp.WithDescription("Scan the project directory for agents, skills and MCP servers and merge them into the project without writing agent files."),
		projectOption(),
	)
}

func (t *autodetectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := t.projectArg(req)
	if name == "" {
		return errNoProject(), nil
	}
	p, d, err := t.engine.AutodetectOnly(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	servers := make([]string, 0, len(d.Servers))
	for n := range d.Servers {
		servers = append(servers, n)
	}
	return jsonResult(map[string]any{
		"project": p,
		"detected": map[string]any{
			"agents":       d.Agents,
			"skills":       d.Skills,
			"local_skills": d.LocalSkills,
			"servers":      servers,
		},
	})
}

type driftTool struct{ tool }

func (t *driftTool) Definition() mcp.Tool {
	return mcp.NewTool("check_drift",
		mcp.WithDescription("Report files that differ from what a sync would write. Read only."),
		projectOption(),
	)
}

func (t *driftTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := t.projectArg(req)
	if name == "" {
		return errNoProject(), nil
	}
	report, err := t.engine.CheckDrift(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(report)
}

type removeAgentTool struct{ tool }

func (t *removeAgentTool) Definition() mcp.Tool {
	return mcp.NewTool("remove_agent",
		mcp.WithDescription("Remove an agent's files from the project and re-render the remaining agents."),
		projectOption(),
		mcp.WithString("agent", mcp.Required(), mcp.Description("Agent id, e.g. claude or cursor.")),
		mcp.WithBoolean("preview", mcp.Description("Only list the paths that would be removed.")),
	)
}

func (t *removeAgentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := t.projectArg(req)
	if name == "" {
		return errNoProject(), nil
	}
	id := req.GetString("agent", "")
	if id == "" {
		return mcp.NewToolResultError("agent is required"), nil
	}

	if req.GetBool("preview", false) {
		paths, err := t.engine.PreviewRemoveAgent(ctx, name, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"agent": id, "would_remove": paths})
	}

	res, err := t.engine.RemoveAgent(ctx, name, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := map[string]any{"agent": id, "removed": res.Removed}
	if res.Sync != nil {
		out["written"] = res.Sync.Written
	}
	return jsonResult(out)
}
