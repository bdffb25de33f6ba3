package agent

// builtins returns the supported tools. Each entry is the whole description
// of a tool: where its files live and how its config is shaped.
func builtins() []*variant {
	return []*variant{
		{
			id:              "claude",
			label:           "Claude Code",
			configFile:      ".mcp.json",
			skillDirs:       []string{".claude/skills"},
			instructionFile: "CLAUDE.md",
			codec:           jsonCodec{key: "mcpServers", entry: standardEntry{table: fieldTables["claude"]}},
		},
		{
			id:              "cursor",
			label:           "Cursor",
			configFile:      ".cursor/mcp.json",
			skillDirs:       []string{".cursor/skills"},
			instructionFile: "AGENTS.md",
			codec:           jsonCodec{key: "mcpServers", entry: standardEntry{table: fieldTables["cursor"]}},
		},
		{
			id:              "vscode",
			label:           "VS Code Copilot",
			configFile:      ".vscode/mcp.json",
			skillDirs:       []string{".github/skills"},
			instructionFile: ".github/copilot-instructions.md",
			codec:           jsonCodec{key: "servers", entry: standardEntry{table: fieldTables["vscode"]}},
			copySkills:      true,
		},
		{
			id:              "gemini",
			label:           "Gemini CLI",
			configFile:      ".gemini/settings.json",
			shared:          true,
			ownedDir:        ".gemini",
			skillDirs:       []string{".gemini/skills"},
			instructionFile: "GEMINI.md",
			codec:           jsonCodec{key: "mcpServers", entry: geminiEntry{}},
		},
		{
			id:              "opencode",
			label:           "OpenCode",
			configFile:      "opencode.json",
			shared:          true,
			skillDirs:       []string{".opencode/skills"},
			instructionFile: "AGENTS.md",
			codec:           jsonCodec{key: "mcp", entry: opencodeEntry{table: fieldTables["opencode"]}},
		},
		{
			id:              "codex",
			label:           "Codex",
			configFile:      ".codex/config.toml",
			shared:          true,
			skillDirs:       []string{".codex/skills"},
			instructionFile: "AGENTS.md",
			codec: tomlCodec{key: "mcp_servers", entry: standardEntry{
				table:      fieldTables["codex"],
				headersKey: "http_headers",
			}},
		},
		{
			id:              "roo",
			label:           "Roo Code",
			configFile:      ".roo/mcp.json",
			skillDirs:       []string{".roo/skills"},
			instructionFile: "AGENTS.md",
			codec:           jsonCodec{key: "mcpServers", entry: standardEntry{table: fieldTables["roo"]}},
		},
		{
			id:              "kilocode",
			label:           "Kilo Code",
			configFile:      ".kilocode/mcp.json",
			skillDirs:       []string{".kilocode/skills"},
			instructionFile: "AGENTS.md",
			codec:           jsonCodec{key: "mcpServers", entry: standardEntry{table: fieldTables["kilocode"]}},
		},
		{
			id:              "zed",
			label:           "Zed",
			configFile:      ".zed/settings.json",
			shared:          true,
			skillDirs:       []string{".agents/skills"},
			instructionFile: "AGENTS.md",
			codec: jsonCodec{key: "context_servers", entry: standardEntry{
				table: fieldTables["zed"],
				extra: map[string]any{"source": "custom"},
			}},
		},
		{
			id:              "amazonq",
			label:           "Amazon Q",
			configFile:      ".amazonq/mcp.json",
			skillDirs:       []string{".amazonq/skills"},
			instructionFile: "AGENTS.md",
			codec:           jsonCodec{key: "mcpServers", entry: standardEntry{table: fieldTables["amazonq"]}},
		},
		{
			id:              "junie",
			label:           "Junie",
			configFile:      ".junie/mcp/mcp.json",
			skillDirs:       []string{".junie/skills"},
			instructionFile: ".junie/guidelines.md",
			codec:           jsonCodec{key: "mcpServers", entry: standardEntry{table: fieldTables["junie"]}},
			copySkills:      true,
		},
		{
			id:              "goose",
			label:           "Goose",
			configFile:      ".goose/config.yaml",
			shared:          true,
			skillDirs:       []string{".goose/skills"},
			instructionFile: "AGENTS.md",
			codec:           yamlCodec{key: "extensions", entry: gooseEntry{table: fieldTables["goose"]}},
		},
		{
			id:              "amp",
			label:           "Amp",
			configFile:      ".amp/settings.json",
			shared:          true,
			skillDirs:       []string{".agents/skills"},
			instructionFile: "AGENTS.md",
			codec:           jsonCodec{key: "amp.mcpServers", entry: standardEntry{table: fieldTables["amp"]}},
		},
		{
			id:              "warp",
			label:           "Warp",
			ownedDir:        ".warp",
			skillDirs:       []string{".agents/skills"},
			instructionFile: "WARP.md",
			note:            "Warp reads MCP servers from its own settings UI; add them there.",
		},
	}
}
