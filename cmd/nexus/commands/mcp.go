package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Manage the canonical MCP server registry",
	Long: `Manage the canonical MCP server registry. Each entry is stored once and
translated into every agent's native format when a project selecting it is
synced.

Environment variables and headers that look like secrets are masked in
output unless --show-secrets is given.`,
}
