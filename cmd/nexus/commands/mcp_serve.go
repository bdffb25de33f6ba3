package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/cmd"
	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/mcpserver"
)

func init() {
	rootCmd.AddCommand(mcpServeCmd)
}

var mcpServeCmd = &cobra.Command{
	Use:   "mcp-serve",
	Short: "Serve nexus operations to agents over MCP stdio",
	Long: `Run an MCP server on stdin and stdout exposing sync, autodetect,
check_drift and remove_agent as tools.

Every synced agent config carries an entry that starts this command with
NEXUS_PROJECT set, so agents can keep their own project in sync. Logs go to
stderr.`,
	Args:   cobra.NoArgs,
	Hidden: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		return withApp(func(c *app.Container) error {
			return mcpserver.Serve(c.Engine(), cmd.Version)
		})
	},
}
