package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/engine"
)

var syncNoAutodetect bool

func init() {
	syncCmd.Flags().BoolVar(&syncNoAutodetect, "no-autodetect", false, "render the saved selection without scanning the directory first")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync [project]",
	Short: "Render a project's configuration for every agent",
	Long: `Render a project's MCP servers, skills and instruction rules into the
native configuration files of every selected agent.

By default the directory is scanned first: agents, skills and servers found
on disk are added to the selection. Nothing is ever removed by the scan.

An agent that fails to render is reported and skipped; the others are still
written. A project without a directory is an error.

Examples:
  nexus sync web
  nexus sync web --no-autodetect

  # Inside a registered project directory
  nexus sync`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			ctx := cmd.Context()
			name, err := projectName(ctx, c, args)
			if err != nil {
				return err
			}

			var res *engine.Result
			if syncNoAutodetect {
				res, err = c.Engine().SyncWithoutAutodetect(ctx, name)
			} else {
				res, err = c.Engine().Sync(ctx, name)
			}
			if err != nil {
				return err
			}
			printSyncResult(cmd.OutOrStdout(), res)
			return nil
		})
	},
}
