package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
)

func init() {
	agentCmd.AddCommand(agentAddCmd)
}

var agentAddCmd = &cobra.Command{
	Use:   "add <project> <agent>",
	Short: "Add an agent to a project and render it",
	Long: `Select an agent for a project and render the project's servers, skills
and rules into that agent's files. The scan for other changes is skipped.

Examples:
  nexus agent add web cursor`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			res, err := c.Engine().AddAgent(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printSyncResult(cmd.OutOrStdout(), res)
			return nil
		})
	},
}
