package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
)

var projectShowJSON bool

func init() {
	projectShowCmd.Flags().BoolVar(&projectShowJSON, "json", false, "Output as JSON")
	projectCmd.AddCommand(projectShowCmd)
}

var projectShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Display a project's selection",
	Long: `Display a project's directory, agents, servers, skills and rules.

Without a name, the project registered for the current directory is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			ctx := cmd.Context()
			name, err := projectName(ctx, c, args)
			if err != nil {
				return err
			}
			p, err := c.Projects().Get(ctx, name)
			if err != nil {
				return err
			}
			if projectShowJSON {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			describeProject(cmd.OutOrStdout(), p)
			return nil
		})
	},
}
