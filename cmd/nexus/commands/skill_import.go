package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
)

func init() {
	skillCmd.AddCommand(skillImportCmd)
}

var skillImportCmd = &cobra.Command{
	Use:   "import <project> <name>",
	Short: "Promote a project's local skill into the global registry",
	Long: `Copy a skill that only exists in a project, companion files included,
into the global registry and select it for the project. Other projects can
then select it too.

The skill is looked up in the project's .agents/skills directory and then in
every agent skill directory.

Examples:
  nexus skill import web release-notes`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			p, err := c.Engine().ImportSkill(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Skill %q imported and selected for %s\n", checkMark, args[1], p.Name)
			return nil
		})
	},
}
