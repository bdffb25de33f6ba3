package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
)

func init() {
	skillCmd.AddCommand(skillRemoveCmd)
}

var skillRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a skill from the global registry",
	Long: `Remove a skill from the global registry. Projects that select it keep
their copies until the next sync reports it as missing.

Skills that only exist in the legacy location are never deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			if _, err := c.Hub().Path(args[0]); err != nil {
				return err
			}
			if err := c.Hub().Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Skill %q removed\n", checkMark, args[0])
			return nil
		})
	},
}
