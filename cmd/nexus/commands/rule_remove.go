package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
)

func init() {
	ruleCmd.AddCommand(ruleRemoveCmd)
}

var ruleRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a rule",
	Long: `Delete a rule. Projects that attach it skip it with a warning on the
next sync, which then drops it from the managed block.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			if _, err := c.Rules().Get(args[0]); err != nil {
				return err
			}
			if err := c.Rules().Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Rule %q deleted\n", checkMark, args[0])
			return nil
		})
	},
}
