package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/cli/prompt"
)

var projectDeleteForce bool

func init() {
	projectDeleteCmd.Flags().BoolVar(&projectDeleteForce, "force", false, "Skip confirmation prompt")
	projectCmd.AddCommand(projectDeleteCmd)
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm", "remove"},
	Short:   "Forget a project",
	Long: `Forget a project's selection. Files in the project directory are left
as they are; use 'nexus agent remove' first to clean up an agent's files.

Examples:
  nexus project delete web
  nexus project delete web --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			return runProjectDeleteWithIO(cmd, c, args[0], cmd.OutOrStdout(), cmd.InOrStdin())
		})
	},
}

// runProjectDeleteWithIO allows injecting writers for testing.
func runProjectDeleteWithIO(cmd *cobra.Command, c *app.Container, name string, w io.Writer, r io.Reader) error {
	ctx := cmd.Context()
	if _, err := c.Projects().Get(ctx, name); err != nil {
		return err
	}

	if !projectDeleteForce && !prompt.Confirm(w, r, fmt.Sprintf("Delete project %q?", name)) {
		fmt.Fprintln(w, "Deletion cancelled")
		return nil
	}

	if err := c.Projects().Delete(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Project %q deleted\n", checkMark, name)
	return nil
}
