package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/cli/prompt"
	"github.com/thoreinstein/nexus/internal/project"
)

var mcpRemoveForce bool

func init() {
	mcpRemoveCmd.Flags().BoolVarP(&mcpRemoveForce, "force", "f", false, "Skip confirmation prompt")
	mcpCmd.AddCommand(mcpRemoveCmd)
}

var mcpRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove an MCP server from the registry",
	Long: `Remove an MCP server from the canonical registry and deselect it from
every project. Agent files keep the entry until each project is synced.

Examples:
  nexus mcp remove github
  nexus mcp remove github --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			return runMCPRemoveWithIO(cmd, c, args[0], cmd.OutOrStdout(), cmd.InOrStdin())
		})
	},
}

// runMCPRemoveWithIO allows injecting writers for testing.
func runMCPRemoveWithIO(cmd *cobra.Command, c *app.Container, name string, w io.Writer, r io.Reader) error {
	ctx := cmd.Context()
	if _, err := c.Servers().Get(name); err != nil {
		return err
	}

	projects, err := c.Projects().List(ctx)
	if err != nil {
		return err
	}
	var users []*project.Project
	for _, p := range projects {
		for _, s := range p.MCPServers {
			if s == name {
				users = append(users, p)
				break
			}
		}
	}

	if !mcpRemoveForce {
		question := fmt.Sprintf("Remove MCP server %q?", name)
		if len(users) > 0 {
			question = fmt.Sprintf("Remove MCP server %q (selected by %d projects)?", name, len(users))
		}
		if !prompt.Confirm(w, r, question) {
			fmt.Fprintln(w, "Removal cancelled")
			return nil
		}
	}

	for _, p := range users {
		p.MCPServers = project.Remove(p.MCPServers, name)
		if err := c.Projects().Save(ctx, p); err != nil {
			return err
		}
	}
	if err := c.Servers().Delete(name); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s MCP server %q removed\n", checkMark, name)
	for _, p := range users {
		fmt.Fprintf(w, "  %s run 'nexus sync %s' to update its agents\n", gray("hint:"), p.Name)
	}
	return nil
}
