package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/project"
)

var (
	projectSetDir         string
	projectSetMode        string
	projectSetAddServers  []string
	projectSetDropServers []string
	projectSetAddSkills   []string
	projectSetDropSkills  []string
)

func init() {
	projectSetCmd.Flags().StringVarP(&projectSetDir, "dir", "d", "", "project directory")
	projectSetCmd.Flags().StringVar(&projectSetMode, "instructions", "", "instruction mode: per_agent, unified")
	projectSetCmd.Flags().StringSliceVar(&projectSetAddServers, "add-mcp", nil, "select a registry MCP server")
	projectSetCmd.Flags().StringSliceVar(&projectSetDropServers, "remove-mcp", nil, "deselect an MCP server")
	projectSetCmd.Flags().StringSliceVar(&projectSetAddSkills, "add-skill", nil, "select a global skill")
	projectSetCmd.Flags().StringSliceVar(&projectSetDropSkills, "remove-skill", nil, "deselect a skill")
	projectCmd.AddCommand(projectSetCmd)
}

var projectSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Change a project's directory or selection",
	Long: `Change a project's directory, instruction mode or selected servers and
skills. Agents are changed with 'nexus agent add' and 'nexus agent remove'.

The change is saved only; run 'nexus sync' to render it.

Examples:
  nexus project set web --dir ~/src/web
  nexus project set web --add-mcp github --remove-skill old-review
  nexus project set web --instructions unified`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			return runProjectSet(cmd, c, args[0], cmd.OutOrStdout())
		})
	},
}

func runProjectSet(cmd *cobra.Command, c *app.Container, name string, w io.Writer) error {
	ctx := cmd.Context()
	p, err := c.Projects().Get(ctx, name)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("dir") {
		if p.Directory, err = absDir(projectSetDir); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("instructions") {
		p.InstructionMode = project.InstructionMode(projectSetMode)
	}

	for _, s := range projectSetAddServers {
		if !c.Servers().Exists(s) {
			return errors.WithHint(
				errors.Wrapf(errors.ErrNotFound, "mcp server %q", s),
				"Run 'nexus mcp list' to see registered servers",
			)
		}
	}
	p.MCPServers, _ = project.Merge(p.MCPServers, projectSetAddServers...)
	for _, s := range projectSetDropServers {
		p.MCPServers = project.Remove(p.MCPServers, s)
	}

	for _, s := range projectSetAddSkills {
		if !c.Hub().Exists(s) {
			return errors.WithHint(
				errors.Wrapf(errors.ErrNotFound, "skill %q", s),
				"Run 'nexus skill list' to see global skills",
			)
		}
		p.LocalSkills = project.Remove(p.LocalSkills, s)
	}
	p.Skills, _ = project.Merge(p.Skills, projectSetAddSkills...)
	for _, s := range projectSetDropSkills {
		p.Skills = project.Remove(p.Skills, s)
		p.LocalSkills = project.Remove(p.LocalSkills, s)
	}

	if err := c.Projects().Save(ctx, p); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Project %s updated\n", checkMark, bold(name))
	return nil
}
