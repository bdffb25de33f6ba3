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
	projectCreateDir     string
	projectCreateAgents  []string
	projectCreateServers []string
	projectCreateSkills  []string
	projectCreateMode    string
	projectCreateSync    bool
)

func init() {
	projectCreateCmd.Flags().StringVarP(&projectCreateDir, "dir", "d", "", "project directory (default: current directory)")
	projectCreateCmd.Flags().StringSliceVarP(&projectCreateAgents, "agent", "a", nil, "agent to configure (repeatable)")
	projectCreateCmd.Flags().StringSliceVar(&projectCreateServers, "mcp", nil, "registry MCP server to select (repeatable)")
	projectCreateCmd.Flags().StringSliceVar(&projectCreateSkills, "skill", nil, "global skill to select (repeatable)")
	projectCreateCmd.Flags().StringVar(&projectCreateMode, "instructions", string(project.ModePerAgent), "instruction mode: per_agent, unified")
	projectCreateCmd.Flags().BoolVar(&projectCreateSync, "sync", false, "sync immediately after creating")
	projectCmd.AddCommand(projectCreateCmd)
}

var projectCreateCmd = &cobra.Command{
	Use:     "create <name>",
	Aliases: []string{"add", "new"},
	Short:   "Register a project",
	Long: `Register a project directory under a name.

Agents, servers and skills already present in the directory are picked up
by the first sync; the flags only seed the selection.

Examples:
  # Register the current directory
  nexus project create web

  # Register a directory with two agents and sync it
  nexus project create web --dir ~/src/web -a claude -a cursor --sync`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			return runProjectCreate(cmd, c, args[0], cmd.OutOrStdout())
		})
	},
}

func runProjectCreate(cmd *cobra.Command, c *app.Container, name string, w io.Writer) error {
	ctx := cmd.Context()

	if _, err := c.Projects().Get(ctx, name); err == nil {
		return errors.NewUserError(
			errors.Newf("project %q already exists", name),
			"Use 'nexus project set "+name+"' to change it",
		)
	}

	dir := projectCreateDir
	if dir == "" {
		dir = "."
	}
	dir, err := absDir(dir)
	if err != nil {
		return err
	}

	for _, id := range projectCreateAgents {
		if _, err := c.Agents().Lookup(id); err != nil {
			return err
		}
	}

	p := &project.Project{
		Name:            name,
		Directory:       dir,
		Agents:          projectCreateAgents,
		MCPServers:      projectCreateServers,
		Skills:          projectCreateSkills,
		InstructionMode: project.InstructionMode(projectCreateMode),
	}
	if err := c.Projects().Save(ctx, p); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Project %s created at %s\n", checkMark, bold(name), dir)

	if !projectCreateSync {
		return nil
	}
	res, err := c.Engine().Sync(ctx, name)
	if err != nil {
		return err
	}
	printSyncResult(w, res)
	return nil
}
