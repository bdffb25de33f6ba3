package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
)

var projectListJSON bool

func init() {
	projectListCmd.Flags().BoolVar(&projectListJSON, "json", false, "Output in JSON format")
	projectCmd.AddCommand(projectListCmd)
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(c *app.Container) error {
			return runProjectList(cmd, c, cmd.OutOrStdout())
		})
	},
}

func runProjectList(cmd *cobra.Command, c *app.Container, w io.Writer) error {
	projects, err := c.Projects().List(cmd.Context())
	if err != nil {
		return err
	}

	if projectListJSON {
		if projects == nil {
			return writeJSON(w, []any{})
		}
		return writeJSON(w, projects)
	}

	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects registered.")
		fmt.Fprintln(w, gray("Run 'nexus project create <name>' to add one."))
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDIRECTORY\tAGENTS\tSERVERS\tSKILLS")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
			p.Name,
			truncate(p.Directory, 48),
			listOrDash(p.Agents),
			len(p.MCPServers),
			len(p.Skills)+len(p.LocalSkills),
		)
	}
	return tw.Flush()
}
