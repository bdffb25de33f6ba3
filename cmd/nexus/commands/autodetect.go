package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/engine"
)

var autodetectJSON bool

func init() {
	autodetectCmd.Flags().BoolVar(&autodetectJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(autodetectCmd)
}

var autodetectCmd = &cobra.Command{
	Use:   "autodetect [project]",
	Short: "Add what is found in the project directory to its selection",
	Long: `Scan a project directory for agents, skills and MCP servers and add
them to the project's selection without rendering anything.

Skills that exist in the global registry are selected; others are recorded
as local skills and left alone. Discovered servers missing from the
registry are registered.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			ctx := cmd.Context()
			name, err := projectName(ctx, c, args)
			if err != nil {
				return err
			}
			p, d, err := c.Engine().AutodetectOnly(ctx, name)
			if err != nil {
				return err
			}
			if autodetectJSON {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			printDetection(cmd.OutOrStdout(), d)
			return nil
		})
	},
}

func printDetection(w io.Writer, d *engine.Detection) {
	if d == nil {
		return
	}
	fmt.Fprintf(w, "Agents:       %s\n", listOrDash(d.Agents))
	fmt.Fprintf(w, "Skills:       %s\n", listOrDash(d.Skills))
	fmt.Fprintf(w, "Local skills: %s\n", listOrDash(d.LocalSkills))
	fmt.Fprintf(w, "MCP servers:  %s\n", listOrDash(sortedKeys(d.Servers)))
}
