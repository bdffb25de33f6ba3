package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/engine"
	"github.com/thoreinstein/nexus/internal/errors"
)

var (
	driftJSON bool
	driftDiff bool
)

// errDrifted makes the command exit non-zero when drift is found.
var errDrifted = errors.New("project has drifted")

func init() {
	driftCmd.Flags().BoolVar(&driftJSON, "json", false, "Output in JSON format")
	driftCmd.Flags().BoolVar(&driftDiff, "diff", false, "Print expected and actual content of modified files")
	rootCmd.AddCommand(driftCmd)
}

var driftCmd = &cobra.Command{
	Use:   "drift [project]",
	Short: "Show where agent files differ from what sync would write",
	Long: `Compare each agent's files with a fresh render of the project. Nothing
in the project directory is modified.

The command exits with status 1 when any file has drifted, so it can gate
CI jobs.

Examples:
  nexus drift web
  nexus drift web --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			ctx := cmd.Context()
			name, err := projectName(ctx, c, args)
			if err != nil {
				return err
			}
			report, err := c.Engine().CheckDrift(ctx, name)
			if err != nil {
				return err
			}
			if driftJSON {
				if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				printDrift(cmd.OutOrStdout(), report)
			}
			if report.Drifted {
				return errors.NewUserError(errDrifted, "Run 'nexus sync "+name+"' to bring the files back in line")
			}
			return nil
		})
	},
}

func printDrift(w io.Writer, r *engine.DriftReport) {
	if !r.Drifted {
		fmt.Fprintf(w, "%s %s is in sync\n", checkMark, bold(r.Project))
		return
	}
	for _, a := range r.Agents {
		fmt.Fprintf(w, "%s\n", bold(a.Agent))
		for _, f := range a.Files {
			fmt.Fprintf(w, "  %-10s %s\n", yellow(string(f.Kind)), f.Path)
			if driftDiff && f.Kind == engine.DriftModified {
				fmt.Fprintf(w, "    %s\n%s\n", gray("expected:"), indent(f.Expected, "      "))
				fmt.Fprintf(w, "    %s\n%s\n", gray("actual:"), indent(f.Actual, "      "))
			}
		}
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
