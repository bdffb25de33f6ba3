package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/skill"
)

var skillListJSON bool

func init() {
	skillListCmd.Flags().BoolVar(&skillListJSON, "json", false, "Output in JSON format")
	skillCmd.AddCommand(skillListCmd)
}

var skillListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List global skills",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(c *app.Container) error {
			entries, err := c.Hub().List(cmd.Context())
			if err != nil {
				return err
			}
			return runSkillList(cmd.OutOrStdout(), entries)
		})
	},
}

type skillInfoJSON struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Legacy      bool          `json:"legacy,omitempty"`
	Origin      *skill.Origin `json:"origin,omitempty"`
}

func runSkillList(w io.Writer, entries []skill.Entry) error {
	if skillListJSON {
		out := make([]skillInfoJSON, len(entries))
		for i, e := range entries {
			out[i] = skillInfoJSON{
				Name:        e.Name,
				Description: e.Description,
				Legacy:      e.InLegacy && !e.InCanonical,
				Origin:      e.Origin,
			}
		}
		return writeJSON(w, out)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No skills in the registry.")
		fmt.Fprintln(w, gray("Run 'nexus skill fetch <source> <id>' or 'nexus skill import <project> <name>'."))
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSOURCE\tDESCRIPTION")
	for _, e := range entries {
		source := "local"
		switch {
		case e.Origin != nil:
			source = e.Origin.Source
		case e.InLegacy && !e.InCanonical:
			source = "legacy"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, source, truncate(e.Description, 60))
	}
	return tw.Flush()
}
