package commands

import (
	"fmt"
	"io"
	"path"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/skill"
)

var (
	skillFetchRef   string
	skillFetchName  string
	skillFetchForce bool
)

func init() {
	skillFetchCmd.Flags().StringVar(&skillFetchRef, "ref", "", "branch or tag to fetch (default: main, then master)")
	skillFetchCmd.Flags().StringVar(&skillFetchName, "name", "", "registry name (default: last element of the id)")
	skillFetchCmd.Flags().BoolVarP(&skillFetchForce, "force", "f", false, "overwrite an existing skill")
	skillCmd.AddCommand(skillFetchCmd)
}

var skillFetchCmd = &cobra.Command{
	Use:   "fetch <source> <id>",
	Short: "Install a skill from a GitHub repository",
	Long: `Fetch a skill's SKILL.md from a repository and install it into the
global registry, recording where it came from.

The usual skill locations are tried concurrently and the first answer wins.
When none answers, the repository is sparse-cloned and searched.

Examples:
  nexus skill fetch anthropics/skills pdf
  nexus skill fetch https://github.com/acme/tools review --ref v2
  nexus skill fetch acme/tools skills/review --name acme-review`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			return runSkillFetch(cmd, c, args[0], args[1], cmd.OutOrStdout())
		})
	},
}

func runSkillFetch(cmd *cobra.Command, c *app.Container, source, id string, w io.Writer) error {
	name := skillFetchName
	if name == "" {
		name = path.Base(id)
	}
	if !skillFetchForce && c.Hub().Exists(name) {
		return errors.NewUserError(
			errors.Newf("skill %q already exists", name),
			"Use --force to overwrite or --name to install under another name",
		)
	}

	origin := skill.Origin{Source: source, ID: id, Ref: skillFetchRef}
	data, err := c.Fetcher().FetchPrimary(cmd.Context(), origin)
	if err != nil {
		return err
	}
	if err := c.Hub().Install(cmd.Context(), name, data, &origin); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Skill %q installed from %s\n", checkMark, name, source)
	return nil
}
