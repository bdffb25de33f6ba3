package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/errors"
)

var (
	ruleAddFile  string
	ruleAddForce bool
)

func init() {
	ruleAddCmd.Flags().StringVar(&ruleAddFile, "file", "-", "markdown file to read, or - for stdin")
	ruleAddCmd.Flags().BoolVarP(&ruleAddForce, "force", "f", false, "overwrite an existing rule")
	ruleCmd.AddCommand(ruleAddCmd)
}

var ruleAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add a rule",
	Long: `Add a rule from a markdown file or stdin.

Examples:
  nexus rule add testing --file ./rules/testing.md

  cat <<'MD' | nexus rule add commits
  ---
  title: Commit messages
  ---
  Use the imperative mood.
  MD`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			return runRuleAddWithIO(c, args[0], cmd.OutOrStdout(), cmd.InOrStdin())
		})
	},
}

// runRuleAddWithIO allows injecting readers for testing.
func runRuleAddWithIO(c *app.Container, id string, w io.Writer, r io.Reader) error {
	if !ruleAddForce {
		if _, err := c.Rules().Get(id); err == nil {
			return errors.NewUserError(errors.Newf("rule %q already exists", id), "Use --force to overwrite")
		}
	}
	content, err := readPayload(ruleAddFile, r)
	if err != nil {
		return err
	}
	if err := c.Rules().Put(id, content); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Rule %q added\n", checkMark, id)
	return nil
}
