package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/agent"
	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/cli/prompt"
	"github.com/thoreinstein/nexus/internal/errors"
)

var (
	agentRemoveForce   bool
	agentRemovePreview bool
)

// newSelector is swapped in tests.
var newSelector = prompt.NewSelector

func init() {
	agentRemoveCmd.Flags().BoolVar(&agentRemoveForce, "force", false, "Skip confirmation prompt")
	agentRemoveCmd.Flags().BoolVar(&agentRemovePreview, "preview", false, "List the files that would be removed and exit")
	agentCmd.AddCommand(agentRemoveCmd)
}

var agentRemoveCmd = &cobra.Command{
	Use:     "remove <project> [agent]",
	Aliases: []string{"rm"},
	Short:   "Remove an agent and its files from a project",
	Long: `Remove an agent from a project. Its MCP config, skill directories and
instruction file are deleted, except where another selected agent shares
them: a shared config file is rewritten without this agent's entries and
shared skill directories are kept. The remaining agents are then re-rendered.

Without an agent argument, you pick one of the project's agents.

A confirmation prompt listing the affected files is shown unless --force is
specified.

Examples:
  nexus agent remove web cursor --preview
  nexus agent remove web cursor
  nexus agent remove web`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			return runAgentRemoveWithIO(cmd, c, args, cmd.OutOrStdout(), cmd.InOrStdin())
		})
	},
}

// runAgentRemoveWithIO allows injecting writers for testing.
func runAgentRemoveWithIO(cmd *cobra.Command, c *app.Container, args []string, w io.Writer, r io.Reader) error {
	ctx := cmd.Context()
	name := args[0]

	id := ""
	if len(args) > 1 {
		id = args[1]
	} else {
		p, err := c.Projects().Get(ctx, name)
		if err != nil {
			return err
		}
		choice, err := newSelector().Select("Select an agent to remove", agentChoices(c.Agents(), p.Agents))
		if err != nil {
			if errors.Is(err, prompt.ErrSelectionCancelled) {
				fmt.Fprintln(w, "Removal cancelled")
				return nil
			}
			return errors.Wrap(err, "selecting agent")
		}
		id = choice.Value
	}

	paths, err := c.Engine().PreviewRemoveAgent(ctx, name, id)
	if err != nil {
		return err
	}

	if agentRemovePreview {
		printRemovalPlan(w, name, id, paths)
		return nil
	}

	if !agentRemoveForce {
		printRemovalPlan(w, name, id, paths)
		if !prompt.Confirm(w, r, "Continue?") {
			fmt.Fprintln(w, "Removal cancelled")
			return nil
		}
	}

	res, err := c.Engine().RemoveAgent(ctx, name, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Agent %q removed from %s (%d paths)\n", checkMark, id, name, len(res.Removed))
	if res.Sync != nil {
		printSyncResult(w, res.Sync)
	}
	return nil
}

func agentChoices(reg *agent.Registry, ids []string) []prompt.Choice {
	choices := make([]prompt.Choice, 0, len(ids))
	for _, id := range ids {
		label := id
		detail := id
		if a, err := reg.Lookup(id); err == nil {
			label = fmt.Sprintf("%s (%s)", a.Label(), id)
			detail = fmt.Sprintf("%s\n\nInstructions: %s", a.Label(), a.InstructionFile())
		}
		choices = append(choices, prompt.Choice{Value: id, Label: label, Detail: detail})
	}
	return choices
}

func printRemovalPlan(w io.Writer, name, id string, paths []string) {
	if len(paths) == 0 {
		fmt.Fprintf(w, "Removing %q from %s touches no files.\n", id, name)
		return
	}
	fmt.Fprintf(w, "Removing %q from %s will delete or rewrite:\n", id, name)
	for _, p := range paths {
		fmt.Fprintf(w, "  - %s\n", p)
	}
}
