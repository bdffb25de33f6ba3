package commands

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/project"
)

var (
	ruleAttachFile   string
	ruleAttachDetach bool
)

func init() {
	ruleAttachCmd.Flags().StringVar(&ruleAttachFile, "file", "",
		"instruction file to attach to, e.g. CLAUDE.md (default: every selected agent's file)")
	ruleAttachCmd.Flags().BoolVar(&ruleAttachDetach, "detach", false, "detach the rule instead")
	ruleCmd.AddCommand(ruleAttachCmd)
}

var ruleAttachCmd = &cobra.Command{
	Use:   "attach <project> <rule>",
	Short: "Attach a rule to a project's instruction files",
	Long: `Attach a rule to a project's instruction files. In unified mode the rule
applies to every file; otherwise it applies to --file, or to the instruction
file of every selected agent when --file is omitted.

The change is saved only; run 'nexus sync' to render it.

Examples:
  nexus rule attach web testing
  nexus rule attach web testing --file CLAUDE.md
  nexus rule attach web testing --detach`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			return runRuleAttach(cmd, c, args[0], args[1], cmd.OutOrStdout())
		})
	},
}

func runRuleAttach(cmd *cobra.Command, c *app.Container, name, id string, w io.Writer) error {
	ctx := cmd.Context()
	p, err := c.Projects().Get(ctx, name)
	if err != nil {
		return err
	}
	if !ruleAttachDetach {
		if _, err := c.Rules().Get(id); err != nil {
			return err
		}
	}

	files, err := ruleTargets(c, p)
	if err != nil {
		return err
	}
	if p.FileRules == nil {
		p.FileRules = map[string][]string{}
	}
	for _, f := range files {
		if ruleAttachDetach {
			p.FileRules[f] = project.Remove(p.FileRules[f], id)
			if len(p.FileRules[f]) == 0 {
				delete(p.FileRules, f)
			}
			continue
		}
		p.FileRules[f], _ = project.Merge(p.FileRules[f], id)
	}

	if err := c.Projects().Save(ctx, p); err != nil {
		return err
	}
	verb := "attached to"
	if ruleAttachDetach {
		verb = "detached from"
	}
	fmt.Fprintf(w, "%s Rule %q %s %s\n", checkMark, id, verb, listOrDash(files))
	return nil
}

// ruleTargets returns the FileRules keys a rule change applies to.
func ruleTargets(c *app.Container, p *project.Project) ([]string, error) {
	if p.Unified() {
		return []string{project.UnifiedKey}, nil
	}
	if ruleAttachFile != "" {
		return []string{ruleAttachFile}, nil
	}
	var files []string
	for _, id := range p.Agents {
		a, err := c.Agents().Lookup(id)
		if err != nil {
			continue
		}
		if f := a.InstructionFile(); f != "" && !slices.Contains(files, f) {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return nil, errors.WithHint(
			errors.Newf("project %q has no agent with an instruction file", p.Name),
			"Pass --file or add an agent first",
		)
	}
	return files, nil
}
