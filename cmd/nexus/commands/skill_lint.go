package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/paths"
	"github.com/thoreinstein/nexus/internal/skill"
	"github.com/thoreinstein/nexus/pkg/fileutil"
)

// errLintIssues makes the command exit non-zero when any skill has issues.
var errLintIssues = errors.New("skills have lint issues")

func init() {
	skillCmd.AddCommand(skillLintCmd)
}

var skillLintCmd = &cobra.Command{
	Use:     "lint [name|path...]",
	Aliases: []string{"validate"},
	Short:   "Check skills against the SKILL.md conventions",
	Long: `Check skills for the problems agents reject: missing or malformed
names, names that do not match the directory, missing descriptions and
malformed allowed-tools entries.

Arguments are registry names or paths to skill directories. Without
arguments every registry skill is checked.

Examples:
  nexus skill lint
  nexus skill lint pdf ./skills/review`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			return runSkillLint(cmd, c, args, cmd.OutOrStdout())
		})
	},
}

func runSkillLint(cmd *cobra.Command, c *app.Container, args []string, w io.Writer) error {
	targets := args
	if len(targets) == 0 {
		entries, err := c.Hub().List(cmd.Context())
		if err != nil {
			return err
		}
		for _, e := range entries {
			targets = append(targets, e.Name)
		}
	}

	failed := 0
	for _, t := range targets {
		file, err := skillFile(c.Hub(), t)
		if err != nil {
			return err
		}
		issues, err := lintFile(file)
		if err != nil {
			return err
		}
		if len(issues) == 0 {
			fmt.Fprintf(w, "%s %s\n", checkMark, t)
			continue
		}
		failed++
		fmt.Fprintf(w, "%s %s\n", yellow("✗"), t)
		for _, issue := range issues {
			fmt.Fprintf(w, "    %s\n", issue)
		}
	}

	if failed > 0 {
		return errors.NewUserError(errors.Wrapf(errLintIssues, "%d of %d", failed, len(targets)), "")
	}
	return nil
}

// skillFile resolves a registry name or a directory path to its SKILL.md.
func skillFile(hub *skill.Hub, target string) (string, error) {
	if fileutil.IsDir(target) {
		return filepath.Join(target, paths.SkillFilename), nil
	}
	if fileutil.IsFile(target) {
		return target, nil
	}
	dir, err := hub.Path(target)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, paths.SkillFilename), nil
}

func lintFile(file string) ([]error, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.NewIOError(file, err)
	}
	doc, err := skill.ParseDocument(data, file)
	if err != nil {
		return []error{err}, nil
	}
	return skill.Lint(doc, file), nil
}
