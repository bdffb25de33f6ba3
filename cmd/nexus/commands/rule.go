package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(ruleCmd)
}

var ruleCmd = &cobra.Command{
	Use:     "rule",
	Aliases: []string{"rules"},
	Short:   "Manage instruction rules",
	Long: `Manage reusable instruction rules. A rule is a markdown file with an
optional title and description in its frontmatter.

Rules attached to a project are rendered into a managed block of each
agent's instruction file (CLAUDE.md, AGENTS.md, GEMINI.md...). Text outside
the block is never touched.`,
}
