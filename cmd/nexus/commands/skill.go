package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(skillCmd)
}

var skillCmd = &cobra.Command{
	Use:     "skill",
	Aliases: []string{"skills"},
	Short:   "Manage the global skill registry",
	Long: `Manage the global skill registry. A skill is a directory holding a
SKILL.md document and optional companion files. Projects select skills by
name; a sync copies them into each agent's skill directory.`,
}
