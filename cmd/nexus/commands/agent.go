package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(agentCmd)
}

var agentCmd = &cobra.Command{
	Use:     "agent",
	Aliases: []string{"agents"},
	Short:   "Manage the coding agents configured for a project",
	Long: `List the supported coding agents and add or remove them from a project.

Adding an agent renders the project's configuration for it. Removing one
deletes its files, keeping anything another selected agent still uses.`,
}
