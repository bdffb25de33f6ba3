package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(projectCmd)
}

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects", "p"},
	Short:   "Manage projects",
	Long: `Manage projects: named directories with a selection of agents, MCP
servers, skills and instruction rules.

Projects are stored in the nexus data directory. Deleting a project forgets
the selection but leaves files in its directory untouched.`,
}
