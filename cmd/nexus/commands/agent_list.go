package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/agent"
)

var agentListJSON bool

func init() {
	agentListCmd.Flags().BoolVar(&agentListJSON, "json", false, "Output in JSON format")
	agentCmd.AddCommand(agentListCmd)
}

var agentListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List supported agents",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runAgentList(cmd.OutOrStdout(), agent.All())
	},
}

type agentInfoJSON struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Instructions string `json:"instructions,omitempty"`
	MCPConfig    bool   `json:"mcp_config"`
	Skills       bool   `json:"skills"`
	Note         string `json:"note,omitempty"`
}

func runAgentList(w io.Writer, agents []agent.Agent) error {
	if agentListJSON {
		out := make([]agentInfoJSON, len(agents))
		for i, a := range agents {
			caps := a.Capabilities()
			out[i] = agentInfoJSON{
				ID:           a.ID(),
				Label:        a.Label(),
				Instructions: a.InstructionFile(),
				MCPConfig:    caps.MCPConfig,
				Skills:       caps.Skills,
				Note:         caps.Note,
			}
		}
		return writeJSON(w, out)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMCP\tSKILLS\tINSTRUCTIONS")
	for _, a := range agents {
		caps := a.Capabilities()
		instructions := a.InstructionFile()
		if instructions == "" {
			instructions = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.ID(), a.Label(), yesNo(caps.MCPConfig), yesNo(caps.Skills), instructions)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, a := range agents {
		if note := a.Capabilities().Note; note != "" {
			fmt.Fprintf(w, "%s %s: %s\n", gray("note"), a.ID(), note)
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
