package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/mcp"
	"github.com/thoreinstein/nexus/internal/redact"
)

var (
	mcpListJSON        bool
	mcpListShowSecrets bool
)

func init() {
	mcpListCmd.Flags().BoolVar(&mcpListJSON, "json", false, "Output in JSON format")
	mcpListCmd.Flags().BoolVar(&mcpListShowSecrets, "show-secrets", false, "Reveal masked secrets in env values")
	mcpCmd.AddCommand(mcpListCmd)
}

var mcpListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered MCP servers",
	Long: `List every MCP server in the canonical registry.

Environment variables containing secrets (TOKEN, KEY, SECRET, PASSWORD, AUTH,
CREDENTIAL) are masked by default. Use --show-secrets to reveal them.

Examples:
  nexus mcp list
  nexus mcp list --json --show-secrets`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(func(c *app.Container) error {
			return runMCPListWithWriter(cmd, c, cmd.OutOrStdout())
		})
	},
}

// mcpServerInfoJSON represents an MCP server in JSON output format.
type mcpServerInfoJSON struct {
	Name      string            `json:"name"`
	Transport string            `json:"transport"`
	Command   string            `json:"command,omitempty"`
	URL       string            `json:"url,omitempty"`
	Disabled  bool              `json:"disabled"`
	Env       map[string]string `json:"env,omitempty"`
}

// runMCPListWithWriter allows injecting a writer for testing.
func runMCPListWithWriter(cmd *cobra.Command, c *app.Container, w io.Writer) error {
	names, err := c.Servers().List()
	if err != nil {
		return err
	}
	servers := c.Servers().LoadAll(cmd.Context(), names)

	infos := make([]mcpServerInfoJSON, 0, len(names))
	for _, name := range names {
		s, ok := servers[name]
		if !ok {
			continue
		}
		infos = append(infos, serverInfo(s, mcpListShowSecrets))
	}

	if mcpListJSON {
		return writeJSON(w, infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(w, "No MCP servers registered.")
		fmt.Fprintln(w, gray("Run 'nexus mcp add <name> ...' to add one."))
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTRANSPORT\tTARGET\tSTATUS")
	for _, s := range infos {
		target := s.Command
		if target == "" {
			target = s.URL
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, s.Transport, truncate(target, 50), statusString(s.Disabled))
	}
	return tw.Flush()
}

func serverInfo(s *mcp.Server, showSecrets bool) mcpServerInfoJSON {
	info := mcpServerInfoJSON{
		Name:      s.Name,
		Transport: s.Transport(),
		Command:   s.Command,
		URL:       s.URL,
		Disabled:  s.Enabled != nil && !*s.Enabled,
		Env:       s.Env,
	}
	if !showSecrets {
		info.URL = redact.URL(info.URL)
		info.Env = redact.Map(info.Env)
	}
	return info
}

func statusString(disabled bool) string {
	if disabled {
		return "disabled"
	}
	return "enabled"
}
