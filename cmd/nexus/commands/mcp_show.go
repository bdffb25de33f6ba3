package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/mcp"
	"github.com/thoreinstein/nexus/internal/redact"
)

var (
	mcpShowJSON        bool
	mcpShowShowSecrets bool
)

func init() {
	mcpShowCmd.Flags().BoolVar(&mcpShowJSON, "json", false, "Output the canonical JSON entry")
	mcpShowCmd.Flags().BoolVar(&mcpShowShowSecrets, "show-secrets", false, "Reveal masked secrets in environment variables and headers")
	mcpCmd.AddCommand(mcpShowCmd)
}

var mcpShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Display an MCP server entry",
	Long: `Display an MCP server entry from the canonical registry.

Environment variables and headers are masked by default to protect secrets.
Use --show-secrets to reveal the full values.

Examples:
  nexus mcp show github
  nexus mcp show github --show-secrets
  nexus mcp show github --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			s, err := c.Servers().Get(args[0])
			if err != nil {
				return err
			}
			if !mcpShowShowSecrets {
				s = maskServer(s)
			}
			if mcpShowJSON {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			outputMCPShowText(cmd.OutOrStdout(), s)
			return nil
		})
	},
}

// maskServer returns a copy of s with secrets masked.
func maskServer(s *mcp.Server) *mcp.Server {
	out := s.Clone()
	out.Env = redact.Map(out.Env)
	out.Headers = redact.Map(out.Headers)
	out.URL = redact.URL(out.URL)
	return out
}

func outputMCPShowText(w io.Writer, s *mcp.Server) {
	fmt.Fprintf(w, "MCP Server: %s\n", bold(s.Name))
	fmt.Fprintf(w, "  Transport:  %s\n", s.Transport())

	if s.Command != "" {
		fmt.Fprintf(w, "  Command:    %s\n", s.Command)
	}
	if len(s.Args) > 0 {
		fmt.Fprintf(w, "  Args:       %s\n", strings.Join(s.Args, " "))
	}
	if s.URL != "" {
		fmt.Fprintf(w, "  URL:        %s\n", s.URL)
	}
	fmt.Fprintf(w, "  Status:     %s\n", statusString(s.Enabled != nil && !*s.Enabled))
	if s.Timeout != nil {
		fmt.Fprintf(w, "  Timeout:    %gs\n", *s.Timeout)
	}

	if len(s.Env) > 0 {
		fmt.Fprintln(w, "  Environment:")
		printSortedMap(w, s.Env, "    ")
	}
	if len(s.Headers) > 0 {
		fmt.Fprintln(w, "  Headers:")
		printSortedMap(w, s.Headers, "    ")
	}
	if unknown := s.Unknown(); len(unknown) > 0 {
		fmt.Fprintf(w, "  Extra keys: %s\n", strings.Join(sortedKeys(unknown), ", "))
	}
}

// printSortedMap prints map entries sorted by key.
func printSortedMap(w io.Writer, m map[string]string, indent string) {
	for _, k := range sortedKeys(m) {
		fmt.Fprintf(w, "%s%s=%s\n", indent, k, m[k])
	}
}
