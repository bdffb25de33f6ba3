package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/mcp"
)

// Sentinel errors for MCP add operations.
var (
	errMCPAddMissingCommandOrURL = errors.New("either command or --url is required")
	errMCPAddBothCommandAndURL   = errors.New("cannot specify both command and --url")
)

// Package-level flag variables for mcp add command.
var (
	mcpAddURL       string
	mcpAddEnv       []string
	mcpAddTransport string
	mcpAddHeaders   []string
	mcpAddTimeout   float64
	mcpAddDisabled  bool
	mcpAddFromJSON  string
	mcpAddForce     bool
)

func init() {
	mcpAddCmd.Flags().StringVar(&mcpAddURL, "url", "",
		"remote server endpoint (http or sse)")
	mcpAddCmd.Flags().StringSliceVar(&mcpAddEnv, "env", nil,
		"environment variables in KEY=VALUE format (repeatable)")
	mcpAddCmd.Flags().StringVar(&mcpAddTransport, "transport", "",
		"explicit transport type: stdio, http, sse")
	mcpAddCmd.Flags().StringSliceVar(&mcpAddHeaders, "headers", nil,
		"HTTP headers in KEY=VALUE format (repeatable)")
	mcpAddCmd.Flags().Float64Var(&mcpAddTimeout, "timeout", 0,
		"request timeout in seconds, for agents that support one")
	mcpAddCmd.Flags().BoolVar(&mcpAddDisabled, "disabled", false,
		"store the server disabled")
	mcpAddCmd.Flags().StringVar(&mcpAddFromJSON, "from-json", "",
		"read the canonical JSON entry from a file, or - for stdin")
	mcpAddCmd.Flags().BoolVarP(&mcpAddForce, "force", "f", false,
		"overwrite if server already exists")
	mcpCmd.AddCommand(mcpAddCmd)
}

var mcpAddCmd = &cobra.Command{
	Use:   "add <name> [command] [args...]",
	Short: "Add an MCP server to the registry",
	Long: `Add an MCP server to the canonical registry.

For local stdio servers, provide a command and optional arguments:
  nexus mcp add github -- npx -y @modelcontextprotocol/server-github

For remote servers, use the --url flag:
  nexus mcp add api-gateway --url=https://api.example.com/mcp

An entry can also be given as canonical JSON:
  echo '{"command":"uvx","args":["mcp-server-git"]}' | nexus mcp add git --from-json -

Examples:
  nexus mcp add github --env GITHUB_TOKEN=ghp_xxx -- npx -y @modelcontextprotocol/server-github
  nexus mcp add api --url=https://api.example.com/mcp --headers "Authorization=Bearer token"
  nexus mcp add events --url=https://example.com/sse --transport sse`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(c *app.Container) error {
			return runMCPAddWithIO(c, args, cmd.OutOrStdout(), cmd.InOrStdin())
		})
	},
}

// runMCPAddWithIO allows injecting writers for testing.
func runMCPAddWithIO(c *app.Container, args []string, w io.Writer, r io.Reader) error {
	name := args[0]

	if !mcpAddForce && c.Servers().Exists(name) {
		return errors.NewUserError(
			errors.Newf("server %q already exists", name),
			"Use --force to overwrite",
		)
	}

	if mcpAddFromJSON != "" {
		payload, err := readPayload(mcpAddFromJSON, r)
		if err != nil {
			return err
		}
		if _, err := c.Servers().PutRaw(name, payload); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s MCP server %q added\n", checkMark, name)
		return nil
	}

	s, err := serverFromFlags(name, args[1:])
	if err != nil {
		return err
	}
	if err := c.Servers().Put(s); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s MCP server %q added (%s)\n", checkMark, name, s.Transport())
	return nil
}

// serverFromFlags builds a canonical entry from the add flags and the
// command line after the name.
func serverFromFlags(name string, command []string) (*mcp.Server, error) {
	if len(command) == 0 && mcpAddURL == "" {
		return nil, errMCPAddMissingCommandOrURL
	}
	if len(command) > 0 && mcpAddURL != "" {
		return nil, errMCPAddBothCommandAndURL
	}

	env, err := parseKeyValueSlice(mcpAddEnv, "--env")
	if err != nil {
		return nil, err
	}
	headers, err := parseKeyValueSlice(mcpAddHeaders, "--headers")
	if err != nil {
		return nil, err
	}

	s := &mcp.Server{
		Name:    name,
		Type:    mcpAddTransport,
		URL:     mcpAddURL,
		Env:     env,
		Headers: headers,
	}
	if len(command) > 0 {
		s.Command = command[0]
		s.Args = command[1:]
	}
	if mcpAddTimeout > 0 {
		s.Timeout = mcp.Float(mcpAddTimeout)
	}
	if mcpAddDisabled {
		s.Enabled = mcp.Bool(false)
	}
	if err := s.Validate(); err != nil {
		return nil, errors.NewUserError(err, "Check the transport flags: stdio needs a command, http and sse need --url")
	}
	return s, nil
}

func readPayload(src string, stdin io.Reader) ([]byte, error) {
	if src == "-" {
		data, err := io.ReadAll(stdin)
		return data, errors.Wrap(err, "reading stdin")
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, errors.NewIOError(src, err)
	}
	return data, nil
}

// parseKeyValueSlice parses KEY=VALUE entries into a map.
func parseKeyValueSlice(entries []string, flagName string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	result := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			return nil, errors.Newf("invalid %s format %q: expected KEY=VALUE", flagName, entry)
		}
		result[key] = value
	}
	return result, nil
}
