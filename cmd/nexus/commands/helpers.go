package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/engine"
	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/project"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

// checkMark prefixes success lines.
var checkMark = green("✓")

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// writeJSON encodes v indented.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding JSON")
}

// projectName returns args[0] when given, otherwise the project registered
// for the working directory.
func projectName(ctx context.Context, c *app.Container, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "resolving working directory")
	}
	p, err := c.Projects().FindByDirectory(ctx, wd)
	if err != nil {
		return "", errors.WithHint(err, "Pass a project name or run from a registered project directory")
	}
	return p.Name, nil
}

// absDir resolves dir to an absolute path; empty stays empty.
func absDir(dir string) (string, error) {
	if dir == "" {
		return "", nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %q", dir)
	}
	return abs, nil
}

// printSyncResult reports what a sync wrote, relative to the project directory.
func printSyncResult(w io.Writer, res *engine.Result) {
	if res == nil {
		return
	}
	fmt.Fprintf(w, "%s Synced %s (%d files)\n", checkMark, bold(res.Project.Name), len(res.Written))
	for _, p := range res.Written {
		fmt.Fprintf(w, "  %s\n", relTo(res.Project.Directory, p))
	}
	for _, id := range res.Failed {
		fmt.Fprintf(w, "  %s %s failed, see log output\n", yellow("!"), id)
	}
	fmt.Fprintf(w, "%s\n", gray("run "+res.RunID))
}

// relTo shortens path relative to base when it lives beneath it.
func relTo(base, path string) string {
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// listOrDash renders an empty list as "-".
func listOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

// describeProject prints a project in the text format used by show.
func describeProject(w io.Writer, p *project.Project) {
	fmt.Fprintf(w, "Project: %s\n", bold(p.Name))
	dir := p.Directory
	if dir == "" {
		dir = yellow("(not set)")
	}
	fmt.Fprintf(w, "  Directory:    %s\n", dir)
	fmt.Fprintf(w, "  Agents:       %s\n", listOrDash(p.Agents))
	fmt.Fprintf(w, "  MCP servers:  %s\n", listOrDash(p.MCPServers))
	fmt.Fprintf(w, "  Skills:       %s\n", listOrDash(p.Skills))
	fmt.Fprintf(w, "  Local skills: %s\n", listOrDash(p.LocalSkills))
	mode := p.InstructionMode
	if mode == "" {
		mode = project.ModePerAgent
	}
	fmt.Fprintf(w, "  Instructions: %s\n", mode)
	if len(p.FileRules) > 0 {
		fmt.Fprintln(w, "  Rules:")
		for _, file := range sortedKeys(p.FileRules) {
			fmt.Fprintf(w, "    %s: %s\n", cyan(file), listOrDash(p.FileRules[file]))
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
