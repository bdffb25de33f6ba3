// Package main is the entry point for the nexus CLI.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/thoreinstein/nexus/cmd/nexus/commands"
	"github.com/thoreinstein/nexus/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	exitErr := errors.Classify(err)
	fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), exitErr)
	if exitErr.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.YellowString("Hint:"), exitErr.Suggestion)
	}
	os.Exit(exitErr.Code)
}
