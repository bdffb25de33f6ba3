// Package commands implements the CLI commands for nexus.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nexus/cmd"
	"github.com/thoreinstein/nexus/internal/app"
	"github.com/thoreinstein/nexus/internal/config"
	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// loadedConfig and configLoadErr hold the outcome of config loading.
var (
	loadedConfig  *config.Config
	configLoadErr error
)

// newContainer is swapped in tests.
var newContainer = app.New

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./config.yaml or $XDG_CONFIG_HOME/nexus/config.yaml)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("nexus version {{.Version}}\n")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Keep every coding agent in a project configured alike",
	Long: `nexus keeps the MCP servers, skills and instruction rules of a project
in sync across the coding agents that work on it: Claude Code, Cursor,
Codex, Gemini CLI, OpenCode, Zed, Goose and more.

Servers, skills and rules are defined once in a canonical registry. Each
project selects from them, and a sync renders the selection into every
agent's native configuration files.`,
	Example: `  # Register a project and sync it
  nexus project create web --dir ~/src/web --agent claude --agent cursor
  nexus sync web

  # See what a sync would change
  nexus drift web

  See Also: nexus project, nexus mcp, nexus skill`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, then NEXUS_DEBUG, then config.
		if v == 0 {
			if val, ok := os.LookupEnv("NEXUS_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
		if v == 0 && loadedConfig != nil {
			if l, err := logging.ParseLevel(loadedConfig.Log.Level); err == nil {
				level = l
			}
		}
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	format := logging.Format(logFormat)
	if !cmd.Flags().Changed("log-format") && loadedConfig != nil && loadedConfig.Log.Format != "" {
		format = logging.Format(loadedConfig.Log.Format)
	}

	var primaryHandler slog.Handler
	switch format {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig reports a config load failure for every command that needs it.
func checkConfig(cmd *cobra.Command) error {
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}
	if configLoadErr != nil {
		return errors.NewUserError(
			errors.Mark(configLoadErr, errors.ErrInvalidConfig),
			"Check the config file or remove it to use the defaults",
		)
	}
	return nil
}

// openApp builds the service container from the loaded config. The caller
// must Close it.
func openApp() (*app.Container, error) {
	cfg := loadedConfig
	if cfg == nil {
		cfg = config.Default()
	}
	c, err := newContainer(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "initializing nexus")
	}
	return c, nil
}

// withApp runs fn with an open container and closes it afterwards.
func withApp(fn func(*app.Container) error) error {
	c, err := openApp()
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

// Execute runs the root command.
func Execute() error {
	return errors.Wrap(rootCmd.Execute(), "executing root command")
}
