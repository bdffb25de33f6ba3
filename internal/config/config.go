// Package config provides configuration management for nexus using Viper.
package config

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/paths"
)

// EnvPrefix is prepended to every environment override, e.g. NEXUS_DATA_DIR.
const EnvPrefix = "NEXUS"

// Link modes for populating agent skill directories from the project hub.
const (
	LinkCopy    = "copy"
	LinkSymlink = "symlink"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// Home overrides the home directory used for the legacy skill location.
	Home string `mapstructure:"home" yaml:"home,omitempty"`

	// DataDir overrides where the registry, skills, rules and projects live.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir,omitempty"`

	// SelfCommand overrides the executable written into the self server entry.
	SelfCommand string `mapstructure:"self_command" yaml:"self_command,omitempty"`

	Skills SkillsConfig `mapstructure:"skills" yaml:"skills"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// SkillsConfig controls skill propagation.
type SkillsConfig struct {
	LinkMode string `mapstructure:"link_mode" yaml:"link_mode"`
}

// LogConfig holds logging defaults; command-line flags take precedence.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Init resets Viper and registers defaults, search paths and environment
// bindings. Call it once at startup before Load.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	viper.AddConfigPath(configDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(envReplacer)
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("home", "")
	viper.SetDefault("data_dir", "")
	viper.SetDefault("self_command", "")
	viper.SetDefault("skills.link_mode", LinkCopy)
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.format", "text")
}

// configDir honours NEXUS_CONFIG_DIR before falling back to the XDG location.
func configDir() string {
	if dir := os.Getenv(EnvPrefix + "_CONFIG_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(paths.ConfigHome(), paths.AppName)
}

// Load reads the configuration file and validates it.
// If path is empty the default locations are searched and a missing file
// yields the defaults; an explicit path must exist.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// defaults only
		case errors.As(err, &notFound), errors.Is(err, fs.ErrNotExist):
			return nil, errors.Wrapf(errors.ErrNotFound, "config file not found at %s", path)
		default:
			return nil, errors.Malformed(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Malformed(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(joinErrors(errs), "validating config")
	}
	return &cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: 1,
		Skills:  SkillsConfig{LinkMode: LinkCopy},
		Log:     LogConfig{Level: "warn", Format: "text"},
	}
}

// Root resolves the paths.Root described by cfg, applying the home and
// data_dir overrides on top of the XDG defaults.
func (c *Config) Root() (paths.Root, error) {
	if c.Home != "" && c.DataDir == "" {
		r := paths.NewRoot(c.Home)
		return r, nil
	}

	r, err := paths.DefaultRoot()
	if err != nil && c.Home == "" {
		return paths.Root{}, err
	}
	if c.Home != "" {
		r.Home = c.Home
	}
	if c.DataDir != "" {
		r.DataDir = c.DataDir
	}
	if r.ConfigDir == "" {
		r.ConfigDir = configDir()
	}
	return r, nil
}

// SelfExecutable returns the command written into the self server entry.
func (c *Config) SelfExecutable() string {
	if c.SelfCommand != "" {
		return c.SelfCommand
	}
	exe, err := os.Executable()
	if err != nil {
		return paths.AppName
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		return resolved
	}
	return exe
}
