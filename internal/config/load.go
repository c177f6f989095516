package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
)

// CLIOverrides holds CLI-flag-sourced values that take precedence over both
// the config file and environment variables — the top of the four-layer
// chain (defaults -> file -> env -> flags).
type CLIOverrides struct {
	ConfigPath   string
	AppData      string
	DiscoverPort int
	Account      string
}

// Load reads and parses a TOML config file, seeded with DefaultConfig so
// any key absent from the file keeps its default value. Unknown keys are
// treated as fatal errors with "did you mean?" suggestions.
func Load(path string, logger *slog.Logger) (*Config, error) {
	logger.Debug("loading config file", "path", path)

	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := checkUnknownKeys(&md); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	logger.Debug("config file parsed successfully", "path", path)

	return cfg, nil
}

// LoadOrDefault reads a TOML config file if it exists, otherwise returns a
// Config populated with all default values. This supports the zero-config
// first run: the identity bootstrap (§4.2) creates the file on first write,
// not before.
func LoadOrDefault(path string, logger *slog.Logger) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Debug("config file not found, using defaults", "path", path)

		return DefaultConfig(), nil
	}

	return Load(path, logger)
}

// Resolve loads the config file (or defaults if absent), then layers
// environment overrides and finally CLI-flag overrides on top, in that
// order — the full four-layer chain from §6.
func Resolve(env EnvOverrides, cli CLIOverrides, logger *slog.Logger) (*Config, error) {
	cfgPath := ResolveConfigPath(env, cli, logger)

	cfg, err := LoadOrDefault(cfgPath, logger)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	applyEnvOverrides(cfg, env, logger)
	applyCLIOverrides(cfg, cli, logger)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides merges non-empty environment overrides into cfg.
func applyEnvOverrides(cfg *Config, env EnvOverrides, logger *slog.Logger) {
	if env.Account != "" {
		cfg.Identity.Username = env.Account
		logger.Debug("env override applied", "username", env.Account)
	}

	if env.DiscoverPort != "" {
		var port int
		if _, err := fmt.Sscanf(env.DiscoverPort, "%d", &port); err == nil && port > 0 {
			cfg.Discovery.DiscoverPort = port
			logger.Debug("env override applied", "discover_port", port)
		}
	}
}

// applyCLIOverrides merges non-zero CLI-flag overrides into cfg. These win
// over both the file and the environment — the last layer applied.
func applyCLIOverrides(cfg *Config, cli CLIOverrides, logger *slog.Logger) {
	if cli.DiscoverPort > 0 {
		cfg.Discovery.DiscoverPort = cli.DiscoverPort
		logger.Debug("CLI override applied", "discover_port", cli.DiscoverPort)
	}

	if cli.Account != "" {
		cfg.Identity.Username = cli.Account
		logger.Debug("CLI override applied", "username", cli.Account)
	}
}

// ResolveConfigPath determines the config file path using the three-layer
// priority: CLI flag > environment variable > platform default.
func ResolveConfigPath(env EnvOverrides, cli CLIOverrides, logger *slog.Logger) string {
	cfgPath := DefaultConfigPath()
	source := "default"

	if env.ConfigPath != "" {
		cfgPath = env.ConfigPath
		source = "env"
	}

	if cli.ConfigPath != "" {
		cfgPath = cli.ConfigPath
		source = "cli"
	}

	logger.Debug("config path resolved", "path", cfgPath, "source", source)

	return cfgPath
}

// ResolveAppData determines the appdata directory holding the Secure/Plain
// stores and per-tree caches, using the same CLI > env > default precedence
// as ResolveConfigPath.
func ResolveAppData(env EnvOverrides, cliAppData string, logger *slog.Logger) string {
	dir := DefaultDataDir()
	source := "default"

	if env.AppData != "" {
		dir = env.AppData
		source = "env"
	}

	if cliAppData != "" {
		dir = cliAppData
		source = "cli"
	}

	logger.Debug("appdata dir resolved", "path", dir, "source", source)

	return dir
}
