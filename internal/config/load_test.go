package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOrDefault(filepath.Join(dir, "nonexistent.toml"), testLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeTempConfig(t, `
[identity]
username = "alice"

[discovery]
discover_port = 26387
`)

	cfg, err := Load(path, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.Identity.Username)
	assert.Equal(t, 26387, cfg.Discovery.DiscoverPort)
	// Unset fields keep their defaults.
	assert.Equal(t, defaultRoutePort, cfg.Discovery.RoutePort)
}

func TestLoad_UnknownSection(t *testing.T) {
	path := writeTempConfig(t, `
[bogus]
foo = "bar"
`)

	_, err := Load(path, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config section")
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeTempConfig(t, `
[identity]
usernmae = "alice"
`)

	_, err := Load(path, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean")
	assert.Contains(t, err.Error(), "username")
}

func TestResolve_EnvAndCLIOverridesLayered(t *testing.T) {
	path := writeTempConfig(t, `
[identity]
username = "from-file"
`)

	env := EnvOverrides{Account: "from-env"}
	cli := CLIOverrides{ConfigPath: path, Account: "from-cli"}

	cfg, err := Resolve(env, cli, testLogger())
	require.NoError(t, err)
	// CLI wins over env and file.
	assert.Equal(t, "from-cli", cfg.Identity.Username)
}

func TestResolveConfigPath_Precedence(t *testing.T) {
	logger := testLogger()

	assert.Equal(t, DefaultConfigPath(), ResolveConfigPath(EnvOverrides{}, CLIOverrides{}, logger))
	assert.Equal(t, "/env/path.toml", ResolveConfigPath(EnvOverrides{ConfigPath: "/env/path.toml"}, CLIOverrides{}, logger))
	assert.Equal(t, "/cli/path.toml", ResolveConfigPath(
		EnvOverrides{ConfigPath: "/env/path.toml"},
		CLIOverrides{ConfigPath: "/cli/path.toml"},
		logger,
	))
}
