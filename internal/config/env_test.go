package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadEnvOverrides_Empty(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvAccount, "")
	t.Setenv(EnvAppData, "")
	t.Setenv(EnvDiscoverPort, "")

	got := ReadEnvOverrides()
	assert.Equal(t, EnvOverrides{}, got)
}

func TestReadEnvOverrides_Populated(t *testing.T) {
	t.Setenv(EnvConfig, "/custom/config.toml")
	t.Setenv(EnvAccount, "alice")
	t.Setenv(EnvAppData, "/custom/appdata")
	t.Setenv(EnvDiscoverPort, "26387")

	got := ReadEnvOverrides()
	assert.Equal(t, "/custom/config.toml", got.ConfigPath)
	assert.Equal(t, "alice", got.Account)
	assert.Equal(t, "/custom/appdata", got.AppData)
	assert.Equal(t, "26387", got.DiscoverPort)
}
