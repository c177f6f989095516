package config

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckUnknownKeys_NoUndecoded(t *testing.T) {
	cfg := DefaultConfig()
	_, err := toml.Decode(`[identity]
username = "alice"`, cfg)
	require.NoError(t, err)
}

func TestCheckUnknownKeys_SuggestsClosestSection(t *testing.T) {
	cfg := DefaultConfig()
	md, err := toml.Decode(`[identty]
username = "alice"`, cfg)
	require.NoError(t, err)

	checkErr := checkUnknownKeys(&md)
	require.Error(t, checkErr)
	assert.Contains(t, checkErr.Error(), "identity")
}

func TestCheckUnknownKeys_SuggestsClosestLeaf(t *testing.T) {
	cfg := DefaultConfig()
	md, err := toml.Decode(`[transfers]
snyc_workers = 4`, cfg)
	require.NoError(t, err)

	checkErr := checkUnknownKeys(&md)
	require.Error(t, checkErr)
	assert.Contains(t, checkErr.Error(), "sync_workers")
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("same", "same"))
	assert.Equal(t, 1, levenshtein("cat", "cats"))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
	assert.Equal(t, 4, levenshtein("", "four"))
}

func TestClosestMatch_WithinThreshold(t *testing.T) {
	known := []string{"username", "backup_root", "tree_root_prefix"}
	assert.Equal(t, "username", closestMatch("usernmae", known))
}

func TestClosestMatch_NoneWithinThreshold(t *testing.T) {
	known := []string{"username", "backup_root"}
	assert.Equal(t, "", closestMatch("zzzzzzzzzzzzzzzz", known))
}
