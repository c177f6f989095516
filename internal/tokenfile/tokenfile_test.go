package tokenfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FileNotFound(t *testing.T) {
	seed, meta, err := Load("/nonexistent/path/seed.json")
	assert.Nil(t, seed)
	assert.Nil(t, meta)
	assert.NoError(t, err)
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")

	original := &Seed{Salt: "c2FsdA==", DerivedKey: "a2V5Ynl0ZXM="}
	meta := map[string]string{"account_token": "deadbeef"}

	require.NoError(t, Save(path, original, meta))

	seed, loadedMeta, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original.Salt, seed.Salt)
	assert.Equal(t, original.DerivedKey, seed.DerivedKey)
	assert.Equal(t, "deadbeef", loadedMeta["account_token"])
}

func TestLoad_MissingSeedField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")

	require.NoError(t, os.WriteFile(path, []byte(`{"salt":"old"}`), 0o600))

	seed, meta, err := Load(path)
	assert.Nil(t, seed)
	assert.Nil(t, meta)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing seed field")
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")

	require.NoError(t, os.WriteFile(path, []byte(`{not json}`), 0o600))

	seed, meta, err := Load(path)
	assert.Nil(t, seed)
	assert.Nil(t, meta)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
}

func TestLoad_NilMeta(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")

	require.NoError(t, Save(path, &Seed{Salt: "s", DerivedKey: "k"}, nil))

	seed, meta, err := Load(path)
	require.NoError(t, err)
	assert.NotNil(t, seed)
	assert.Nil(t, meta)
}

func TestReadMeta_FileNotFound(t *testing.T) {
	meta, err := ReadMeta("/nonexistent/path/seed.json")
	assert.Nil(t, meta)
	assert.NoError(t, err)
}

func TestReadMeta_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")

	require.NoError(t, Save(path, &Seed{Salt: "s", DerivedKey: "k"}, map[string]string{"account_token": "abc"}))

	meta, err := ReadMeta(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", meta["account_token"])
}

func TestReadMeta_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")

	require.NoError(t, os.WriteFile(path, []byte(`{corrupt`), 0o600))

	meta, err := ReadMeta(path)
	assert.Nil(t, meta)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "sub", "dir", "seed.json")

	err := Save(nested, &Seed{Salt: "s", DerivedKey: "k"}, nil)
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FilePerms), info.Mode().Perm())
}

func TestSave_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")

	require.NoError(t, Save(path, &Seed{Salt: "s", DerivedKey: "k"}, nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FilePerms), info.Mode().Perm())
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")

	original := &Seed{Salt: "c2FsdDI=", DerivedKey: "a2V5Mg=="}
	meta := map[string]string{"key": "value"}

	require.NoError(t, Save(path, original, meta))

	seed, loadedMeta, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original.Salt, seed.Salt)
	assert.Equal(t, original.DerivedKey, seed.DerivedKey)
	assert.Equal(t, "value", loadedMeta["key"])
}

func TestLoadAndMergeMeta_MergesKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")

	require.NoError(t, Save(path, &Seed{Salt: "s", DerivedKey: "k"}, map[string]string{
		"account_token": "old",
		"display_name":  "Alice",
	}))

	require.NoError(t, LoadAndMergeMeta(path, map[string]string{
		"account_token": "new",
		"user_id":       "abc123",
	}))

	meta, err := ReadMeta(path)
	require.NoError(t, err)
	assert.Equal(t, "new", meta["account_token"])
	assert.Equal(t, "Alice", meta["display_name"])
	assert.Equal(t, "abc123", meta["user_id"])
}

func TestLoadAndMergeMeta_FileNotFound(t *testing.T) {
	err := LoadAndMergeMeta("/nonexistent/path/seed.json", map[string]string{"k": "v"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no seed file")
}

func TestLoadAndMergeMeta_NilExistingMeta(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")

	require.NoError(t, Save(path, &Seed{Salt: "s", DerivedKey: "k"}, nil))

	require.NoError(t, LoadAndMergeMeta(path, map[string]string{"key": "value"}))

	meta, err := ReadMeta(path)
	require.NoError(t, err)
	assert.Equal(t, "value", meta["key"])
}
