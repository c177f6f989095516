package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// configFilePermissions is the standard permission mode for config files.
const configFilePermissions = 0o600

// configDirPermissions is the standard permission mode for config directories.
const configDirPermissions = 0o700

// Write serializes cfg as TOML and writes it to path atomically (temp file +
// fsync + rename), creating parent directories as needed. Setters on C2's
// Identity struct call this under the identity mutex so the in-memory value
// and the on-disk file never diverge (§4.2 "update both... atomically").
func Write(path string, cfg *Config) error {
	var buf bytes.Buffer

	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}

	return atomicWriteFile(path, buf.Bytes())
}

// atomicWriteFile writes data to path via a temp file in the same directory,
// fsync, then rename — so a crash mid-write never leaves a truncated config.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, configDirPermissions); err != nil {
		return fmt.Errorf("config: creating directory %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("config: creating temp file: %w", err)
	}

	tempPath := f.Name()

	succeeded := false
	defer func() {
		if !succeeded {
			os.Remove(tempPath)
		}
	}()

	if err := os.Chmod(tempPath, configFilePermissions); err != nil {
		f.Close()
		return fmt.Errorf("config: setting permissions: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("config: writing temp file: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("config: syncing temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("config: closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("config: renaming into place: %w", err)
	}

	succeeded = true

	return nil
}
