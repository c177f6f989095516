// Package tokenfile handles reading and writing the identity seed file: the
// KDF salt and derived account key that anchor one device's identity (§4.2,
// §6 "CA_CERT", "MAC_TOKEN"). This is a leaf package so both config/ and the
// kernel identity package can depend on it without an import cycle.
package tokenfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
)

// FilePerms restricts the seed file to owner-only read/write.
const FilePerms = 0o600

// DirPerms is used when creating the seed file's directory.
const DirPerms = 0o700

// Seed holds the PBKDF2 salt and the resulting derived key, base64-encoded.
// The passphrase itself is never persisted; only the salt and the output of
// deriving it are written to disk.
type Seed struct {
	Salt       string `json:"salt"`
	DerivedKey string `json:"derived_key"`
}

// File is the on-disk format for the seed file. Meta carries small cached
// values alongside the seed (e.g. the account's SHA1 ownership token).
type File struct {
	Seed *Seed             `json:"seed"`
	Meta map[string]string `json:"meta,omitempty"`
}

// Load reads a saved seed file from disk. Returns (nil, nil, nil) if the
// file does not exist — a fresh device has no identity until Save is called
// during bootstrap.
func Load(path string) (*Seed, map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil //nolint:nilnil // sentinel for "not found"
	}

	if err != nil {
		return nil, nil, fmt.Errorf("tokenfile: reading %s: %w", path, err)
	}

	var tf File
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, nil, fmt.Errorf("tokenfile: decoding %s: %w", path, err)
	}

	if tf.Seed == nil {
		return nil, nil, fmt.Errorf("tokenfile: %s missing seed field (re-bootstrap required)", path)
	}

	return tf.Seed, tf.Meta, nil
}

// ReadMeta reads just the metadata from a seed file without loading the
// seed itself. Returns (nil, nil) if the file does not exist.
func ReadMeta(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil //nolint:nilnil // sentinel for "not found"
	}

	if err != nil {
		return nil, fmt.Errorf("tokenfile: reading %s: %w", path, err)
	}

	var parsed struct {
		Meta map[string]string `json:"meta"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("tokenfile: decoding %s: %w", path, err)
	}

	return parsed.Meta, nil
}

// Save writes a seed file to disk atomically (write-to-temp + rename) with
// 0600 permissions. Never logs the derived key.
func Save(path string, seed *Seed, meta map[string]string) error {
	tf := File{Seed: seed, Meta: meta}

	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return fmt.Errorf("tokenfile: encoding: %w", err)
	}

	dir := filepath.Dir(path)
	if mkErr := os.MkdirAll(dir, DirPerms); mkErr != nil {
		return fmt.Errorf("tokenfile: creating directory %s: %w", dir, mkErr)
	}

	// Atomic write: temp file in the same directory, then rename.
	// Same directory guarantees same filesystem for rename(2).
	tmp, err := os.CreateTemp(dir, ".seed-*.tmp")
	if err != nil {
		return fmt.Errorf("tokenfile: creating temp file: %w", err)
	}

	tmpPath := tmp.Name()

	// Clean up temp file on any error path.
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := os.Chmod(tmpPath, FilePerms); err != nil {
		tmp.Close()
		return fmt.Errorf("tokenfile: setting permissions: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("tokenfile: writing: %w", err)
	}

	// Flush to stable storage before rename so a power loss between close and
	// rename cannot leave an empty or partial seed file at the final path.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("tokenfile: syncing: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tokenfile: closing: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("tokenfile: renaming: %w", err)
	}

	success = true

	return nil
}

// LoadAndMergeMeta reads the current seed file, merges new metadata keys
// (new keys overwrite existing), and saves. Returns an error if the file
// does not exist or has no seed.
func LoadAndMergeMeta(path string, meta map[string]string) error {
	seed, existingMeta, err := Load(path)
	if err != nil {
		return fmt.Errorf("reading seed for metadata update: %w", err)
	}

	if seed == nil {
		return fmt.Errorf("no seed file at %s", path)
	}

	if existingMeta == nil {
		existingMeta = make(map[string]string, len(meta))
	}

	maps.Copy(existingMeta, meta)

	return Save(path, seed, existingMeta)
}
