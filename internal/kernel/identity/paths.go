// Package identity implements the runtime device identity (C2): a
// process-wide, read-mostly structure describing this device (name, uuid,
// ports, derived keys), mutated only through a mutex-guarded set of Kernel
// API setters that write through to the Metadata Store's config table in
// the same critical section. Bootstrap configuration resolution (TOML
// file, env vars, CLI flags, XDG paths) is internal/config's job; an
// Identity is built from an already-resolved *config.Config plus the
// Store, not from its own copy of that chain.
package identity

import "path/filepath"

// SecureDBPath returns the path to the main metadata store within an
// appdata directory (§6 "Persisted state layout").
func SecureDBPath(appdata string) string {
	return filepath.Join(appdata, "ZiSync.Secure.db")
}

// PlainDBPath returns the path to the unencrypted side-store within an
// appdata directory.
func PlainDBPath(appdata string) string {
	return filepath.Join(appdata, "ZiSync.Plain.db")
}
