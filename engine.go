package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zisync-go/zisync/internal/kernel/identity"
	"github.com/zisync-go/zisync/internal/kernel/store"
)

// openStore opens the Secure metadata store under cc's resolved appdata
// directory, creating the directory if needed. Returns a close func the
// caller must defer.
func openStore(ctx context.Context, cc *CLIContext) (*store.Store, func(), error) {
	if cc.AppData == "" {
		return nil, nil, fmt.Errorf("opening store: appdata directory could not be resolved")
	}

	if err := os.MkdirAll(cc.AppData, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating appdata directory: %w", err)
	}

	s, err := store.Open(ctx, store.Secure, identity.SecureDBPath(cc.AppData), cc.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening metadata store: %w", err)
	}

	return s, func() { s.Close() }, nil
}

// loadIdentity loads the already-Initialize'd identity for cc's appdata
// directory. Commands that merely inspect state (status, devices, tree,
// etc.) call this rather than Initialize.
func loadIdentity(ctx context.Context, cc *CLIContext, s *store.Store) (*identity.Identity, error) {
	paths := identity.Paths{
		AppData: cc.AppData,
		Cache:   filepath.Join(cc.AppData, "cache"),
	}

	return identity.Startup(ctx, s, cc.Cfg, paths, cc.Cfg.Discovery.DiscoverPort, cc.Logger)
}
