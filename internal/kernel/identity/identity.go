package identity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/zisync-go/zisync/internal/config"
	"github.com/zisync-go/zisync/internal/kernel/kerr"
	"github.com/zisync-go/zisync/internal/kernel/store"
)

// Paths locates the on-disk directories this device uses outside of the
// config file itself (internal/config already resolves the config path).
type Paths struct {
	AppData string
	Cache   string
}

// Keys holds this account's shared secret material, derived once at
// Initialize time and never persisted in plaintext (§4.2).
type Keys struct {
	AccountKey []byte
	TokenSHA1  []byte
}

// Identity is the process-wide, read-mostly device identity (§4.2). It is
// built once at Startup and is treated as immutable thereafter except
// through the mutex-guarded setters below, which write through to the
// Metadata Store's config table in the same critical section as the
// teacher's Holder.Update does for its Config snapshot (internal/config/
// holder.go), adapted from "swap the whole struct" to "update one field
// and persist it" because Identity's fields are independently mutable
// Kernel API setters rather than one atomic reloaded document.
type Identity struct {
	mu sync.Mutex

	deviceUUID  string
	accountName string
	deviceName  string

	routePort    int
	dataPort     int
	discoverPort int

	transferThreads int
	uploadLimitKBps int
	downloadLimit   int
	syncIntervalS   int

	paths Paths
	keys  Keys

	store  *store.Store
	logger *slog.Logger
}

// config table keys (§3 Config key/value table).
const (
	keyDeviceUUID      = "device_uuid"
	keyAccountName     = "account_name"
	keyDeviceName      = "device_name"
	keyRoutePort       = "route_port"
	keyDataPort        = "data_port"
	keyDiscoverPort    = "discover_port"
	keyTransferThreads = "transfer_threads"
	keyUploadLimit     = "upload_limit_kbps"
	keyDownloadLimit   = "download_limit_kbps"
	keySyncInterval    = "sync_interval_s"
)

// Initialize bootstraps a brand-new identity: generates a device uuid,
// derives the account key and token SHA1 from (account, password), and
// seeds the local device row (id=0, §3 LOCAL_DEVICE_ID) and every Config
// table entry from cfg's resolved values (§6 Kernel API
// "Initialize(appdata, username, password, backup_root?, mtokens?)"). The
// bootstrap config.toml itself is written by internal/config, not here —
// Initialize only seeds the store-backed runtime state that layers on top
// of it.
func Initialize(
	ctx context.Context,
	s *store.Store,
	cfg *config.Config,
	paths Paths,
	accountName, password string,
	logger *slog.Logger,
) (*Identity, error) {
	id := &Identity{
		deviceUUID:      uuid.NewString(),
		accountName:     accountName,
		deviceName:      defaultDeviceName(),
		routePort:       cfg.Discovery.RoutePort,
		dataPort:        cfg.Discovery.DataPort,
		discoverPort:    cfg.Discovery.DiscoverPort,
		transferThreads: cfg.Transfers.TransferWorkers,
		syncIntervalS:   cfg.Transfers.SyncIntervalS,
		paths:           paths,
		keys: Keys{
			AccountKey: DeriveAccountKey(accountName),
			TokenSHA1:  DeriveTokenSHA1(accountName, password),
		},
		store:  s,
		logger: logger,
	}

	if err := id.persistAll(ctx); err != nil {
		return nil, err
	}

	logger.Info("identity initialized", "device_uuid", id.deviceUUID, "account", accountName)

	return id, nil
}

// Startup loads a previously Initialize'd identity back from the Config
// table (§6 "Startup(appdata, discover_port, listener, tree_root_prefix?,
// mtokens?)"). discoverPort, if nonzero, overrides the persisted value for
// this process only (mirroring the teacher's CLI-flag-beats-file layer).
// cfg supplies fallback defaults for any key not yet present in the store
// (first Startup immediately after Initialize always has every key).
func Startup(ctx context.Context, s *store.Store, cfg *config.Config, paths Paths, discoverPort int, logger *slog.Logger) (*Identity, error) {
	id := &Identity{paths: paths, store: s, logger: logger}

	fields := map[string]*string{
		keyDeviceUUID:  &id.deviceUUID,
		keyAccountName: &id.accountName,
		keyDeviceName:  &id.deviceName,
	}

	for key, dst := range fields {
		v, ok, err := s.GetConfigValue(ctx, key)
		if err != nil {
			return nil, err
		}

		if !ok {
			return nil, kerr.Wrap(kerr.NotStartup, "identity.Startup", nil)
		}

		*dst = v
	}

	var err error
	if id.routePort, err = getIntConfig(ctx, s, keyRoutePort, cfg.Discovery.RoutePort); err != nil {
		return nil, err
	}

	if id.dataPort, err = getIntConfig(ctx, s, keyDataPort, cfg.Discovery.DataPort); err != nil {
		return nil, err
	}

	if id.discoverPort, err = getIntConfig(ctx, s, keyDiscoverPort, cfg.Discovery.DiscoverPort); err != nil {
		return nil, err
	}

	if id.transferThreads, err = getIntConfig(ctx, s, keyTransferThreads, cfg.Transfers.TransferWorkers); err != nil {
		return nil, err
	}

	if id.uploadLimitKBps, err = getIntConfig(ctx, s, keyUploadLimit, 0); err != nil {
		return nil, err
	}

	if id.downloadLimit, err = getIntConfig(ctx, s, keyDownloadLimit, 0); err != nil {
		return nil, err
	}

	if id.syncIntervalS, err = getIntConfig(ctx, s, keySyncInterval, cfg.Transfers.SyncIntervalS); err != nil {
		return nil, err
	}

	if discoverPort != 0 {
		id.discoverPort = discoverPort
	}

	logger.Info("identity started", "device_uuid", id.deviceUUID, "account", id.accountName)

	return id, nil
}

func defaultDeviceName() string {
	name, err := hostnameSafe()
	if err != nil || name == "" {
		return "device"
	}

	return name
}

func (id *Identity) persistAll(ctx context.Context) error {
	if err := id.store.UpsertDevice(ctx, &store.Device{
		ID:        store.LocalDeviceID,
		UUID:      id.deviceUUID,
		Name:      id.deviceName,
		RoutePort: id.routePort,
		DataPort:  id.dataPort,
		Status:    store.DeviceOnline,
		IsMine:    true,
		TokenSHA1: id.keys.TokenSHA1,
	}); err != nil {
		return err
	}

	values := map[string]string{
		keyDeviceUUID:      id.deviceUUID,
		keyAccountName:     id.accountName,
		keyDeviceName:      id.deviceName,
		keyRoutePort:       itoa(id.routePort),
		keyDataPort:        itoa(id.dataPort),
		keyDiscoverPort:    itoa(id.discoverPort),
		keyTransferThreads: itoa(id.transferThreads),
		keyUploadLimit:     itoa(id.uploadLimitKBps),
		keyDownloadLimit:   itoa(id.downloadLimit),
		keySyncInterval:    itoa(id.syncIntervalS),
	}

	for k, v := range values {
		if err := id.store.SetConfigValue(ctx, k, v); err != nil {
			return err
		}
	}

	return nil
}

// DeviceUUID returns this device's uuid.
func (id *Identity) DeviceUUID() string { return id.deviceUUID }

// AccountName returns the account name.
func (id *Identity) AccountName() string { return id.accountName }

// Keys returns the derived account key and token SHA1.
func (id *Identity) Keys() Keys { return id.keys }

// Paths returns the resolved filesystem locations.
func (id *Identity) Paths() Paths { return id.paths }

// DeviceName returns the current device display name.
func (id *Identity) DeviceName() string {
	id.mu.Lock()
	defer id.mu.Unlock()

	return id.deviceName
}

// SetDeviceName updates the device display name, writing through to both
// the device row and the config table under the same lock (§4.2, §5 lock
// order "Config < DB").
func (id *Identity) SetDeviceName(ctx context.Context, name string) error {
	id.mu.Lock()
	defer id.mu.Unlock()

	id.deviceName = name

	if err := id.store.SetConfigValue(ctx, keyDeviceName, name); err != nil {
		return err
	}

	return id.store.SetDeviceStatus(ctx, store.LocalDeviceID, store.DeviceOnline)
}

// RoutePort returns the current route-port.
func (id *Identity) RoutePort() int {
	id.mu.Lock()
	defer id.mu.Unlock()

	return id.routePort
}

// SetRoutePort validates and persists a new route port. The caller (C4
// Router) must rebind its listener and only call this once the new socket
// is accepting, per §4.4 "reply success only after the new socket is
// accepting."
func (id *Identity) SetRoutePort(ctx context.Context, port int) error {
	if port < 1 || port > 65535 {
		return kerr.Wrap(kerr.InvalidPort, "identity.SetRoutePort", nil)
	}

	id.mu.Lock()
	defer id.mu.Unlock()

	id.routePort = port

	return id.store.SetConfigValue(ctx, keyRoutePort, itoa(port))
}

// DataPort returns the current data-port.
func (id *Identity) DataPort() int {
	id.mu.Lock()
	defer id.mu.Unlock()

	return id.dataPort
}

// SetDataPort validates and persists a new data port.
func (id *Identity) SetDataPort(ctx context.Context, port int) error {
	if port < 1 || port > 65535 {
		return kerr.Wrap(kerr.InvalidPort, "identity.SetDataPort", nil)
	}

	id.mu.Lock()
	defer id.mu.Unlock()

	id.dataPort = port

	return id.store.SetConfigValue(ctx, keyDataPort, itoa(port))
}

// DiscoverPort returns the current discovery UDP port.
func (id *Identity) DiscoverPort() int {
	id.mu.Lock()
	defer id.mu.Unlock()

	return id.discoverPort
}

// SetDiscoverPort validates and persists a new discovery port. The caller
// (C3 Discovery Server) must tear down and rebind its UDP socket; a bind
// failure there surfaces as kerr.ErrAddrInUse leaving the previous socket
// bound (spec.md §8 boundary 11).
func (id *Identity) SetDiscoverPort(ctx context.Context, port int) error {
	if port < 1 || port > 65535 {
		return kerr.Wrap(kerr.InvalidPort, "identity.SetDiscoverPort", nil)
	}

	id.mu.Lock()
	defer id.mu.Unlock()

	id.discoverPort = port

	return id.store.SetConfigValue(ctx, keyDiscoverPort, itoa(port))
}

// TransferThreadCount returns the configured transfer concurrency.
func (id *Identity) TransferThreadCount() int {
	id.mu.Lock()
	defer id.mu.Unlock()

	return id.transferThreads
}

// SetTransferThreadCount persists a new transfer concurrency limit.
func (id *Identity) SetTransferThreadCount(ctx context.Context, n int) error {
	if n < 1 {
		return kerr.Wrap(kerr.Config, "identity.SetTransferThreadCount", nil)
	}

	id.mu.Lock()
	defer id.mu.Unlock()

	id.transferThreads = n

	return id.store.SetConfigValue(ctx, keyTransferThreads, itoa(n))
}

// UploadLimitKBps / DownloadLimitKBps return the configured bandwidth caps
// (0 means unlimited).
func (id *Identity) UploadLimitKBps() int {
	id.mu.Lock()
	defer id.mu.Unlock()

	return id.uploadLimitKBps
}

func (id *Identity) DownloadLimitKBps() int {
	id.mu.Lock()
	defer id.mu.Unlock()

	return id.downloadLimit
}

// SetUploadLimitKBps persists a new upload bandwidth cap.
func (id *Identity) SetUploadLimitKBps(ctx context.Context, kbps int) error {
	id.mu.Lock()
	defer id.mu.Unlock()

	id.uploadLimitKBps = kbps

	return id.store.SetConfigValue(ctx, keyUploadLimit, itoa(kbps))
}

// SetDownloadLimitKBps persists a new download bandwidth cap.
func (id *Identity) SetDownloadLimitKBps(ctx context.Context, kbps int) error {
	id.mu.Lock()
	defer id.mu.Unlock()

	id.downloadLimit = kbps

	return id.store.SetConfigValue(ctx, keyDownloadLimit, itoa(kbps))
}

// SyncIntervalS returns the configured AUTO-mode sync interval in seconds.
func (id *Identity) SyncIntervalS() int {
	id.mu.Lock()
	defer id.mu.Unlock()

	return id.syncIntervalS
}

// SetSyncIntervalS persists a new AUTO-mode sync interval.
func (id *Identity) SetSyncIntervalS(ctx context.Context, seconds int) error {
	if seconds < 1 {
		return kerr.Wrap(kerr.Config, "identity.SetSyncIntervalS", nil)
	}

	id.mu.Lock()
	defer id.mu.Unlock()

	id.syncIntervalS = seconds

	return id.store.SetConfigValue(ctx, keySyncInterval, itoa(seconds))
}

// Shutdown marks the local device offline. The caller is responsible for
// tearing down the discovery, router, and transfer services first.
func (id *Identity) Shutdown(ctx context.Context) error {
	return id.store.SetDeviceStatus(ctx, store.LocalDeviceID, store.DeviceOffline)
}

func getIntConfig(ctx context.Context, s *store.Store, key string, fallback int) (int, error) {
	v, ok, err := s.GetConfigValue(ctx, key)
	if err != nil {
		return 0, err
	}

	if !ok {
		return fallback, nil
	}

	n, err := atoi(v)
	if err != nil {
		return 0, kerr.Wrap(kerr.Config, "identity.getIntConfig: "+key, err)
	}

	return n, nil
}
