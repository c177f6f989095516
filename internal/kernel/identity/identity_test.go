package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zisync-go/zisync/internal/config"
	"github.com/zisync-go/zisync/internal/kernel/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(context.Background(), store.Secure, ":memory:", testLogger(t))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func testPaths(t *testing.T) Paths {
	t.Helper()

	return Paths{AppData: t.TempDir(), Cache: t.TempDir()}
}

func TestInitializeThenStartup(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	cfg := config.DefaultConfig()
	paths := testPaths(t)

	id, err := Initialize(ctx, s, cfg, paths, "alice@example.com", "hunter2", testLogger(t))
	require.NoError(t, err)
	assert.NotEmpty(t, id.DeviceUUID())
	assert.Equal(t, "alice@example.com", id.AccountName())
	assert.Equal(t, cfg.Discovery.RoutePort, id.RoutePort())

	started, err := Startup(ctx, s, cfg, paths, 0, testLogger(t))
	require.NoError(t, err)
	assert.Equal(t, id.DeviceUUID(), started.DeviceUUID())
	assert.Equal(t, id.AccountName(), started.AccountName())
	assert.Equal(t, id.RoutePort(), started.RoutePort())
}

func TestStartupOverridesDiscoverPort(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	cfg := config.DefaultConfig()
	paths := testPaths(t)

	_, err := Initialize(ctx, s, cfg, paths, "alice@example.com", "hunter2", testLogger(t))
	require.NoError(t, err)

	started, err := Startup(ctx, s, cfg, paths, 9999, testLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 9999, started.DiscoverPort())
}

func TestStartupWithoutInitializeFails(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := Startup(ctx, s, config.DefaultConfig(), Paths{}, 0, testLogger(t))
	require.Error(t, err)
}

func TestSetDeviceNamePersists(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	cfg := config.DefaultConfig()
	paths := testPaths(t)

	id, err := Initialize(ctx, s, cfg, paths, "alice@example.com", "hunter2", testLogger(t))
	require.NoError(t, err)

	require.NoError(t, id.SetDeviceName(ctx, "alice-laptop"))
	assert.Equal(t, "alice-laptop", id.DeviceName())

	started, err := Startup(ctx, s, cfg, paths, 0, testLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "alice-laptop", started.DeviceName())
}

func TestSetRoutePortValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := Initialize(ctx, s, config.DefaultConfig(), testPaths(t), "alice@example.com", "hunter2", testLogger(t))
	require.NoError(t, err)

	require.Error(t, id.SetRoutePort(ctx, 0))
	require.Error(t, id.SetRoutePort(ctx, 70000))

	require.NoError(t, id.SetRoutePort(ctx, 40000))
	assert.Equal(t, 40000, id.RoutePort())
}

func TestSetTransferThreadCountAndLimits(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := Initialize(ctx, s, config.DefaultConfig(), testPaths(t), "alice@example.com", "hunter2", testLogger(t))
	require.NoError(t, err)

	require.Error(t, id.SetTransferThreadCount(ctx, 0))
	require.NoError(t, id.SetTransferThreadCount(ctx, 8))
	assert.Equal(t, 8, id.TransferThreadCount())

	require.NoError(t, id.SetUploadLimitKBps(ctx, 512))
	require.NoError(t, id.SetDownloadLimitKBps(ctx, 1024))
	assert.Equal(t, 512, id.UploadLimitKBps())
	assert.Equal(t, 1024, id.DownloadLimitKBps())

	require.Error(t, id.SetSyncIntervalS(ctx, 0))
	require.NoError(t, id.SetSyncIntervalS(ctx, 30))
	assert.Equal(t, 30, id.SyncIntervalS())
}

func TestShutdownMarksDeviceOffline(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := Initialize(ctx, s, config.DefaultConfig(), testPaths(t), "alice@example.com", "hunter2", testLogger(t))
	require.NoError(t, err)

	require.NoError(t, id.Shutdown(ctx))

	d, err := s.GetDevice(ctx, store.LocalDeviceID)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, store.DeviceOffline, d.Status)
}
