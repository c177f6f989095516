package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := &Device{
		ID:     1,
		UUID:   uuid.NewString(),
		Name:   "laptop",
		Status: DeviceOnline,
		IsMine: false,
	}

	require.NoError(t, s.UpsertDevice(ctx, d))

	got, err := s.GetDevice(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, d.UUID, got.UUID)
	assert.Equal(t, DeviceOnline, got.Status)

	byUUID, err := s.GetDeviceByUUID(ctx, d.UUID)
	require.NoError(t, err)
	require.NotNil(t, byUUID)
	assert.Equal(t, int64(1), byUUID.ID)

	require.NoError(t, s.SetDeviceStatus(ctx, 1, DeviceOffline))

	got, err = s.GetDevice(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, DeviceOffline, got.Status)

	devices, err := s.ListDevices(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(devices), 2) // seeded null device + this one

	missing, err := s.GetDevice(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeviceIPCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertDevice(ctx, &Device{ID: 2, UUID: uuid.NewString(), Name: "phone"}))
	require.NoError(t, s.UpsertDeviceIP(ctx, 2, "10.0.0.5", false))

	ips, err := s.ListDeviceIPs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, ips, 1)
	assert.Nil(t, ips[0].EarliestNoResponseTime)

	require.NoError(t, s.MarkDeviceIPFailing(ctx, 2, "10.0.0.5", 100))

	ips, err = s.ListDeviceIPs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, ips, 1)
	require.NotNil(t, ips[0].EarliestNoResponseTime)
	assert.Equal(t, int64(100), *ips[0].EarliestNoResponseTime)

	// A second failure must not move the original earliest timestamp.
	require.NoError(t, s.MarkDeviceIPFailing(ctx, 2, "10.0.0.5", 200))

	ips, err = s.ListDeviceIPs(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(100), *ips[0].EarliestNoResponseTime)

	require.NoError(t, s.UpsertDeviceIP(ctx, 2, "10.0.0.5", false))

	ips, err = s.ListDeviceIPs(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, ips[0].EarliestNoResponseTime)

	require.NoError(t, s.DeleteDeviceIP(ctx, 2, "10.0.0.5"))

	ips, err = s.ListDeviceIPs(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, ips)
}
