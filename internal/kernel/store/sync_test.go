package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.InsertSync(ctx, &Sync{
		UUID:       uuid.NewString(),
		Name:       "photos",
		Type:       SyncNormal,
		Status:     SyncStatusNormal,
		DeviceID:   NullDeviceID,
		Permission: PermReadWrite,
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	got, err := s.GetSync(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "photos", got.Name)

	got.Name = "photos-renamed"
	got.Permission = PermReadOnly
	require.NoError(t, s.UpdateSync(ctx, got))

	got, err = s.GetSync(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "photos-renamed", got.Name)
	assert.Equal(t, PermReadOnly, got.Permission)

	syncs, err := s.ListSyncs(ctx)
	require.NoError(t, err)
	assert.Len(t, syncs, 1)

	require.NoError(t, s.RemoveSync(ctx, id))

	syncs, err = s.ListSyncs(ctx)
	require.NoError(t, err)
	assert.Empty(t, syncs) // ListSyncs excludes REMOVED rows

	got, err = s.GetSync(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, SyncStatusRemoved, got.Status)
}

func TestGetSyncMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.GetSync(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, got)
}
