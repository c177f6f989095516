package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncModeDefaultsToAuto(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m, err := s.GetSyncMode(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, SyncModeAuto, m.Mode)
}

func TestSetSyncModeAndListDueTimers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetSyncMode(ctx, &SyncModeRow{
		LocalTreeID: 1, RemoteTreeID: 2, Mode: SyncModeTimer, SyncTimeInS: 3600,
	}))
	require.NoError(t, s.SetSyncMode(ctx, &SyncModeRow{
		LocalTreeID: 1, RemoteTreeID: 3, Mode: SyncModeManual,
	}))

	m, err := s.GetSyncMode(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, SyncModeTimer, m.Mode)
	assert.Equal(t, int64(3600), m.SyncTimeInS)

	due, err := s.ListDueTimerSyncs(ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, int64(2), due[0].RemoteTreeID)

	// Re-setting overwrites rather than duplicating the row.
	require.NoError(t, s.SetSyncMode(ctx, &SyncModeRow{
		LocalTreeID: 1, RemoteTreeID: 2, Mode: SyncModeAuto,
	}))

	due, err = s.ListDueTimerSyncs(ctx)
	require.NoError(t, err)
	assert.Empty(t, due)
}
