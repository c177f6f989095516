package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCRUD(t *testing.T) {
	s := newTestPlainStore(t)
	ctx := context.Background()

	_, ok, err := s.GetHistory(ctx, "passphrase_seed")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetHistory(ctx, "passphrase_seed", "abc123"))

	v, ok, err := s.GetHistory(ctx, "passphrase_seed")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc123", v)

	require.NoError(t, s.SetHistory(ctx, "last_restore", "2026-01-01"))

	entries, err := s.QueryHistoryInfo(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
