package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDHTPeerUpsertAndExpire(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	hash := []byte{1, 2, 3, 4}

	require.NoError(t, s.UpsertDHTPeer(ctx, &DHTPeer{
		InfoHash: hash, PeerHost: "203.0.113.1", PeerPort: 6881, LastSeen: 1000,
	}))
	require.NoError(t, s.UpsertDHTPeer(ctx, &DHTPeer{
		InfoHash: hash, PeerHost: "203.0.113.2", PeerPort: 6881, LastSeen: 2000,
	}))

	peers, err := s.ListDHTPeers(ctx, hash)
	require.NoError(t, err)
	require.Len(t, peers, 2)

	// Refreshing an existing (info_hash, host, port) updates last_seen in place.
	require.NoError(t, s.UpsertDHTPeer(ctx, &DHTPeer{
		InfoHash: hash, PeerHost: "203.0.113.1", PeerPort: 6881, LastSeen: 5000,
	}))

	peers, err = s.ListDHTPeers(ctx, hash)
	require.NoError(t, err)
	assert.Len(t, peers, 2)

	n, err := s.ExpireDHTPeers(ctx, 3000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n) // only the 203.0.113.2 row (last_seen=2000) expires

	peers, err = s.ListDHTPeers(ctx, hash)
	require.NoError(t, err)
	require.Len(t, peers, 1)
	assert.Equal(t, "203.0.113.1", peers[0].PeerHost)
}
