package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zisync-go/zisync/internal/kernel/kerr"
)

func TestFavouriteCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	syncID := mustInsertSync(t, s, ctx, "s")
	treeID, _ := mustInsertTree(t, s, ctx, syncID)

	has, err := s.HasFavourite(ctx, treeID, "Work/report.pdf")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, s.AddFavorite(ctx, treeID, "Work/report.pdf"))

	has, err = s.HasFavourite(ctx, treeID, "Work/report.pdf")
	require.NoError(t, err)
	assert.True(t, has)

	err = s.AddFavorite(ctx, treeID, "Work/report.pdf")
	require.Error(t, err)
	assert.True(t, kerr.Is(err, kerr.FavouriteExist))

	favs, err := s.ListFavourites(ctx, treeID)
	require.NoError(t, err)
	require.Len(t, favs, 1)

	require.NoError(t, s.DelFavorite(ctx, treeID, "Work/report.pdf"))

	err = s.DelFavorite(ctx, treeID, "Work/report.pdf")
	require.Error(t, err)
	assert.True(t, kerr.Is(err, kerr.FavouriteNoent))
}
