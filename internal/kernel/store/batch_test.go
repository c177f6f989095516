package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zisync-go/zisync/internal/kernel/kerr"
)

func TestApplyBatch(t *testing.T) {
	t.Run("commits every op and notifies each distinct uri once", func(t *testing.T) {
		s := newTestStore(t)
		ctx := context.Background()

		syncID := mustInsertSync(t, s, ctx, "s")
		treeID, treeUUID := mustInsertTree(t, s, ctx, syncID)

		ch, cancel := s.Subscribe("tree", true)
		defer cancel()

		ops := []Op{
			OpUpsertFile(treeID, treeUUID, &File{Path: "a.txt", Type: FileTypeRegular}),
			OpUpsertFile(treeID, treeUUID, &File{Path: "b.txt", Type: FileTypeRegular}),
		}

		affected, err := s.ApplyBatch(ctx, ops)
		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)

		seen := map[string]bool{}
		for i := 0; i < len(ops); i++ {
			select {
			case n := <-ch:
				seen[n.URI] = true
			default:
				t.Fatalf("expected %d notifications, got %d", len(ops), i)
			}
		}
		assert.Len(t, seen, len(ops))

		fa, err := s.GetFileByPath(ctx, treeUUID, "a.txt")
		require.NoError(t, err)
		require.NotNil(t, fa)

		fb, err := s.GetFileByPath(ctx, treeUUID, "b.txt")
		require.NoError(t, err)
		require.NotNil(t, fb)
	})

	t.Run("a failing op rolls back the whole batch", func(t *testing.T) {
		s := newTestStore(t)
		ctx := context.Background()

		syncID := mustInsertSync(t, s, ctx, "s")
		treeID, treeUUID := mustInsertTree(t, s, ctx, syncID)

		ops := []Op{
			OpUpsertFile(treeID, treeUUID, &File{Path: "ok.txt", Type: FileTypeRegular}),
			{
				URI: "bogus",
				Exec: func(ctx context.Context, tx *sql.Tx) (sql.Result, error) {
					return nil, errors.New("synthetic failure")
				},
			},
		}

		_, err := s.ApplyBatch(ctx, ops)
		require.Error(t, err)
		assert.True(t, kerr.Is(err, kerr.Content))

		got, err := s.GetFileByPath(ctx, treeUUID, "ok.txt")
		require.NoError(t, err)
		assert.Nil(t, got) // rolled back, never committed
	})
}
