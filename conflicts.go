package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zisync-go/zisync/internal/kernel/store"
)

func newConflictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List unresolved sync conflicts",
		Long: `Display paths that both sides of a sync modified concurrently: the
same path carries a non-zero local and remote version-vector entry on each
tree, and the two trees' file content disagrees. Reads the metadata store
directly — does not require the engine to be running.`,
		RunE: runConflicts,
	}
}

// conflictJSON is the JSON-serializable representation of a conflict.
type conflictJSON struct {
	Path     string `json:"path"`
	SyncUUID string `json:"sync_uuid"`
	TreeA    string `json:"tree_a"`
	TreeB    string `json:"tree_b"`
	HashA    string `json:"hash_a,omitempty"`
	HashB    string `json:"hash_b,omitempty"`
}

func runConflicts(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())
	ctx := cmd.Context()

	s, closeStore, err := openStore(ctx, cc)
	if err != nil {
		return err
	}
	defer closeStore()

	syncs, err := s.ListSyncs(ctx)
	if err != nil {
		return fmt.Errorf("listing syncs: %w", err)
	}

	var conflicts []conflictJSON

	for _, sy := range syncs {
		found, err := conflictsForSync(ctx, s, sy)
		if err != nil {
			return err
		}

		conflicts = append(conflicts, found...)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(conflicts)
	}

	if len(conflicts) == 0 {
		fmt.Println("No unresolved conflicts.")

		return nil
	}

	for _, c := range conflicts {
		fmt.Printf("%-40s  sync=%s  %s <> %s\n", c.Path, c.SyncUUID, c.TreeA, c.TreeB)
	}

	return nil
}

// conflictsForSync compares every tree pair within one sync and reports
// paths where both sides carry a non-zero version-vector entry for the
// other (each side has made a change the other hasn't seen) and their
// content disagrees.
func conflictsForSync(ctx context.Context, s *store.Store, sy *store.Sync) ([]conflictJSON, error) {
	trees, err := s.ListTreesBySync(ctx, sy.ID)
	if err != nil {
		return nil, fmt.Errorf("listing trees for sync %s: %w", sy.UUID, err)
	}

	var conflicts []conflictJSON

	for i := 0; i < len(trees); i++ {
		for j := i + 1; j < len(trees); j++ {
			found, err := conflictsForTreePair(ctx, s, sy, trees[i], trees[j])
			if err != nil {
				return nil, err
			}

			conflicts = append(conflicts, found...)
		}
	}

	return conflicts, nil
}

func conflictsForTreePair(ctx context.Context, s *store.Store, sy *store.Sync, a, b *store.Tree) ([]conflictJSON, error) {
	filesA, err := s.ListActiveFiles(ctx, a.UUID)
	if err != nil {
		return nil, fmt.Errorf("listing files under tree %s: %w", a.UUID, err)
	}

	byPath := make(map[string]*store.File, len(filesA))
	for _, f := range filesA {
		byPath[f.Path] = f
	}

	filesB, err := s.ListActiveFiles(ctx, b.UUID)
	if err != nil {
		return nil, fmt.Errorf("listing files under tree %s: %w", b.UUID, err)
	}

	var conflicts []conflictJSON

	for _, fb := range filesB {
		fa, ok := byPath[fb.Path]
		if !ok {
			continue
		}

		if !isConcurrentEdit(fa, fb) {
			continue
		}

		conflicts = append(conflicts, conflictJSON{
			Path:     fb.Path,
			SyncUUID: sy.UUID,
			TreeA:    a.UUID,
			TreeB:    b.UUID,
			HashA:    hex.EncodeToString(fa.SHA1),
			HashB:    hex.EncodeToString(fb.SHA1),
		})
	}

	return conflicts, nil
}

// isConcurrentEdit reports whether two sides' file rows for the same path
// represent a genuine conflict: both have recorded a version-vector bump
// the other side hasn't observed, and the content actually differs.
func isConcurrentEdit(a, b *store.File) bool {
	if a.LocalVClock == 0 || b.LocalVClock == 0 {
		return false
	}

	if bytes.Equal(a.SHA1, b.SHA1) {
		return false
	}

	return true
}
