package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Inspect the tree roots participating in syncs",
	}

	cmd.AddCommand(newTreeListCmd())

	return cmd
}

func newTreeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [sync-uuid]",
		Short: "List tree roots, optionally filtered to one sync",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTreeList,
	}
}

type treeJSON struct {
	UUID       string `json:"uuid"`
	Root       string `json:"root"`
	Status     string `json:"status"`
	BackupType string `json:"backup_type"`
	SyncMode   string `json:"sync_mode"`
	LastUSN    int64  `json:"last_usn"`
}

func runTreeList(cmd *cobra.Command, args []string) error {
	cc := mustCLIContext(cmd.Context())
	ctx := cmd.Context()

	s, closeStore, err := openStore(ctx, cc)
	if err != nil {
		return err
	}
	defer closeStore()

	var syncID int64 = -1

	if len(args) == 1 {
		sy, err := s.GetSyncByUUID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("looking up sync: %w", err)
		}

		if sy == nil {
			return fmt.Errorf("no sync with uuid %q", args[0])
		}

		syncID = sy.ID
	}

	var trees []treeJSON

	if syncID >= 0 {
		rows, err := s.ListTreesBySync(ctx, syncID)
		if err != nil {
			return fmt.Errorf("listing trees: %w", err)
		}

		for _, t := range rows {
			trees = append(trees, treeJSON{
				UUID: t.UUID, Root: t.Root, Status: string(t.Status),
				BackupType: string(t.BackupType), SyncMode: string(t.SyncMode), LastUSN: t.LastUSN,
			})
		}
	} else {
		rows, err := s.ListTrees(ctx)
		if err != nil {
			return fmt.Errorf("listing trees: %w", err)
		}

		for _, t := range rows {
			trees = append(trees, treeJSON{
				UUID: t.UUID, Root: t.Root, Status: string(t.Status),
				BackupType: string(t.BackupType), SyncMode: string(t.SyncMode), LastUSN: t.LastUSN,
			})
		}
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(trees)
	}

	if len(trees) == 0 {
		fmt.Println("No trees found.")

		return nil
	}

	for _, t := range trees {
		fmt.Printf("%-36s  %-40s  %-8s  usn=%d\n", t.UUID, t.Root, t.Status, t.LastUSN)
	}

	return nil
}
