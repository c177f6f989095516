package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synclist",
		Short: "Manage the selective-sync filter for a tree",
	}

	cmd.AddCommand(newSyncListListCmd())
	cmd.AddCommand(newSyncListAddCmd())
	cmd.AddCommand(newSyncListRemoveCmd())

	return cmd
}

func newSyncListListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <tree-uuid>",
		Short: "List the selective-sync entries for a tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runSyncListList,
	}
}

func newSyncListAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <tree-uuid> <path>",
		Short: "Add a path to a tree's selective-sync filter",
		Args:  cobra.ExactArgs(2),
		RunE:  runSyncListAdd,
	}
}

func newSyncListRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <tree-uuid> <path>",
		Short: "Remove a path from a tree's selective-sync filter",
		Args:  cobra.ExactArgs(2),
		RunE:  runSyncListRemove,
	}
}

func runSyncListList(cmd *cobra.Command, args []string) error {
	cc := mustCLIContext(cmd.Context())
	ctx := cmd.Context()

	s, closeStore, err := openStore(ctx, cc)
	if err != nil {
		return err
	}
	defer closeStore()

	tree, err := s.GetTreeByUUID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("looking up tree: %w", err)
	}

	if tree == nil {
		return fmt.Errorf("no tree with uuid %q", args[0])
	}

	entries, err := s.ListSyncList(ctx, tree.ID)
	if err != nil {
		return fmt.Errorf("listing synclist: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("(entire tree syncs — no selective-sync filter set)")

		return nil
	}

	for _, e := range entries {
		fmt.Println(e.Path)
	}

	return nil
}

func runSyncListAdd(cmd *cobra.Command, args []string) error {
	cc := mustCLIContext(cmd.Context())
	ctx := cmd.Context()

	s, closeStore, err := openStore(ctx, cc)
	if err != nil {
		return err
	}
	defer closeStore()

	tree, err := s.GetTreeByUUID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("looking up tree: %w", err)
	}

	if tree == nil {
		return fmt.Errorf("no tree with uuid %q", args[0])
	}

	if err := s.AddSyncListEntry(ctx, tree.ID, args[1]); err != nil {
		return fmt.Errorf("adding synclist entry: %w", err)
	}

	fmt.Printf("Added %q to tree %s\n", args[1], args[0])

	return nil
}

func runSyncListRemove(cmd *cobra.Command, args []string) error {
	cc := mustCLIContext(cmd.Context())
	ctx := cmd.Context()

	s, closeStore, err := openStore(ctx, cc)
	if err != nil {
		return err
	}
	defer closeStore()

	tree, err := s.GetTreeByUUID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("looking up tree: %w", err)
	}

	if tree == nil {
		return fmt.Errorf("no tree with uuid %q", args[0])
	}

	if err := s.RemoveSyncListEntry(ctx, tree.ID, args[1]); err != nil {
		return fmt.Errorf("removing synclist entry: %w", err)
	}

	fmt.Printf("Removed %q from tree %s\n", args[1], args[0])

	return nil
}
