package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List devices known to this account",
		RunE:  runDevices,
	}
}

type deviceJSON struct {
	UUID   string `json:"uuid"`
	Name   string `json:"name"`
	Status string `json:"status"`
	IsMine bool   `json:"is_mine"`
}

func runDevices(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())
	ctx := cmd.Context()

	s, closeStore, err := openStore(ctx, cc)
	if err != nil {
		return err
	}
	defer closeStore()

	devices, err := s.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("listing devices: %w", err)
	}

	if flagJSON {
		out := make([]deviceJSON, 0, len(devices))
		for _, d := range devices {
			out = append(out, deviceJSON{UUID: d.UUID, Name: d.Name, Status: string(d.Status), IsMine: d.IsMine})
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(out)
	}

	if len(devices) == 0 {
		fmt.Println("No devices known yet.")

		return nil
	}

	for _, d := range devices {
		fmt.Printf("%-36s  %-20s  %-8s  mine=%v\n", d.UUID, d.Name, d.Status, d.IsMine)
	}

	return nil
}
