package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zisync-go/zisync/internal/kernel/kerr"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show this device's identity, peers, and sync summary",
		Long: `Display the local device's identity (account, device name, ports),
the devices known to this account, and a count of syncs and unresolved
conflicts. Reads the metadata store directly — does not require the
engine to be running.`,
		RunE: runStatus,
	}
}

// statusReport is the JSON-serializable representation of "status".
type statusReport struct {
	AccountName  string   `json:"account_name"`
	DeviceUUID   string   `json:"device_uuid"`
	DeviceName   string   `json:"device_name"`
	RoutePort    int      `json:"route_port"`
	DataPort     int      `json:"data_port"`
	DiscoverPort int      `json:"discover_port"`
	Devices      []string `json:"devices"`
	SyncCount    int      `json:"sync_count"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())
	ctx := cmd.Context()

	s, closeStore, err := openStore(ctx, cc)
	if err != nil {
		return err
	}
	defer closeStore()

	id, err := loadIdentity(ctx, cc, s)
	if err != nil {
		if kerr.Is(err, kerr.NotStartup) {
			fmt.Println("Not initialized. Run 'zisyncd start' once to initialize this device.")

			return nil
		}

		return fmt.Errorf("loading identity: %w", err)
	}

	devices, err := s.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("listing devices: %w", err)
	}

	syncs, err := s.ListSyncs(ctx)
	if err != nil {
		return fmt.Errorf("listing syncs: %w", err)
	}

	report := statusReport{
		AccountName:  id.AccountName(),
		DeviceUUID:   id.DeviceUUID(),
		DeviceName:   id.DeviceName(),
		RoutePort:    id.RoutePort(),
		DataPort:     id.DataPort(),
		DiscoverPort: id.DiscoverPort(),
		SyncCount:    len(syncs),
	}

	for _, d := range devices {
		report.Devices = append(report.Devices, fmt.Sprintf("%s (%s)", d.Name, d.Status))
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(report)
	}

	fmt.Printf("Account:        %s\n", report.AccountName)
	fmt.Printf("Device:         %s (%s)\n", report.DeviceName, report.DeviceUUID)
	fmt.Printf("Ports:          route=%d data=%d discover=%d\n", report.RoutePort, report.DataPort, report.DiscoverPort)
	fmt.Printf("Known devices:  %d\n", len(report.Devices))

	for _, d := range report.Devices {
		fmt.Printf("  - %s\n", d)
	}

	fmt.Printf("Syncs:          %d\n", report.SyncCount)

	return nil
}
