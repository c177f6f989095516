package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zisync-go/zisync/internal/config"
)

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the zisync engine in the foreground",
		Long: `Start the discovery server, router, transfer server, and worker pools
described in the engine design, blocking until SIGINT/SIGTERM. A second
signal forces immediate exit.`,
		RunE: runStart,
	}
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "stop",
		Short:       "Stop a running zisync engine",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE:        runStop,
	}
}

func runStart(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	pidPath := filepath.Join(config.DefaultDataDir(), pidFileName)

	cleanup, err := writePIDFile(pidPath)
	if err != nil {
		return fmt.Errorf("starting engine: %w", err)
	}
	defer cleanup()

	ctx := shutdownContext(cmd.Context(), cc.Logger)

	cc.Logger.Info("engine starting",
		"discover_port", cc.Cfg.Discovery.DiscoverPort,
		"route_port", cc.Cfg.Discovery.RoutePort,
		"data_port", cc.Cfg.Discovery.DataPort,
	)

	hupCh := sighupChannel()

	for {
		select {
		case <-ctx.Done():
			cc.Logger.Info("engine stopped")

			return nil
		case <-hupCh:
			cc.Logger.Info("reloading configuration", "path", cc.Path)

			reloaded, err := config.Resolve(config.ReadEnvOverrides(), config.CLIOverrides{ConfigPath: cc.Path}, cc.Logger)
			if err != nil {
				cc.Logger.Error("config reload failed", "error", err)

				continue
			}

			cc.Cfg = reloaded
		}
	}
}

func runStop(_ *cobra.Command, _ []string) error {
	pidPath := filepath.Join(config.DefaultDataDir(), pidFileName)

	pid, err := readPIDFile(pidPath)
	if err != nil {
		return fmt.Errorf("no running engine found: %w", err)
	}

	fmt.Printf("Stop the engine with: kill %d\n", pid)

	return nil
}
