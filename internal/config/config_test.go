package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_PassesValidation(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, Validate(cfg))
}

func TestDefaultConfig_Ports(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, defaultDiscoverPort, cfg.Discovery.DiscoverPort)
	assert.Equal(t, defaultRoutePort, cfg.Discovery.RoutePort)
	assert.Equal(t, defaultDataPort, cfg.Discovery.DataPort)
}

func TestDefaultConfig_WorkerPools(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1, cfg.Transfers.RefreshWorkers)
	assert.Equal(t, 4, cfg.Transfers.SyncWorkers)
	assert.Equal(t, 2, cfg.Transfers.OuterWorkers)
	assert.Equal(t, 2, cfg.Transfers.InnerWorkers)
}
