package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_RejectsSamePorts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Discovery.RoutePort = cfg.Discovery.DiscoverPort

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestValidate_RejectsBadWorkerCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transfers.SyncWorkers = 0

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sync_workers")
}

func TestValidate_RejectsBadSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transfers.DownloadCacheLimit = "not-a-size"

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "download_cache_limit")
}

func TestValidate_RejectsBadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "verbose"

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "level")
}

func TestValidate_AccumulatesMultipleErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transfers.SyncWorkers = 0
	cfg.Logging.Level = "bogus"

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sync_workers")
	assert.Contains(t, err.Error(), "level")
}
