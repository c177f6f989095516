package config

import (
	"errors"
	"fmt"
	"time"
)

// Validation range constants.
const (
	minRefreshWorkers    = 1
	maxRefreshWorkers    = 16
	minSyncWorkers       = 1
	maxSyncWorkers       = 64
	minOuterWorkers      = 1
	maxOuterWorkers      = 64
	minInnerWorkers      = 1
	maxInnerWorkers      = 64
	minTransferWorkers   = 1
	maxTransferWorkers   = 64
	minBigDelete         = 1
	minOfflineTimeout    = 5
	minWaitResponse      = 1
	minFindLimit         = 1
	minTransferRetries   = 0
	maxTransferRetries   = 50
	minSyncIntervalS     = 1
	minDiscoverPort      = 1
	maxDiscoverPort      = 65535
)

// Validate checks all configuration values and returns all errors found. It
// accumulates every error rather than stopping at the first, so users see a
// complete report and can fix all issues in one pass.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateDiscovery(&cfg.Discovery)...)
	errs = append(errs, validateTransfers(&cfg.Transfers)...)
	errs = append(errs, validateSafety(&cfg.Safety)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateNetwork(&cfg.Network)...)

	return errors.Join(errs...)
}

func validateDiscovery(d *DiscoveryConfig) []error {
	var errs []error

	errs = append(errs, validatePort("discover_port", d.DiscoverPort)...)
	errs = append(errs, validatePort("route_port", d.RoutePort)...)
	errs = append(errs, validatePort("data_port", d.DataPort)...)

	if d.DiscoverPort != 0 && d.DiscoverPort == d.RoutePort {
		errs = append(errs, fmt.Errorf("discover_port and route_port must differ, both %d", d.DiscoverPort))
	}

	if d.RoutePort != 0 && d.RoutePort == d.DataPort {
		errs = append(errs, fmt.Errorf("route_port and data_port must differ, both %d", d.RoutePort))
	}

	errs = append(errs, validateDurationMin("broadcast_interval", d.BroadcastInterval, 0)...)
	errs = append(errs, validateDurationMin("dht_announce_interval", d.DHTAnnounceInterval, 0)...)
	errs = append(errs, validateDurationMin("tracker_interval", d.TrackerInterval, 0)...)
	errs = append(errs, validateDurationMin("peer_expiry_interval", d.PeerExpiryInterval, 0)...)
	errs = append(errs, validateDurationMin("peer_expiry_age", d.PeerExpiryAge, 0)...)

	return errs
}

func validatePort(field string, port int) []error {
	if port < minDiscoverPort || port > maxDiscoverPort {
		return []error{fmt.Errorf("%s: must be between %d and %d, got %d", field, minDiscoverPort, maxDiscoverPort, port)}
	}

	return nil
}

func validateTransfers(t *TransfersConfig) []error {
	var errs []error

	errs = append(errs, validateWorkerCount("refresh_workers", t.RefreshWorkers, minRefreshWorkers, maxRefreshWorkers)...)
	errs = append(errs, validateWorkerCount("sync_workers", t.SyncWorkers, minSyncWorkers, maxSyncWorkers)...)
	errs = append(errs, validateWorkerCount("outer_workers", t.OuterWorkers, minOuterWorkers, maxOuterWorkers)...)
	errs = append(errs, validateWorkerCount("inner_workers", t.InnerWorkers, minInnerWorkers, maxInnerWorkers)...)
	errs = append(errs, validateWorkerCount("transfer_workers", t.TransferWorkers, minTransferWorkers, maxTransferWorkers)...)

	if t.UploadLimit != "" && t.UploadLimit != "0" {
		if _, err := ParseSize(t.UploadLimit); err != nil {
			errs = append(errs, fmt.Errorf("upload_limit: %w", err))
		}
	}

	if t.DownloadLimit != "" && t.DownloadLimit != "0" {
		if _, err := ParseSize(t.DownloadLimit); err != nil {
			errs = append(errs, fmt.Errorf("download_limit: %w", err))
		}
	}

	if _, err := ParseSize(t.DownloadCacheLimit); err != nil {
		errs = append(errs, fmt.Errorf("download_cache_limit: %w", err))
	}

	if t.SyncIntervalS < minSyncIntervalS {
		errs = append(errs, fmt.Errorf("sync_interval_s: must be >= %d, got %d", minSyncIntervalS, t.SyncIntervalS))
	}

	return errs
}

func validateWorkerCount(field string, n, minN, maxN int) []error {
	if n < minN || n > maxN {
		return []error{fmt.Errorf("%s: must be between %d and %d, got %d", field, minN, maxN, n)}
	}

	return nil
}

func validateSafety(s *SafetyConfig) []error {
	var errs []error

	if s.BigDeleteThreshold < minBigDelete {
		errs = append(errs, fmt.Errorf("big_delete_threshold: must be >= %d, got %d", minBigDelete, s.BigDeleteThreshold))
	}

	if s.DeviceOfflineTimeoutS < minOfflineTimeout {
		errs = append(errs, fmt.Errorf("device_offline_timeout_s: must be >= %d, got %d", minOfflineTimeout, s.DeviceOfflineTimeoutS))
	}

	if s.WaitResponseTimeoutS < minWaitResponse {
		errs = append(errs, fmt.Errorf("wait_response_timeout_s: must be >= %d, got %d", minWaitResponse, s.WaitResponseTimeoutS))
	}

	if s.FindLimit < minFindLimit {
		errs = append(errs, fmt.Errorf("find_limit: must be >= %d, got %d", minFindLimit, s.FindLimit))
	}

	if s.MaxTransferRetries < minTransferRetries || s.MaxTransferRetries > maxTransferRetries {
		errs = append(errs, fmt.Errorf("max_transfer_retries: must be between %d and %d, got %d",
			minTransferRetries, maxTransferRetries, s.MaxTransferRetries))
	}

	return errs
}

func validateLogging(l *LoggingConfig) []error {
	var errs []error

	errs = append(errs, validateLogLevel(l.Level)...)
	errs = append(errs, validateLogFormat(l.Format)...)

	return errs
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func validateLogLevel(level string) []error {
	if !validLogLevels[level] {
		return []error{fmt.Errorf("level: must be one of debug, info, warn, error; got %q", level)}
	}

	return nil
}

var validLogFormats = map[string]bool{
	"auto": true,
	"text": true,
	"json": true,
}

func validateLogFormat(format string) []error {
	if !validLogFormats[format] {
		return []error{fmt.Errorf("format: must be one of auto, text, json; got %q", format)}
	}

	return nil
}

func validateNetwork(n *NetworkConfig) []error {
	return validateDurationMin("connect_timeout", n.ConnectTimeout, minConnectTimeout)
}

const minConnectTimeout = 1 * time.Second

// validateDuration checks that a duration string is valid and meets a
// minimum. An empty minimum of 0 only checks parseability and non-negativity.
func validateDuration(field, value string, minimum time.Duration) error {
	if value == "" {
		return nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q: %w", field, value, err)
	}

	if d < minimum {
		return fmt.Errorf("%s: must be >= %s, got %s", field, minimum, d)
	}

	return nil
}

func validateDurationMin(field, value string, minimum time.Duration) []error {
	if err := validateDuration(field, value, minimum); err != nil {
		return []error{err}
	}

	return nil
}
