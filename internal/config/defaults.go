package config

// Default values for configuration options. These represent the "layer 0"
// of the four-layer override chain (defaults -> file -> env -> flags) and
// are chosen to be safe, reasonable starting points that work without any
// config file at all.
const (
	defaultDiscoverPort        = 16387
	defaultRoutePort           = 16388
	defaultDataPort            = 16389
	defaultBroadcastInterval   = "10s"
	defaultDHTAnnounceInterval = "18s"
	defaultTrackerInterval     = "60s"
	defaultPeerExpiryInterval  = "60s"
	defaultPeerExpiryAge       = "360s"

	defaultRefreshWorkers     = 1
	defaultSyncWorkers        = 4
	defaultOuterWorkers       = 2
	defaultInnerWorkers       = 2
	defaultTransferWorkers    = 4
	defaultUploadLimit        = "0"
	defaultDownloadLimit      = "0"
	defaultDownloadCacheLimit = "5GB"
	defaultSyncIntervalS      = 300

	defaultBigDeleteThreshold    = 1000
	defaultDeviceOfflineTimeout  = 180
	defaultWaitResponseTimeoutS  = 10
	defaultFindLimit             = 500
	defaultMaxTransferRetries    = 3

	defaultLogLevel  = "info"
	defaultLogFormat = "auto"

	defaultConnectTimeout = "10s"
	defaultUserAgent      = "zisync/dev"
)

// DefaultConfig returns a Config populated with all default values. This is
// used both as the starting point for TOML decoding (so unset fields retain
// defaults) and as the fallback when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Identity:  IdentityConfig{},
		Discovery: defaultDiscoveryConfig(),
		Transfers: defaultTransfersConfig(),
		Safety:    defaultSafetyConfig(),
		Filter:    defaultFilterConfig(),
		Logging:   defaultLoggingConfig(),
		Network:   defaultNetworkConfig(),
	}
}

func defaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		DiscoverPort:        defaultDiscoverPort,
		RoutePort:           defaultRoutePort,
		DataPort:            defaultDataPort,
		BroadcastInterval:   defaultBroadcastInterval,
		DHTAnnounceInterval: defaultDHTAnnounceInterval,
		TrackerInterval:     defaultTrackerInterval,
		PeerExpiryInterval:  defaultPeerExpiryInterval,
		PeerExpiryAge:       defaultPeerExpiryAge,
	}
}

func defaultTransfersConfig() TransfersConfig {
	return TransfersConfig{
		RefreshWorkers:     defaultRefreshWorkers,
		SyncWorkers:        defaultSyncWorkers,
		OuterWorkers:       defaultOuterWorkers,
		InnerWorkers:       defaultInnerWorkers,
		TransferWorkers:    defaultTransferWorkers,
		UploadLimit:        defaultUploadLimit,
		DownloadLimit:      defaultDownloadLimit,
		DownloadCacheLimit: defaultDownloadCacheLimit,
		SyncIntervalS:      defaultSyncIntervalS,
	}
}

func defaultSafetyConfig() SafetyConfig {
	return SafetyConfig{
		BigDeleteThreshold:    defaultBigDeleteThreshold,
		UseTrash:              true,
		DeviceOfflineTimeoutS: defaultDeviceOfflineTimeout,
		WaitResponseTimeoutS:  defaultWaitResponseTimeoutS,
		FindLimit:             defaultFindLimit,
		MaxTransferRetries:    defaultMaxTransferRetries,
	}
}

func defaultFilterConfig() FilterConfig {
	return FilterConfig{
		SkipDotfiles: true,
	}
}

func defaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:  defaultLogLevel,
		Format: defaultLogFormat,
	}
}

func defaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		ConnectTimeout: defaultConnectTimeout,
		UserAgent:      defaultUserAgent,
	}
}
