package config

import (
	"fmt"
	"io"
	"strings"
)

// RenderEffective writes the resolved configuration as a human-readable
// annotated summary to w. This powers the "config show" command, giving
// users visibility into the effective values after all four override layers
// (defaults -> file -> env -> CLI) have been applied.
func RenderEffective(cfg *Config, w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("# Effective configuration\n\n")

	renderIdentitySection(ew, &cfg.Identity)
	renderDiscoverySection(ew, &cfg.Discovery)
	renderTransfersSection(ew, &cfg.Transfers)
	renderSafetySection(ew, &cfg.Safety)
	renderFilterSection(ew, &cfg.Filter)
	renderLoggingSection(ew, &cfg.Logging)
	renderNetworkSection(ew, &cfg.Network)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first write error.
// Subsequent writes after an error are no-ops, so callers can chain
// printf calls without checking each one individually.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}

	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func renderIdentitySection(ew *errWriter, i *IdentityConfig) {
	ew.printf("[identity]\n")
	ew.printf("  username         = %q\n", i.Username)
	ew.printf("  backup_root      = %q\n", i.BackupRoot)
	ew.printf("  tree_root_prefix = %q\n", i.TreeRootPrefix)

	if i.ReportHost != "" {
		ew.printf("  report_host      = %q\n", i.ReportHost)
	}

	ew.printf("\n")
}

func renderDiscoverySection(ew *errWriter, d *DiscoveryConfig) {
	ew.printf("[discovery]\n")
	ew.printf("  discover_port          = %d\n", d.DiscoverPort)
	ew.printf("  route_port             = %d\n", d.RoutePort)
	ew.printf("  data_port              = %d\n", d.DataPort)
	ew.printf("  broadcast_interval     = %q\n", d.BroadcastInterval)
	ew.printf("  dht_announce_interval  = %q\n", d.DHTAnnounceInterval)
	ew.printf("  tracker_interval       = %q\n", d.TrackerInterval)
	ew.printf("  peer_expiry_interval   = %q\n", d.PeerExpiryInterval)
	ew.printf("  peer_expiry_age        = %q\n", d.PeerExpiryAge)

	if d.TrackerURL != "" {
		ew.printf("  tracker_url            = %q\n", d.TrackerURL)
	}

	if len(d.StaticPeers) > 0 {
		ew.printf("  static_peers           = [%s]\n", joinQuoted(d.StaticPeers))
	}

	ew.printf("\n")
}

func renderTransfersSection(ew *errWriter, t *TransfersConfig) {
	ew.printf("[transfers]\n")
	ew.printf("  refresh_workers      = %d\n", t.RefreshWorkers)
	ew.printf("  sync_workers         = %d\n", t.SyncWorkers)
	ew.printf("  outer_workers        = %d\n", t.OuterWorkers)
	ew.printf("  inner_workers        = %d\n", t.InnerWorkers)
	ew.printf("  transfer_workers     = %d\n", t.TransferWorkers)
	ew.printf("  upload_limit         = %q\n", t.UploadLimit)
	ew.printf("  download_limit       = %q\n", t.DownloadLimit)
	ew.printf("  download_cache_limit = %q\n", t.DownloadCacheLimit)
	ew.printf("  sync_interval_s      = %d\n", t.SyncIntervalS)
	ew.printf("\n")
}

func renderSafetySection(ew *errWriter, s *SafetyConfig) {
	ew.printf("[safety]\n")
	ew.printf("  big_delete_threshold     = %d\n", s.BigDeleteThreshold)
	ew.printf("  use_trash                = %t\n", s.UseTrash)
	ew.printf("  device_offline_timeout_s = %d\n", s.DeviceOfflineTimeoutS)
	ew.printf("  wait_response_timeout_s  = %d\n", s.WaitResponseTimeoutS)
	ew.printf("  find_limit               = %d\n", s.FindLimit)
	ew.printf("  max_transfer_retries     = %d\n", s.MaxTransferRetries)
	ew.printf("\n")
}

func renderFilterSection(ew *errWriter, f *FilterConfig) {
	ew.printf("[filter]\n")
	ew.printf("  skip_dotfiles = %t\n", f.SkipDotfiles)

	if len(f.SkipPatterns) > 0 {
		ew.printf("  skip_patterns = [%s]\n", joinQuoted(f.SkipPatterns))
	}

	ew.printf("\n")
}

func renderLoggingSection(ew *errWriter, l *LoggingConfig) {
	ew.printf("[logging]\n")
	ew.printf("  level  = %q\n", l.Level)

	if l.File != "" {
		ew.printf("  file   = %q\n", l.File)
	}

	ew.printf("  format = %q\n", l.Format)
	ew.printf("\n")
}

func renderNetworkSection(ew *errWriter, n *NetworkConfig) {
	ew.printf("[network]\n")
	ew.printf("  connect_timeout = %q\n", n.ConnectTimeout)

	if n.UserAgent != "" {
		ew.printf("  user_agent      = %q\n", n.UserAgent)
	}
}

// joinQuoted formats a string slice as comma-separated quoted values.
func joinQuoted(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}

	return strings.Join(quoted, ", ")
}
