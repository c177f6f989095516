package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// maxLevenshteinDistance is the maximum edit distance for "did you mean?"
// suggestions when unknown config keys are detected.
const maxLevenshteinDistance = 3

// knownSectionKeys maps each top-level TOML table to its valid leaf keys.
// Config is a fixed set of nested sections (§6 plus ambient settings), so
// unlike a flat-namespace format this only needs to check one level of
// nesting per section.
var knownSectionKeys = map[string]map[string]bool{
	"identity": {
		"username": true, "backup_root": true, "tree_root_prefix": true,
		"report_host": true, "ca_cert": true, "mac_token": true,
	},
	"discovery": {
		"discover_port": true, "route_port": true, "data_port": true,
		"tracker_url": true, "broadcast_interval": true, "dht_announce_interval": true,
		"tracker_interval": true, "peer_expiry_interval": true, "peer_expiry_age": true,
		"static_peers": true,
	},
	"transfers": {
		"refresh_workers": true, "sync_workers": true, "outer_workers": true,
		"inner_workers": true, "transfer_workers": true, "upload_limit": true,
		"download_limit": true, "download_cache_limit": true, "sync_interval_s": true,
	},
	"safety": {
		"big_delete_threshold": true, "use_trash": true, "device_offline_timeout_s": true,
		"wait_response_timeout_s": true, "find_limit": true, "max_transfer_retries": true,
	},
	"filter": {
		"skip_dotfiles": true, "skip_patterns": true,
	},
	"logging": {
		"level": true, "file": true, "format": true,
	},
	"network": {
		"connect_timeout": true, "user_agent": true,
	},
}

var knownSectionNames = func() []string {
	names := make([]string, 0, len(knownSectionKeys))
	for k := range knownSectionKeys {
		names = append(names, k)
	}

	sort.Strings(names)

	return names
}()

// checkUnknownKeys inspects TOML metadata for undecoded keys and returns an
// error with "did you mean?" suggestions for each unknown key or section.
func checkUnknownKeys(md *toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}

	var errs []error

	for _, key := range undecoded {
		parts := strings.SplitN(key.String(), ".", 2)
		section := parts[0]

		leaves, ok := knownSectionKeys[section]
		if !ok {
			if s := closestMatch(section, knownSectionNames); s != "" {
				errs = append(errs, fmt.Errorf("unknown config section %q — did you mean %q?", section, s))
			} else {
				errs = append(errs, fmt.Errorf("unknown config section %q", section))
			}

			continue
		}

		if len(parts) < 2 {
			continue
		}

		leaf := strings.SplitN(parts[1], ".", 2)[0]
		if leaves[leaf] {
			continue
		}

		leafNames := make([]string, 0, len(leaves))
		for l := range leaves {
			leafNames = append(leafNames, l)
		}

		sort.Strings(leafNames)

		if s := closestMatch(leaf, leafNames); s != "" {
			errs = append(errs, fmt.Errorf("unknown config key %q in [%s] — did you mean %q?", leaf, section, s))
		} else {
			errs = append(errs, fmt.Errorf("unknown config key %q in [%s]", leaf, section))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// closestMatch finds the closest known key by Levenshtein distance. Returns
// empty string if no match is within maxLevenshteinDistance.
func closestMatch(unknown string, known []string) string {
	best := ""
	bestDist := maxLevenshteinDistance + 1

	for _, k := range known {
		d := levenshtein(unknown, k)
		if d < bestDist {
			bestDist = d
			best = k
		}
	}

	if bestDist <= maxLevenshteinDistance {
		return best
	}

	return ""
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	if a == "" {
		return len(b)
	}

	if b == "" {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := range len(a) {
		curr[0] = i + 1

		for j := range len(b) {
			cost := 1
			if a[i] == b[j] {
				cost = 0
			}

			curr[j+1] = minOf(curr[j]+1, prev[j+1]+1, prev[j]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// minOf returns the minimum of three integers.
func minOf(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}

	if c < m {
		m = c
	}

	return m
}
