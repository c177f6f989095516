package config

import "sync"

// Holder provides thread-safe access to a mutable *Config and an immutable
// config file path. The kernel facade and every C2-dependent component read
// through a shared Holder, so a SIGHUP reload or a setter-driven config
// change (§4.2) updates config in exactly one place. Holder itself does not
// enforce the "Config < DB" lock order from §5 — callers that also need a
// store write-latch must acquire it before calling Update.
type Holder struct {
	mu   sync.RWMutex
	cfg  *Config
	path string // immutable after construction
}

// NewHolder creates a Holder with the initial config and config file path.
func NewHolder(cfg *Config, path string) *Holder {
	return &Holder{
		cfg:  cfg,
		path: path,
	}
}

// Config returns the current config snapshot. Thread-safe (read lock).
func (h *Holder) Config() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.cfg
}

// Path returns the config file path. Thread-safe without locking because
// the path is immutable after construction.
func (h *Holder) Path() string {
	return h.path
}

// Update replaces the config. Thread-safe (write lock). Called on SIGHUP
// reload — one call updates config for all consumers (SessionProvider,
// Orchestrator).
func (h *Holder) Update(cfg *Config) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.cfg = cfg
}
