package config

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHolder_ConfigAndPath(t *testing.T) {
	cfg := DefaultConfig()
	h := NewHolder(cfg, "/tmp/config.toml")

	assert.Same(t, cfg, h.Config())
	assert.Equal(t, "/tmp/config.toml", h.Path())
}

func TestHolder_Update(t *testing.T) {
	h := NewHolder(DefaultConfig(), "/tmp/config.toml")

	updated := DefaultConfig()
	updated.Identity.Username = "alice"
	h.Update(updated)

	assert.Equal(t, "alice", h.Config().Identity.Username)
}

func TestHolder_ConcurrentAccess(t *testing.T) {
	h := NewHolder(DefaultConfig(), "/tmp/config.toml")

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()

			_ = h.Config()
		}()

		go func() {
			defer wg.Done()

			h.Update(DefaultConfig())
		}()
	}

	wg.Wait()
}
