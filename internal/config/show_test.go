package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEffective_ContainsAllSections(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Identity.Username = "alice"

	var sb strings.Builder
	require.NoError(t, RenderEffective(cfg, &sb))

	out := sb.String()
	assert.Contains(t, out, "[identity]")
	assert.Contains(t, out, `username         = "alice"`)
	assert.Contains(t, out, "[discovery]")
	assert.Contains(t, out, "[transfers]")
	assert.Contains(t, out, "[safety]")
	assert.Contains(t, out, "[filter]")
	assert.Contains(t, out, "[logging]")
	assert.Contains(t, out, "[network]")
}

func TestRenderEffective_OmitsEmptyOptionalFields(t *testing.T) {
	cfg := DefaultConfig()

	var sb strings.Builder
	require.NoError(t, RenderEffective(cfg, &sb))

	assert.NotContains(t, sb.String(), "report_host")
}
