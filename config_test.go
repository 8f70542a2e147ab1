package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, v, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, defaultSharedDir(), cfg.SharedDir)
	assert.Equal(t, 600_000_000, int(cfg.BaseTick))
	assert.Equal(t, 5, cfg.LinesPerSpeed)
	assert.NotZero(t, cfg.Keybindings.Left)
}

func TestDefaultPlayerIDSanitizesUnderscores(t *testing.T) {
	t.Setenv("USER", "jane_doe")
	assert.Equal(t, "jane-doe", defaultPlayerID())
}
