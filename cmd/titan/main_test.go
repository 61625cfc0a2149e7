package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/titan/config"
	"github.com/lixenwraith/titan/parameter"
)

func parse(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	opts := &options{}
	cmd := newRootCommand(opts)
	require.NoError(t, cmd.ParseFlags(args))
	return loadConfig(cmd, opts)
}

func TestFlagsOverrideDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.toml")
	cfg, err := parse(t, "--config", missing, "--fps", "30", "--mute", "--scores", "s.db", "--player", "ada")
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Engine.FPS)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, "s.db", cfg.Scores.Path)
	assert.Equal(t, "ada", cfg.Scores.Player)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestUnsetFlagsKeepFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "titan.toml")
	require.NoError(t, os.WriteFile(path, []byte("[engine]\nfps = 45\n[log]\nlevel = \"debug\"\n"), 0o644))

	cfg, err := parse(t, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Engine.FPS)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, parameter.MissilePoolCapacity, cfg.Pools.Missile.Capacity)
}

func TestInvalidFlagRejected(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.toml")
	_, err := parse(t, "--config", missing, "--fps", "0")
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = parse(t, "--config", missing, "--log-level", "loud")
	assert.ErrorIs(t, err, config.ErrInvalid)
}
