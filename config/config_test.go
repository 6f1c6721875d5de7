package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
start_level: 2
tick_rate: 30
log_level: debug
watch_debounce: 250ms
autopilot:
  enabled: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.StartLevel)
	assert.Equal(t, 30, cfg.TickRate)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, 250*time.Millisecond, cfg.WatchDebounce)
	assert.False(t, cfg.Autopilot.Enabled)
	assert.Equal(t, Default().WatchDirs, cfg.WatchDirs)
	assert.InDelta(t, 1.0/30, cfg.Step(), 1e-12)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.TickRate = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.StartLevel = -1
	assert.Error(t, cfg.Validate())

	assert.NoError(t, Default().Validate())
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tick_rate: [oops"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
