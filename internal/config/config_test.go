package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10*time.Second, cfg.Interval())
	assert.True(t, cfg.Environment.Enabled)
	assert.Equal(t, 0.3, cfg.Environment.Probability)
	assert.Empty(t, cfg.Thresholds)
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
refresh_interval: 30
thresholds:
  temp_high: 82.5
  oee_low: 55
environmental_alerts:
  enabled: false
  probability: 0.1
log_level: debug
metrics_addr: ":9102"
seed: 99
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.RefreshInterval)
	assert.Equal(t, map[string]float64{"temp_high": 82.5, "oee_low": 55}, cfg.Thresholds)
	assert.False(t, cfg.Environment.Enabled)
	assert.Equal(t, 0.1, cfg.Environment.Probability)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9102", cfg.MetricsAddr)
	assert.Equal(t, int64(99), cfg.Seed)
}

func TestLoad_PartialFileKeepsOtherDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log_level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.RefreshInterval)
	assert.True(t, cfg.Environment.Enabled)
	assert.NotNil(t, cfg.Thresholds)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "refresh_interval: 7\n"))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = Load(writeConfig(t, "environmental_alerts:\n  probability: 1.5\n"))
	assert.ErrorIs(t, err, ErrInvalidProbability)

	_, err = Load(writeConfig(t, "refresh_interval: [oops\n"))
	assert.Error(t, err)
}

func TestNextInterval(t *testing.T) {
	assert.Equal(t, 10, NextInterval(5))
	assert.Equal(t, 30, NextInterval(10))
	assert.Equal(t, 60, NextInterval(30))
	assert.Equal(t, 5, NextInterval(60))
	assert.Equal(t, 5, NextInterval(42))
	assert.True(t, ValidInterval(60))
	assert.False(t, ValidInterval(0))
}
