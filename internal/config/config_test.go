package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Scrape.MaxConcurrent)
	assert.Equal(t, 30000, cfg.Scrape.PageTimeoutMs)
	assert.InDelta(t, 1.0, cfg.Scrape.DelayBetweenPagesSec, 0.001)
	assert.True(t, cfg.Scrape.RespectRobotsTxt)
	assert.Equal(t, "website", cfg.Input.CSVColumn)
	assert.Equal(t, "dealers.md", cfg.Output.File)
	assert.Equal(t, "America/Chicago", cfg.Output.Timezone)
	assert.True(t, cfg.Census.Enabled)
	assert.Equal(t, "https://geocoding.geo.census.gov/geocoder", cfg.Census.APIURL)
	assert.Equal(t, ".checkpoints", cfg.Checkpoint.Dir)
	assert.Equal(t, 5, cfg.Checkpoint.Retention)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.MultiLocation.Enabled)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DEALERSCOUT_SCRAPE_MAX_CONCURRENT", "7")
	t.Setenv("DEALERSCOUT_OUTPUT_TIMEZONE", "America/New_York")
	t.Setenv("DEALERSCOUT_CENSUS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Scrape.MaxConcurrent)
	assert.Equal(t, "America/New_York", cfg.Output.Timezone)
	assert.False(t, cfg.Census.Enabled)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "not-a-level"}), "bad level rejected")
}
