package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesSpecDefaults(t *testing.T) {
	v := viper.New()
	Bind(v)
	cfg := Load(v)

	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, uint64(60), cfg.Retry.BaseDelay)
	assert.Equal(t, 3, cfg.Unload.BufferTiles)
	assert.Equal(t, 1500, cfg.Unload.MaxCachedImages)
	assert.Equal(t, 0.15, cfg.Zoom.LerpFactor)
	assert.Equal(t, 0.01, cfg.Zoom.SnapThreshold)
	assert.Nil(t, cfg.Zoom.Ease)
	assert.Equal(t, 100.0, cfg.Input.KeyboardPanSpeed)
	assert.Equal(t, 0.8, cfg.Input.VelocitySmoothing)
	assert.Equal(t, 0.9, cfg.Input.VelocityDecay)
	assert.Equal(t, uint64(6), cfg.Orchestrator.ZoomDebounceFrames)
	assert.Equal(t, 500.0, cfg.Orchestrator.LookAheadMS)
	assert.Equal(t, 5.0, cfg.Orchestrator.MinVelocity)
	assert.Equal(t, 8, cfg.Orchestrator.MaxPrefetchTiles)
	assert.Equal(t, int64(100*1024*1024), cfg.DiskMaxBytes)
	assert.Equal(t, -85.0, cfg.Bounds.MinLat)
	assert.Equal(t, 85.0, cfg.Bounds.MaxLat)
	assert.Equal(t, 0, cfg.Bounds.MinZoom)
	assert.Equal(t, 19, cfg.Bounds.MaxZoom)
}

func TestLoadRespectsOverrides(t *testing.T) {
	v := viper.New()
	Bind(v)
	v.Set("initial_zoom", 14)
	v.Set("provider", "OSM")
	v.Set("bounds_max_zoom", 16)

	cfg := Load(v)
	assert.Equal(t, 14, cfg.InitialZoom)
	assert.Equal(t, "OSM", cfg.ProviderName)
	assert.Equal(t, 14, cfg.InitialView().Zoom)
	assert.Equal(t, 16, cfg.Bounds.MaxZoom)
}

func TestLoadResolvesZoomEaseByName(t *testing.T) {
	v := viper.New()
	Bind(v)
	v.Set("zoom_ease", "out-cubic")

	cfg := Load(v)
	require.NotNil(t, cfg.Zoom.Ease)
}

func TestLoadUnknownZoomEaseNameFallsBackToNil(t *testing.T) {
	v := viper.New()
	Bind(v)
	v.Set("zoom_ease", "not-a-real-curve")

	cfg := Load(v)
	assert.Nil(t, cfg.Zoom.Ease)
}
