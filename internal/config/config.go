// Package config loads the engine's tunables (spec §6.4 defaults and
// limits) from flags, environment variables, and an optional config
// file, via viper — following MeKo-Christian-WaterColorMap's
// internal/cmd viper pattern (bind flags, read a YAML file, env
// override) generalized from its tile-pipeline settings to the map
// engine's retry/cache/animation/input tunables.
package config

import (
	"time"

	"github.com/spf13/viper"
	"github.com/tanema/gween/ease"

	"github.com/nyxmaps/mercator/internal/input"
	"github.com/nyxmaps/mercator/internal/mapstate"
	"github.com/nyxmaps/mercator/internal/orchestrator"
	"github.com/nyxmaps/mercator/internal/retry"
	"github.com/nyxmaps/mercator/internal/tilecache"
	"github.com/nyxmaps/mercator/internal/zoomanim"
)

// easeCurves names the gween easing functions selectable through the
// zoom_ease setting. The empty name (default) leaves Config.Ease nil,
// which keeps the animator on its plain exponential lerp.
var easeCurves = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"out-cubic":    ease.OutCubic,
	"out-bounce":   ease.OutBounce,
	"out-elastic":  ease.OutElastic,
	"in-out-cubic": ease.InOutCubic,
	"in-out-sine":  ease.InOutSine,
	"in-out-quad":  ease.InOutQuad,
}

// Config is the fully-resolved set of tunables the application wires
// into its engine components at startup.
type Config struct {
	CacheDir     string
	DiskMaxBytes int64
	ScreenWidth  int
	ScreenHeight int
	TileSize     int

	InitialLat  float64
	InitialLon  float64
	InitialZoom int

	ProviderName string

	Bounds mapstate.Bounds

	Retry        retry.Config
	Unload       tilecache.UnloadConfig
	Zoom         zoomanim.Config
	Input        input.Config
	Orchestrator orchestrator.Config
}

// Bind registers every setting this package reads onto v with its
// spec §6.4 default, so Load always has a value even with no flags,
// env vars, or config file present.
func Bind(v *viper.Viper) {
	v.SetDefault("cache_dir", "./tilecache")
	v.SetDefault("disk_max_bytes", int64(100*1024*1024))
	v.SetDefault("screen_width", 1280)
	v.SetDefault("screen_height", 720)
	v.SetDefault("tile_size", 256)

	v.SetDefault("initial_lat", 37.7749)
	v.SetDefault("initial_lon", -122.4194)
	v.SetDefault("initial_zoom", 10)

	v.SetDefault("provider", "CartoDark")

	b := mapstate.DefaultBounds()
	v.SetDefault("bounds_min_lat", b.MinLat)
	v.SetDefault("bounds_max_lat", b.MaxLat)
	v.SetDefault("bounds_min_lon", b.MinLon)
	v.SetDefault("bounds_max_lon", b.MaxLon)
	v.SetDefault("bounds_min_zoom", b.MinZoom)
	v.SetDefault("bounds_max_zoom", b.MaxZoom)

	v.SetDefault("max_retries", 3)
	v.SetDefault("base_delay_frames", 60)

	v.SetDefault("buffer_tiles", 3)
	v.SetDefault("max_cached_images", 1500)

	v.SetDefault("lerp_factor", 0.15)
	v.SetDefault("snap_threshold", 0.01)
	v.SetDefault("zoom_ease", "")

	v.SetDefault("keyboard_pan_speed", 100.0)
	v.SetDefault("velocity_smoothing", 0.8)
	v.SetDefault("velocity_decay", 0.9)

	v.SetDefault("zoom_debounce_frames", 6)
	v.SetDefault("look_ahead_ms", 500.0)
	v.SetDefault("min_velocity", 5.0)
	v.SetDefault("max_prefetch_tiles", 8)
}

// Load resolves a Config from v after flags/env/file have all been
// merged in by the caller (spec §6.4 defaults used for anything unset).
func Load(v *viper.Viper) Config {
	return Config{
		CacheDir:     v.GetString("cache_dir"),
		DiskMaxBytes: v.GetInt64("disk_max_bytes"),
		ScreenWidth:  v.GetInt("screen_width"),
		ScreenHeight: v.GetInt("screen_height"),
		TileSize:     v.GetInt("tile_size"),

		InitialLat:  v.GetFloat64("initial_lat"),
		InitialLon:  v.GetFloat64("initial_lon"),
		InitialZoom: v.GetInt("initial_zoom"),

		ProviderName: v.GetString("provider"),

		Bounds: mapstate.Bounds{
			MinLat:  v.GetFloat64("bounds_min_lat"),
			MaxLat:  v.GetFloat64("bounds_max_lat"),
			MinLon:  v.GetFloat64("bounds_min_lon"),
			MaxLon:  v.GetFloat64("bounds_max_lon"),
			MinZoom: v.GetInt("bounds_min_zoom"),
			MaxZoom: v.GetInt("bounds_max_zoom"),
		},

		Retry: retry.Config{
			MaxRetries: v.GetInt("max_retries"),
			BaseDelay:  retry.FrameCounter(v.GetInt64("base_delay_frames")),
		},
		Unload: tilecache.UnloadConfig{
			BufferTiles:     v.GetInt("buffer_tiles"),
			MaxCachedImages: v.GetInt("max_cached_images"),
		},
		Zoom: zoomanim.Config{
			LerpFactor:    v.GetFloat64("lerp_factor"),
			SnapThreshold: v.GetFloat64("snap_threshold"),
			Ease:          easeCurves[v.GetString("zoom_ease")],
		},
		Input: input.Config{
			KeyboardPanSpeed:  v.GetFloat64("keyboard_pan_speed"),
			VelocitySmoothing: v.GetFloat64("velocity_smoothing"),
			VelocityDecay:     v.GetFloat64("velocity_decay"),
		},
		Orchestrator: orchestrator.Config{
			BufferTiles:        v.GetInt("buffer_tiles"),
			MaxCachedImages:    v.GetInt("max_cached_images"),
			ZoomDebounceFrames: uint64(v.GetInt64("zoom_debounce_frames")),
			LookAheadMS:        v.GetFloat64("look_ahead_ms"),
			FrameMS:            1000.0 / 60.0,
			MinVelocity:        v.GetFloat64("min_velocity"),
			MaxPrefetchTiles:   v.GetInt("max_prefetch_tiles"),
		},
	}
}

// InitialView extracts the mapstate.InitialView this Config names.
func (c Config) InitialView() mapstate.InitialView {
	return mapstate.InitialView{Lat: c.InitialLat, Lon: c.InitialLon, Zoom: c.InitialZoom}
}

// GenerationTimeout bounds how long a single tile fetch may run before
// the HTTP client gives up (not named by spec §6.4; a sane operational
// default matching the teacher's unbounded-but-cancellable fetch model).
const GenerationTimeout = 15 * time.Second
