// Package orchestrator drives the per-frame tile lifecycle of spec
// §4.I: it reconciles the tile cache against the current viewport,
// drains completed fetch/decode results, schedules retries, and spawns
// new fetches in priority order (parent fallback first, then visible
// tiles by distance, then velocity-based prefetch). Grounded on the
// teacher's Update-loop tile-queue maintenance (main.go's frame-driven
// ClearDownloadQueue/download scheduling, tilemap/map.go's
// getTilesInView) generalized to the spec's explicit TileState machine
// and async result queue.
package orchestrator

// Config holds the orchestrator's per-frame tunables (spec §6.4 defaults).
type Config struct {
	BufferTiles        int
	MaxCachedImages    int
	ZoomDebounceFrames uint64
	LookAheadMS        float64
	FrameMS            float64
	MinVelocity        float64
	MaxPrefetchTiles   int
}

// DefaultConfig returns the §6.4 defaults, assuming a 60fps frame budget.
func DefaultConfig() Config {
	return Config{
		BufferTiles:        3,
		MaxCachedImages:    1500,
		ZoomDebounceFrames: 6,
		LookAheadMS:        500,
		FrameMS:            1000.0 / 60.0,
		MinVelocity:        5,
		MaxPrefetchTiles:   8,
	}
}
