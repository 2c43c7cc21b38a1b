package orchestrator

import (
	"sort"

	"github.com/nyxmaps/mercator/internal/collab"
	"github.com/nyxmaps/mercator/internal/mapstate"
	"github.com/nyxmaps/mercator/internal/proj"
	"github.com/nyxmaps/mercator/internal/retry"
	"github.com/nyxmaps/mercator/internal/tilecache"
)

// Step runs one frame of spec §4.I's eleven-step reconciliation against
// s, spawning fetches and decodes through s.Engine/s.Tasks and mutating
// s.Cache in place. It never blocks — all I/O happens on goroutines the
// fetch engine owns, with results arriving on a later frame.
func Step(s *mapstate.State, cfg Config) {
	v := s.Viewport
	cache := s.Cache

	// 1. Compute keep set.
	keepSet := computeKeepSet(v, cache, cfg.BufferTiles)

	// 2. Cancel stale tasks.
	for _, coord := range s.Tasks.Coords() {
		if _, keep := keepSet[coord]; !keep {
			s.Tasks.Cancel(coord)
		}
	}

	// 3. Unload distant: destroy GPU texture, re-insert as Cached.
	for _, u := range cache.TilesToUnload(keepSet) {
		collab.DestroyTexture(u.Texture)
		cache.Insert(u.Coord, tilecache.NewCached(u.Bytes, s.Frame))
	}

	// 4. Remove stale pending/failed/retrying/exhausted tiles.
	for _, coord := range cache.StaleTiles(keepSet) {
		cache.Remove(coord)
	}

	// 5. Evict RAM-cached by LRU.
	for _, coord := range cache.CachedImagesToEvict(keepSet, cfg.MaxCachedImages) {
		cache.Remove(coord)
	}

	// 6. Reload cached tiles back into the visible set.
	visibleSet := toSet(v.VisibleTilesWithBuffer(0))
	for _, r := range cache.CachedTilesToReload(visibleSet) {
		if s.Tasks.Contains(r.Coord) {
			continue
		}
		cache.Insert(r.Coord, tilecache.NewPending())
		flag := s.Tasks.Start(r.Coord)
		s.Engine.SpawnDecode(r.Coord, r.Bytes, flag)
	}

	// 7. Drain result queue.
	for _, res := range s.Engine.Results.DrainAll() {
		s.Tasks.Complete(res.Coord)
		if res.Err == nil {
			cache.Insert(res.Coord, tilecache.NewLoaded(res.Texture, res.Bytes))
			continue
		}
		prev, hadPrev := cache.Get(res.Coord)
		if res.WasRetry && hadPrev && prev.Tag == tilecache.Retrying {
			next := retry.Advance(prev.Retry, s.Frame, res.Err.Error())
			if cache.Retry.IsExhausted(next) {
				cache.Insert(res.Coord, tilecache.NewExhausted(next))
			} else {
				cache.Insert(res.Coord, tilecache.NewFailed(next))
			}
			continue
		}
		cache.Insert(res.Coord, tilecache.NewFailed(retry.InitialFailure(s.Frame, res.Err.Error())))
	}

	// 8. Schedule retries for visible Failed tiles whose backoff elapsed.
	for coord := range visibleSet {
		st, ok := cache.Get(coord)
		if !ok || st.Tag != tilecache.Failed {
			continue
		}
		if !cache.Retry.ShouldRetry(st.Retry, s.Frame) {
			continue
		}
		cache.Insert(coord, tilecache.NewRetrying(st.Retry))
		flag := s.Tasks.Start(coord)
		s.Engine.SpawnFetch(coord, flag, true)
	}

	// 9. Should-fetch gate (request coalescing / zoom debounce).
	shouldFetchNew := !s.Zoom.IsAnimating || (s.Frame-s.LastZoomChangeFrame) >= cfg.ZoomDebounceFrames
	if !shouldFetchNew {
		s.Frame++
		return
	}

	// 10a. Parents of visible tiles, not yet in cache, first.
	visibleBase := v.VisibleTilesWithBuffer(cfg.BufferTiles)
	spawned := make(map[proj.TileCoord]struct{})
	for _, t := range visibleBase {
		if t.Z == 0 {
			continue
		}
		p := t.Parent()
		spawnIfMissing(s, cache, p, spawned)
	}

	// 10b. Visible tiles, sorted ascending by squared distance from center.
	ctx, cty := v.CenterTileFrac()
	sort.Slice(visibleBase, func(i, j int) bool {
		return sqDist(visibleBase[i], ctx, cty) < sqDist(visibleBase[j], ctx, cty)
	})
	for _, t := range visibleBase {
		spawnIfMissing(s, cache, t, spawned)
	}

	// 10c. Velocity-based prefetch.
	speed := s.Velocity.VX*s.Velocity.VX + s.Velocity.VY*s.Velocity.VY
	if speed >= cfg.MinVelocity*cfg.MinVelocity {
		framesAhead := cfg.LookAheadMS / cfg.FrameMS
		dLon, dLat := v.PixelsToDegrees(s.Velocity.VX*framesAhead, s.Velocity.VY*framesAhead)
		predicted := v
		predicted.SetCenter(v.CenterLat-dLat, v.CenterLon-dLon)

		pctx, pcty := predicted.CenterTileFrac()
		candidates := predicted.VisibleTilesWithBuffer(0)
		visibleNow := toSet(visibleBase)

		var prefetch []proj.TileCoord
		for _, t := range candidates {
			if _, ok := visibleNow[t]; ok {
				continue
			}
			if cache.Contains(t) {
				continue
			}
			prefetch = append(prefetch, t)
		}
		sort.Slice(prefetch, func(i, j int) bool {
			return sqDist(prefetch[i], pctx, pcty) < sqDist(prefetch[j], pctx, pcty)
		})
		if len(prefetch) > cfg.MaxPrefetchTiles {
			prefetch = prefetch[:cfg.MaxPrefetchTiles]
		}
		for _, t := range prefetch {
			spawnIfMissing(s, cache, t, spawned)
		}
	}

	// 11. Advance the frame counter.
	s.Frame++
}

func spawnIfMissing(s *mapstate.State, cache *tilecache.Cache, coord proj.TileCoord, spawned map[proj.TileCoord]struct{}) {
	if _, done := spawned[coord]; done {
		return
	}
	if cache.Contains(coord) || s.Tasks.Contains(coord) {
		return
	}
	spawned[coord] = struct{}{}
	cache.Insert(coord, tilecache.NewPending())
	flag := s.Tasks.Start(coord)
	s.Engine.SpawnFetch(coord, flag, false)
}

func sqDist(t proj.TileCoord, ctx, cty float64) float64 {
	dx := float64(t.X) + 0.5 - ctx
	dy := float64(t.Y) + 0.5 - cty
	return dx*dx + dy*dy
}

func toSet(coords []proj.TileCoord) map[proj.TileCoord]struct{} {
	set := make(map[proj.TileCoord]struct{}, len(coords))
	for _, c := range coords {
		set[c] = struct{}{}
	}
	return set
}
