package orchestrator

import (
	"github.com/nyxmaps/mercator/internal/proj"
	"github.com/nyxmaps/mercator/internal/tilecache"
	"github.com/nyxmaps/mercator/internal/viewport"
)

// computeKeepSet implements spec §4.I step 1's compute_keep_set(viewport,
// cache, buffer): visible-with-buffer, their immediate parents
// (proactive fallback, unconditional), and — for every base tile not
// yet Loaded — its loaded ancestors (up to tilecache.DefaultMaxAncestorLevels)
// and any already-loaded children.
func computeKeepSet(v viewport.Viewport, cache *tilecache.Cache, buffer int) map[proj.TileCoord]struct{} {
	base := v.VisibleTilesWithBuffer(buffer)
	keep := make(map[proj.TileCoord]struct{}, len(base)*2)

	for _, t := range base {
		keep[t] = struct{}{}
		if t.Z > 0 {
			keep[t.Parent()] = struct{}{}
		}
		if isLoaded(cache, t) {
			continue
		}
		for _, a := range cache.GetLoadedAncestors(t, tilecache.DefaultMaxAncestorLevels) {
			keep[a] = struct{}{}
		}
		if t.Z < proj.MaxZoom {
			for _, ch := range t.Children() {
				if isLoaded(cache, ch) {
					keep[ch] = struct{}{}
				}
			}
		}
	}
	return keep
}

func isLoaded(cache *tilecache.Cache, c proj.TileCoord) bool {
	s, ok := cache.Get(c)
	return ok && s.Tag == tilecache.Loaded
}
