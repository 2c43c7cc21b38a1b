package tilecache

import (
	lru "github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/nyxmaps/mercator/internal/collab"
	"github.com/nyxmaps/mercator/internal/proj"
	"github.com/nyxmaps/mercator/internal/retry"
)

// UnloadConfig holds the cache's unload/eviction tunables (spec §6.4).
type UnloadConfig struct {
	BufferTiles     int
	MaxCachedImages int
}

// DefaultUnloadConfig returns the §6.4 defaults.
func DefaultUnloadConfig() UnloadConfig {
	return UnloadConfig{BufferTiles: 3, MaxCachedImages: 1500}
}

// Cache is the coord -> TileState map of spec §3/§4.D. It is mutated
// only from the main thread (spec §5), so it carries no internal lock;
// async fetch/decode tasks never touch it directly.
type Cache struct {
	states map[proj.TileCoord]State

	// cachedLRU tracks Cached coords in least-recently-used order. A
	// bound far above any realistic cache size is used because eviction
	// itself is driven by CachedImagesToEvict's keep-set-aware policy,
	// not by this structure's own size cap; it exists purely to give us
	// an oldest-first walk order without hand-rolling a second list.
	cachedLRU *lru.LRU[proj.TileCoord, struct{}]

	Retry  retry.Config
	Unload UnloadConfig
}

const cachedLRUCapacity = 1 << 20

// New creates an empty Cache with the given retry and unload policies.
func New(retryCfg retry.Config, unloadCfg UnloadConfig) *Cache {
	l, _ := lru.NewLRU[proj.TileCoord, struct{}](cachedLRUCapacity, nil)
	return &Cache{
		states:    make(map[proj.TileCoord]State),
		cachedLRU: l,
		Retry:     retryCfg,
		Unload:    unloadCfg,
	}
}

// Get returns the state for c, if any.
func (c *Cache) Get(coord proj.TileCoord) (State, bool) {
	s, ok := c.states[coord]
	return s, ok
}

// Contains reports whether coord has any cached state.
func (c *Cache) Contains(coord proj.TileCoord) bool {
	_, ok := c.states[coord]
	return ok
}

// Insert stores (or replaces) the state for coord, maintaining the
// Cached LRU order invariant. Inserting a Loaded/Pending/Failed/
// Retrying/Exhausted state for a coord previously Cached drops it from
// the LRU tracker.
func (c *Cache) Insert(coord proj.TileCoord, s State) {
	if prev, ok := c.states[coord]; ok && prev.Tag == Cached && s.Tag != Cached {
		c.cachedLRU.Remove(coord)
	}
	c.states[coord] = s
	if s.Tag == Cached {
		c.cachedLRU.Add(coord, struct{}{})
	}
}

// Remove erases coord from the cache entirely.
func (c *Cache) Remove(coord proj.TileCoord) {
	if s, ok := c.states[coord]; ok && s.Tag == Cached {
		c.cachedLRU.Remove(coord)
	}
	delete(c.states, coord)
}

// Len returns the number of tracked coords, for diagnostics.
func (c *Cache) Len() int { return len(c.states) }

// UnloadEntry is one result of TilesToUnload: a coord whose GPU texture
// the caller must destroy before re-inserting the tile as Cached.
type UnloadEntry struct {
	Coord   proj.TileCoord
	Texture collab.Texture
	Bytes   []byte
}

// TilesToUnload implements spec §4.D tiles_to_unload(keep_set): every
// Loaded coord not in keep_set.
func (c *Cache) TilesToUnload(keepSet map[proj.TileCoord]struct{}) []UnloadEntry {
	var out []UnloadEntry
	for coord, s := range c.states {
		if s.Tag != Loaded {
			continue
		}
		if _, keep := keepSet[coord]; keep {
			continue
		}
		out = append(out, UnloadEntry{Coord: coord, Texture: s.Texture, Bytes: s.Bytes})
	}
	return out
}

// StaleTiles implements spec §4.D stale_tiles(keep_set): every coord in
// Pending|Failed|Retrying|Exhausted not in keep_set. These are cheap to
// drop outright (no GPU/bytes payload to release carefully).
func (c *Cache) StaleTiles(keepSet map[proj.TileCoord]struct{}) []proj.TileCoord {
	var out []proj.TileCoord
	for coord, s := range c.states {
		switch s.Tag {
		case Pending, Failed, Retrying, Exhausted:
		default:
			continue
		}
		if _, keep := keepSet[coord]; keep {
			continue
		}
		out = append(out, coord)
	}
	return out
}

// ReloadEntry is one result of CachedTilesToReload: a Cached coord whose
// bytes need an off-main-thread re-decode.
type ReloadEntry struct {
	Coord proj.TileCoord
	Bytes []byte
}

// CachedTilesToReload implements spec §4.D
// cached_tiles_to_reload(visible_set): every Cached coord in visible_set.
func (c *Cache) CachedTilesToReload(visibleSet map[proj.TileCoord]struct{}) []ReloadEntry {
	var out []ReloadEntry
	for coord := range visibleSet {
		s, ok := c.states[coord]
		if !ok || s.Tag != Cached {
			continue
		}
		out = append(out, ReloadEntry{Coord: coord, Bytes: s.Bytes})
	}
	return out
}

// CachedImagesToEvict implements spec §4.D
// cached_images_to_evict(keep_set, max_to_keep): for every Cached coord
// outside keep_set, the oldest-first subset sufficient to bring the
// outside-keep-set count down to max_to_keep.
func (c *Cache) CachedImagesToEvict(keepSet map[proj.TileCoord]struct{}, maxToKeep int) []proj.TileCoord {
	// lru.Keys() returns oldest-to-newest order.
	var outside []proj.TileCoord
	for _, coord := range c.cachedLRU.Keys() {
		if _, keep := keepSet[coord]; keep {
			continue
		}
		outside = append(outside, coord)
	}
	if len(outside) <= maxToKeep {
		return nil
	}
	return outside[:len(outside)-maxToKeep]
}

// GetLoadedAncestors implements spec §4.D
// get_loaded_ancestors(coord, max_levels=8): walks up to maxLevels
// parents, returning every ancestor whose current state is Loaded,
// nearest ancestor first.
func (c *Cache) GetLoadedAncestors(coord proj.TileCoord, maxLevels int) []proj.TileCoord {
	var out []proj.TileCoord
	cur := coord
	for i := 0; i < maxLevels && cur.Z > 0; i++ {
		cur = cur.Parent()
		if s, ok := c.states[cur]; ok && s.Tag == Loaded {
			out = append(out, cur)
		}
	}
	return out
}

// DefaultMaxAncestorLevels is the spec's fixed default for
// GetLoadedAncestors (§4.D: "max_levels=8").
const DefaultMaxAncestorLevels = 8

// Clear wipes every tracked coord, used on provider change (spec §3:
// "Provider change clears the cache wholesale").
func (c *Cache) Clear() {
	c.states = make(map[proj.TileCoord]State)
	c.cachedLRU.Purge()
}
