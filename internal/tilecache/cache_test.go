package tilecache

import (
	"testing"

	"github.com/nyxmaps/mercator/internal/proj"
	"github.com/nyxmaps/mercator/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coord(x, y, z int) proj.TileCoord { return proj.TileCoord{X: x, Y: y, Z: z} }

func TestLRUEvictionUnderPressure(t *testing.T) {
	// Spec §8 scenario 6: three Cached tiles at last_access 100,200,300;
	// max_cached_images=1; keep_set empty. Evict returns the two oldest.
	c := New(retry.DefaultConfig(), UnloadConfig{MaxCachedImages: 1})
	a, b, d := coord(0, 0, 5), coord(1, 0, 5), coord(2, 0, 5)
	c.Insert(a, NewCached(nil, 100))
	c.Insert(b, NewCached(nil, 200))
	c.Insert(d, NewCached(nil, 300))

	evict := c.CachedImagesToEvict(map[proj.TileCoord]struct{}{}, 1)
	require.Len(t, evict, 2)
	assert.ElementsMatch(t, []proj.TileCoord{a, b}, evict)
}

func TestLRUEvictionRespectsKeepSet(t *testing.T) {
	c := New(retry.DefaultConfig(), UnloadConfig{})
	a, b, d := coord(0, 0, 5), coord(1, 0, 5), coord(2, 0, 5)
	c.Insert(a, NewCached(nil, 1))
	c.Insert(b, NewCached(nil, 2))
	c.Insert(d, NewCached(nil, 3))

	keep := map[proj.TileCoord]struct{}{a: {}}
	evict := c.CachedImagesToEvict(keep, 0)
	assert.ElementsMatch(t, []proj.TileCoord{b, d}, evict)
}

func TestTilesToUnloadOnlyLoadedOutsideKeepSet(t *testing.T) {
	c := New(retry.DefaultConfig(), UnloadConfig{})
	loadedKeep := coord(0, 0, 3)
	loadedDrop := coord(1, 0, 3)
	pendingDrop := coord(2, 0, 3)

	c.Insert(loadedKeep, NewLoaded(nil, []byte("a")))
	c.Insert(loadedDrop, NewLoaded(nil, []byte("b")))
	c.Insert(pendingDrop, NewPending())

	keep := map[proj.TileCoord]struct{}{loadedKeep: {}}
	unload := c.TilesToUnload(keep)
	require.Len(t, unload, 1)
	assert.Equal(t, loadedDrop, unload[0].Coord)
}

func TestStaleTilesCoversNonLoadedVariants(t *testing.T) {
	c := New(retry.DefaultConfig(), UnloadConfig{})
	pending, failed, retrying, exhausted := coord(0, 0, 1), coord(1, 0, 1), coord(2, 0, 1), coord(3, 0, 1)
	c.Insert(pending, NewPending())
	c.Insert(failed, NewFailed(retry.InitialFailure(0, "x")))
	c.Insert(retrying, NewRetrying(retry.InitialFailure(0, "x")))
	c.Insert(exhausted, NewExhausted(retry.InitialFailure(0, "x")))
	c.Insert(coord(4, 0, 1), NewLoaded(nil, nil)) // should never be "stale"

	stale := c.StaleTiles(map[proj.TileCoord]struct{}{})
	assert.ElementsMatch(t, []proj.TileCoord{pending, failed, retrying, exhausted}, stale)
}

func TestCachedTilesToReloadOnlyVisibleCached(t *testing.T) {
	c := New(retry.DefaultConfig(), UnloadConfig{})
	visibleCached := coord(0, 0, 2)
	invisibleCached := coord(1, 0, 2)
	c.Insert(visibleCached, NewCached([]byte("bytes"), 5))
	c.Insert(invisibleCached, NewCached([]byte("bytes2"), 6))

	visible := map[proj.TileCoord]struct{}{visibleCached: {}}
	reload := c.CachedTilesToReload(visible)
	require.Len(t, reload, 1)
	assert.Equal(t, visibleCached, reload[0].Coord)
}

func TestGetLoadedAncestorsWalksUpToEightLevels(t *testing.T) {
	c := New(retry.DefaultConfig(), UnloadConfig{})
	leaf := coord(100, 200, 10)
	grandparent := leaf.Parent().Parent()
	c.Insert(grandparent, NewLoaded(nil, nil))

	ancestors := c.GetLoadedAncestors(leaf, DefaultMaxAncestorLevels)
	require.Len(t, ancestors, 1)
	assert.Equal(t, grandparent, ancestors[0])
}

func TestGetLoadedAncestorsRespectsMaxLevels(t *testing.T) {
	c := New(retry.DefaultConfig(), UnloadConfig{})
	leaf := coord(100, 200, 10)
	tooFar := leaf.Ancestor(9)
	c.Insert(tooFar, NewLoaded(nil, nil))

	ancestors := c.GetLoadedAncestors(leaf, DefaultMaxAncestorLevels)
	assert.Empty(t, ancestors)
}

func TestRemoveDropsFromCachedLRU(t *testing.T) {
	c := New(retry.DefaultConfig(), UnloadConfig{})
	a := coord(0, 0, 1)
	c.Insert(a, NewCached(nil, 1))
	c.Remove(a)
	assert.False(t, c.Contains(a))
	assert.Empty(t, c.CachedImagesToEvict(map[proj.TileCoord]struct{}{}, 0))
}

func TestClearWipesEverything(t *testing.T) {
	c := New(retry.DefaultConfig(), UnloadConfig{})
	c.Insert(coord(0, 0, 1), NewLoaded(nil, nil))
	c.Insert(coord(1, 0, 1), NewCached(nil, 1))
	c.Clear()
	assert.Equal(t, 0, c.Len())
}
