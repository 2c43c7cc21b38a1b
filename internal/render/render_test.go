package render

import (
	"testing"

	"github.com/nyxmaps/mercator/internal/proj"
	"github.com/nyxmaps/mercator/internal/retry"
	"github.com/nyxmaps/mercator/internal/tilecache"
	"github.com/nyxmaps/mercator/internal/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindParentFallbackFindsNearestLoadedAncestor(t *testing.T) {
	cache := tilecache.New(retry.DefaultConfig(), tilecache.DefaultUnloadConfig())
	target := proj.TileCoord{X: 100, Y: 200, Z: 10}
	grandparent := target.Parent().Parent()
	cache.Insert(grandparent, tilecache.NewLoaded(nil, []byte("bytes")))

	ancestor, depth, found := findParentFallback(cache, target, MaxFallbackLevels)
	require.True(t, found)
	assert.Equal(t, grandparent, ancestor)
	assert.Equal(t, 2, depth)
}

func TestFindParentFallbackRespectsMaxLevels(t *testing.T) {
	cache := tilecache.New(retry.DefaultConfig(), tilecache.DefaultUnloadConfig())
	target := proj.TileCoord{X: 100, Y: 200, Z: 10}
	tooFar := target.Ancestor(4)
	cache.Insert(tooFar, tilecache.NewLoaded(nil, []byte("bytes")))

	_, _, found := findParentFallback(cache, target, MaxFallbackLevels)
	assert.False(t, found, "an ancestor beyond max_levels must not be used")
}

func TestFindParentFallbackNoneLoaded(t *testing.T) {
	cache := tilecache.New(retry.DefaultConfig(), tilecache.DefaultUnloadConfig())
	target := proj.TileCoord{X: 5, Y: 5, Z: 5}
	_, _, found := findParentFallback(cache, target, MaxFallbackLevels)
	assert.False(t, found)
}

func TestTileDestRectCentersCenterTileAtScreenMiddle(t *testing.T) {
	v := viewport.New(0, 0, 10, 800, 600, 256, 0, proj.MaxZoom)
	ctx, cty := v.CenterTileFrac()
	coord := proj.TileCoord{X: int(ctx), Y: int(cty), Z: 10}

	x, y, size := tileDestRect(v, coord, 10)
	assert.InDelta(t, 256, size, 1e-9)
	assert.True(t, x <= 400 && x+size >= 400, "center tile should straddle screen center x")
	assert.True(t, y <= 300 && y+size >= 300, "center tile should straddle screen center y")
}

func TestTileDestRectSizeScalesWithDisplayZoom(t *testing.T) {
	v := viewport.New(0, 0, 10, 800, 600, 256, 0, proj.MaxZoom)
	coord := proj.TileCoord{X: 0, Y: 0, Z: 10}

	_, _, sizeAt10 := tileDestRect(v, coord, 10)
	_, _, sizeAt11 := tileDestRect(v, coord, 11)
	assert.InDelta(t, sizeAt10*2, sizeAt11, 1e-9)
}

func TestDrawFallbackOffsetsAreWithinUnitRange(t *testing.T) {
	target := proj.TileCoord{X: 5, Y: 3, Z: 4}
	ancestor := target.Parent()
	depth := 1
	scale := 1 << uint(depth)
	offsetX := float64(target.X-ancestor.X*scale) / float64(scale)
	offsetY := float64(target.Y-ancestor.Y*scale) / float64(scale)
	assert.GreaterOrEqual(t, offsetX, 0.0)
	assert.Less(t, offsetX, 1.0)
	assert.GreaterOrEqual(t, offsetY, 0.0)
	assert.Less(t, offsetY, 1.0)
}
