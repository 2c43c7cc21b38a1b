package viewport

import (
	"math"

	"github.com/nyxmaps/mercator/internal/proj"
)

// VisibleTilesWithBuffer implements spec §4.B
// visible_tiles_with_buffer(buffer): the fractional screen rectangle in
// tile space, expanded by buffer tiles on each edge, floored/ceiled to
// an integer tile range, and enumerated. X wraps modulo 2^z, Y clamps.
// The returned slice has no guaranteed order; callers that need a
// deterministic order (e.g. distance-sorted fetch priority) sort it
// themselves.
func (v Viewport) VisibleTilesWithBuffer(buffer int) []proj.TileCoord {
	ctx, cty := v.CenterTileFrac()
	halfWTiles := float64(v.ScreenW) / 2 / float64(v.TileSize)
	halfHTiles := float64(v.ScreenH) / 2 / float64(v.TileSize)

	minXF := ctx - halfWTiles - float64(buffer)
	maxXF := ctx + halfWTiles + float64(buffer)
	minYF := cty - halfHTiles - float64(buffer)
	maxYF := cty + halfHTiles + float64(buffer)

	minX := int(math.Floor(minXF))
	maxX := int(math.Ceil(maxXF)) - 1
	minY := int(math.Floor(minYF))
	maxY := int(math.Ceil(maxYF)) - 1

	n := proj.TilesAtZoom(v.Zoom)
	// If the buffered window is as wide as (or wider than) the whole
	// world, enumerating wrapped x would produce duplicates; clamp the
	// count instead of the range.
	xCount := maxX - minX + 1
	if xCount > n {
		xCount = n
	}
	if xCount < 0 {
		xCount = 0
	}

	seen := make(map[proj.TileCoord]struct{}, xCount*(maxY-minY+1))
	out := make([]proj.TileCoord, 0, xCount*(maxY-minY+1))
	for y := minY; y <= maxY; y++ {
		cy := proj.ClampY(y, v.Zoom)
		for i := 0; i < xCount; i++ {
			cx := proj.WrapX(minX+i, v.Zoom)
			c := proj.TileCoord{X: cx, Y: cy, Z: v.Zoom}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// VisibleTileSetWithFallbacks implements spec §4.B
// visible_tile_set_with_fallbacks(buffer): base ∪ parents ∪ grandparents
// ∪ children, used to build the keep-set.
func (v Viewport) VisibleTileSetWithFallbacks(buffer int) map[proj.TileCoord]struct{} {
	base := v.VisibleTilesWithBuffer(buffer)
	set := make(map[proj.TileCoord]struct{}, len(base)*3)
	for _, t := range base {
		set[t] = struct{}{}
		if t.Z > 0 {
			p := t.Parent()
			set[p] = struct{}{}
			if t.Z > 1 {
				set[p.Parent()] = struct{}{}
			}
		}
		if t.Z < proj.MaxZoom {
			for _, ch := range t.Children() {
				set[ch] = struct{}{}
			}
		}
	}
	return set
}
