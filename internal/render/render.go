// Package render implements the two-pass tile walker of spec §4.J: a
// background pass of blown-up Loaded parent tiles to paper over gaps
// during zoom/pan, and a foreground pass drawing each visible tile or
// falling back to the nearest Loaded ancestor's sub-region. Grounded on
// the teacher's drawTiles walk in map.go (fetch-or-draw-fallback per
// visible tile), generalized to the spec's fractional display_zoom and
// explicit parent-fallback search.
package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nyxmaps/mercator/internal/collab"
	"github.com/nyxmaps/mercator/internal/proj"
	"github.com/nyxmaps/mercator/internal/tilecache"
	"github.com/nyxmaps/mercator/internal/viewport"
)

// MaxFallbackLevels bounds find_parent_fallback's ancestor walk (spec
// §4.J: "max_levels=3").
const MaxFallbackLevels = 3

// Draw runs both passes against screen for the current viewport at
// displayZoom (the zoom animator's fractional value; equals
// float64(v.Zoom) when no animation is running).
func Draw(screen *ebiten.Image, v viewport.Viewport, displayZoom float64, cache *tilecache.Cache) {
	visible := v.VisibleTilesWithBuffer(0)
	drawBackgroundPass(screen, v, displayZoom, cache, visible)
	drawForegroundPass(screen, v, displayZoom, cache, visible)
}

// drawBackgroundPass implements pass 1: every Loaded parent of a visible
// tile is drawn at double its natural display size, centered on its
// natural position, to visually cover the seams a fast pan or zoom can
// momentarily expose.
func drawBackgroundPass(screen *ebiten.Image, v viewport.Viewport, displayZoom float64, cache *tilecache.Cache, visible []proj.TileCoord) {
	seen := make(map[proj.TileCoord]struct{})
	for _, t := range visible {
		if t.Z == 0 {
			continue
		}
		p := t.Parent()
		if _, done := seen[p]; done {
			continue
		}
		seen[p] = struct{}{}

		st, ok := cache.Get(p)
		if !ok || st.Tag != tilecache.Loaded {
			continue
		}

		x0, y0, size0 := tileDestRect(v, p, displayZoom)
		size := size0 * 2
		x := x0 - size0/2
		y := y0 - size0/2
		collab.DrawTexturedQuad(screen, st.Texture, 0, 0, 0, 0, x, y, size, size, 1.0)
	}
}

// drawForegroundPass implements pass 2: draw each visible tile directly
// if Loaded, otherwise fall back to the nearest Loaded ancestor's
// sub-region.
func drawForegroundPass(screen *ebiten.Image, v viewport.Viewport, displayZoom float64, cache *tilecache.Cache, visible []proj.TileCoord) {
	for _, t := range visible {
		x, y, size := tileDestRect(v, t, displayZoom)

		if st, ok := cache.Get(t); ok && st.Tag == tilecache.Loaded {
			collab.DrawTexturedQuad(screen, st.Texture, 0, 0, 0, 0, x, y, size, size, 1.0)
			continue
		}

		ancestor, depth, found := findParentFallback(cache, t, MaxFallbackLevels)
		if !found {
			continue
		}
		st, _ := cache.Get(ancestor)
		drawFallback(screen, st.Texture, t, ancestor, depth, x, y, size)
	}
}

// findParentFallback implements spec §4.J find_parent_fallback(coord,
// max_levels): walks up parents from coord until a Loaded ancestor is
// found at distance <= maxLevels, returning it and the distance walked.
func findParentFallback(cache *tilecache.Cache, coord proj.TileCoord, maxLevels int) (ancestor proj.TileCoord, depth int, found bool) {
	cur := coord
	for d := 1; d <= maxLevels && cur.Z > 0; d++ {
		cur = cur.Parent()
		if st, ok := cache.Get(cur); ok && st.Tag == tilecache.Loaded {
			return cur, d, true
		}
	}
	return proj.TileCoord{}, 0, false
}

// drawFallback draws the sub-region of ancestor's texture corresponding
// to target's position within it (spec §4.J: sub-region
// (offset_x, offset_y, 1/2^d, 1/2^d) in source UV, scaled to target's
// destination rectangle).
func drawFallback(screen *ebiten.Image, tex collab.Texture, target, ancestor proj.TileCoord, depth int, dstX, dstY, dstSize float64) {
	scale := 1 << uint(depth)
	offsetX := float64(target.X-ancestor.X*scale) / float64(scale)
	offsetY := float64(target.Y-ancestor.Y*scale) / float64(scale)

	texW, texH := collab.TextureSize(tex)
	srcW := float64(texW) / float64(scale)
	srcH := float64(texH) / float64(scale)
	srcX := offsetX * float64(texW)
	srcY := offsetY * float64(texH)

	collab.DrawTexturedQuad(screen, tex, srcX, srcY, srcW, srcH, dstX, dstY, dstSize, dstSize, 1.0)
}

// tileDestRect returns coord's top-left screen position and square
// side length when rendered at zf, derived the same way
// Viewport.GeoToScreenAtZoom positions a geographic point: coord's
// corner expressed in display-zoom tile units, relative to the
// viewport's own fractional center tile.
func tileDestRect(v viewport.Viewport, coord proj.TileCoord, zf float64) (x, y, size float64) {
	ctx, cty := proj.GeoToTileFrac(v.CenterLat, v.CenterLon, zf)
	scale := math.Exp2(zf - float64(coord.Z))
	size = float64(v.TileSize) * scale
	topLeftX := float64(coord.X) * scale
	topLeftY := float64(coord.Y) * scale
	x = float64(v.ScreenW)/2 + (topLeftX-ctx)*float64(v.TileSize)
	y = float64(v.ScreenH)/2 + (topLeftY-cty)*float64(v.TileSize)
	return x, y, size
}
