// Package viewport translates between screen pixels, geographic
// coordinates, and tile coordinates for the current view of the map.
package viewport

import (
	"math"

	"github.com/nyxmaps/mercator/internal/proj"
)

// Viewport is the camera onto the Mercator plane: spec §3.
type Viewport struct {
	CenterLat, CenterLon float64
	Zoom                 int
	ScreenW, ScreenH     int
	TileSize             int

	// MinZoom, MaxZoom are the configurable zoom_range half of map_bounds
	// (spec §4.H). SetZoom clamps to this range, not a hardcoded one.
	MinZoom, MaxZoom int
}

// New builds a Viewport with its center clamped/wrapped per §3 and its
// zoom clamped to [minZoom, maxZoom].
func New(lat, lon float64, zoom, screenW, screenH, tileSize, minZoom, maxZoom int) Viewport {
	v := Viewport{
		CenterLat: proj.ClampLat(lat),
		CenterLon: proj.WrapLon(lon),
		ScreenW:   screenW,
		ScreenH:   screenH,
		TileSize:  tileSize,
		MinZoom:   minZoom,
		MaxZoom:   maxZoom,
	}
	v.Zoom = clampZoom(zoom, v.MinZoom, v.MaxZoom)
	return v
}

func clampZoom(z, minZoom, maxZoom int) int {
	if z < minZoom {
		return minZoom
	}
	if z > maxZoom {
		return maxZoom
	}
	return z
}

// SetCenter sets the center, applying the lat/lon invariants of §3.
func (v *Viewport) SetCenter(lat, lon float64) {
	v.CenterLat = proj.ClampLat(lat)
	v.CenterLon = proj.WrapLon(lon)
}

// SetZoom sets the integer zoom, clamped to [v.MinZoom, v.MaxZoom].
func (v *Viewport) SetZoom(z int) {
	v.Zoom = clampZoom(z, v.MinZoom, v.MaxZoom)
}

// CenterTileFrac returns the fractional tile coordinate of the view center.
func (v Viewport) CenterTileFrac() (tx, ty float64) {
	return proj.GeoToTileFrac(v.CenterLat, v.CenterLon, float64(v.Zoom))
}

// PixelsToDegrees implements spec §4.B pixels_to_degrees: converts a
// screen-pixel delta to a geographic delta at the viewport's zoom. Per
// the documented open question (§9), the cosine factor is applied to
// both axes intentionally — this is drag-feel, not true Mercator scale.
func (v Viewport) PixelsToDegrees(dx, dy float64) (dLon, dLat float64) {
	n := math.Exp2(float64(v.Zoom))
	latRad := v.CenterLat * math.Pi / 180.0
	cosLat := math.Cos(latRad)
	dLon = dx * 360.0 / (n * float64(v.TileSize))
	dLat = dy * 360.0 * cosLat / (n * float64(v.TileSize))
	return dLon, dLat
}

// GeoToScreen projects a geographic point to screen pixels under the
// viewport's current center/zoom. Used by the zoom animator's anchor
// fixity check and by input handling.
func (v Viewport) GeoToScreen(lat, lon float64) (x, y float64) {
	return v.GeoToScreenAtZoom(lat, lon, float64(v.Zoom))
}

// GeoToScreenAtZoom is GeoToScreen parameterized over a fractional zoom,
// used by the zoom animator while display_zoom is between integers.
func (v Viewport) GeoToScreenAtZoom(lat, lon, zf float64) (x, y float64) {
	ctx, cty := proj.GeoToTileFrac(v.CenterLat, v.CenterLon, zf)
	tx, ty := proj.GeoToTileFrac(lat, lon, zf)
	x = float64(v.ScreenW)/2 + (tx-ctx)*float64(v.TileSize)
	y = float64(v.ScreenH)/2 + (ty-cty)*float64(v.TileSize)
	return x, y
}

// ScreenToGeo is the inverse of GeoToScreen at the viewport's integer zoom.
func (v Viewport) ScreenToGeo(x, y float64) (lat, lon float64) {
	return v.ScreenToGeoAtZoom(x, y, float64(v.Zoom))
}

// ScreenToGeoAtZoom is ScreenToGeo parameterized over a fractional zoom.
func (v Viewport) ScreenToGeoAtZoom(x, y, zf float64) (lat, lon float64) {
	ctx, cty := proj.GeoToTileFrac(v.CenterLat, v.CenterLon, zf)
	dtx := (x - float64(v.ScreenW)/2) / float64(v.TileSize)
	dty := (y - float64(v.ScreenH)/2) / float64(v.TileSize)
	return proj.TileFracToGeo(ctx+dtx, cty+dty, zf)
}
