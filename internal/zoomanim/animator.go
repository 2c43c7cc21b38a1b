// Package zoomanim implements the smooth zoom-animation controller of
// spec §4.G: it advances a fractional displayed zoom toward an integer
// target each frame while preserving the anchor-point screen invariant.
//
// Grounded on phanxgames-willow's Camera.ScrollTo/update (camera.go),
// which drives a tanema/gween tween toward a target and re-derives
// camera state every step; this package reuses that "configured easing
// function drives the interpolation" shape for the zoom axis instead of
// camera position, and adds the anchor re-centering math spec §4.G
// requires that a plain position tween does not need.
package zoomanim

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/nyxmaps/mercator/internal/proj"
	"github.com/nyxmaps/mercator/internal/viewport"
)

// Config holds the animator's tunables (spec §6.4 defaults).
type Config struct {
	LerpFactor    float64
	SnapThreshold float64
	// Ease optionally shapes the interpolation (spec §4.G: "optionally
	// shaped through the configured easing in [0,1]"). Nil falls back
	// to the plain exponential lerp the spec gives as the default.
	Ease ease.TweenFunc
}

// DefaultConfig returns the §6.4 defaults with no easing configured.
func DefaultConfig() Config {
	return Config{LerpFactor: 0.15, SnapThreshold: 0.01}
}

// Animator is the MapState zoom-animation sub-state of spec §3.
type Animator struct {
	Config Config

	// MinZoom, MaxZoom are the configurable zoom_range half of
	// map_bounds (spec §4.H) that every target zoom is clamped to.
	MinZoom, MaxZoom int

	TargetZoom    int
	DisplayZoom   float64
	AnchorLat     float64
	AnchorLon     float64
	AnchorScreenX float64
	AnchorScreenY float64
	IsAnimating   bool

	tween    *gween.Tween
	duration float32
}

// New creates an Animator starting at (and not animating from) zoom z,
// with targets clamped to [minZoom, maxZoom].
func New(cfg Config, z, minZoom, maxZoom int) *Animator {
	return &Animator{Config: cfg, MinZoom: minZoom, MaxZoom: maxZoom, TargetZoom: z, DisplayZoom: float64(z)}
}

// Begin starts an animation toward targetZoom, capturing the anchor
// point and its current screen position (spec §4.H scroll handling:
// "capture cursor screen position and its current geographic
// projection as the anchor"). durationSeconds is only consulted when
// Config.Ease is set; the plain-lerp path is duration-free by design.
func (a *Animator) Begin(targetZoom int, anchorLat, anchorLon, anchorScreenX, anchorScreenY float64, durationSeconds float32) {
	a.TargetZoom = a.clampZoom(targetZoom)
	a.AnchorLat = anchorLat
	a.AnchorLon = anchorLon
	a.AnchorScreenX = anchorScreenX
	a.AnchorScreenY = anchorScreenY
	a.IsAnimating = true

	a.duration = durationSeconds
	if a.Config.Ease != nil {
		a.tween = gween.New(float32(a.DisplayZoom), float32(a.TargetZoom), durationSeconds, a.Config.Ease)
	} else {
		a.tween = nil
	}
}

// Retarget adjusts an already-running animation's target without
// recapturing the anchor, used when a second scroll event arrives
// before the first animation settles (spec §4.H: "If not already
// animating, capture..." implies a running animation keeps its anchor).
func (a *Animator) Retarget(targetZoom int) {
	a.TargetZoom = a.clampZoom(targetZoom)
	if a.Config.Ease != nil {
		a.tween = gween.New(float32(a.DisplayZoom), float32(a.TargetZoom), a.duration, a.Config.Ease)
	}
}

// Step advances the animation by one frame (dtSeconds only matters when
// an Ease function is configured) and writes the resulting center back
// into v. Implements spec §4.G exactly: snap-or-lerp, then
// center_for_anchor.
func (a *Animator) Step(dtSeconds float32, v *viewport.Viewport) {
	if !a.IsAnimating {
		return
	}

	targetF := float64(a.TargetZoom)
	if math.Abs(targetF-a.DisplayZoom) < a.Config.SnapThreshold {
		a.DisplayZoom = targetF
		a.IsAnimating = false
		a.tween = nil
		v.SetZoom(a.TargetZoom)
		a.recenter(v)
		return
	}

	if a.tween != nil {
		val, done := a.tween.Update(dtSeconds)
		a.DisplayZoom = float64(val)
		if done {
			a.IsAnimating = false
			a.tween = nil
		}
	} else {
		a.DisplayZoom += (targetF - a.DisplayZoom) * a.Config.LerpFactor
	}

	v.SetZoom(a.clampZoom(int(math.Floor(a.DisplayZoom))))
	a.recenter(v)
}

// recenter implements spec §4.G's center_for_anchor formula: recomputes
// the viewport center so the anchor's geographic point still renders at
// AnchorScreenX/Y under the current DisplayZoom.
func (a *Animator) recenter(v *viewport.Viewport) {
	atx, aty := proj.GeoToTileFrac(a.AnchorLat, a.AnchorLon, a.DisplayZoom)
	dtx := (a.AnchorScreenX - float64(v.ScreenW)/2) / float64(v.TileSize)
	dty := (a.AnchorScreenY - float64(v.ScreenH)/2) / float64(v.TileSize)
	lat, lon := proj.TileFracToGeo(atx-dtx, aty-dty, a.DisplayZoom)
	v.SetCenter(lat, lon)
}

// ScreenOf returns the screen position (lat,lon) would render at given
// the animator's current DisplayZoom — used by the anchor-fixity
// property test and available to renderers that want sub-integer zoom.
func (a *Animator) ScreenOf(v viewport.Viewport, lat, lon float64) (x, y float64) {
	return v.GeoToScreenAtZoom(lat, lon, a.DisplayZoom)
}

func (a *Animator) clampZoom(z int) int {
	if z < a.MinZoom {
		return a.MinZoom
	}
	if z > a.MaxZoom {
		return a.MaxZoom
	}
	return z
}
