// Package mapstate aggregates the engine's per-run state (spec §3
// MapState): the viewport, tile cache, active-task registry, disk
// cache index (owned by the fetch engine), frame counter, drag state,
// zoom-animation state, initial view, cursor position, and pan
// velocity. It owns its components outright — there is no cyclic state
// (spec §9).
package mapstate

import (
	"github.com/nyxmaps/mercator/internal/diskcache"
	"github.com/nyxmaps/mercator/internal/fetch"
	"github.com/nyxmaps/mercator/internal/provider"
	"github.com/nyxmaps/mercator/internal/retry"
	"github.com/nyxmaps/mercator/internal/tilecache"
	"github.com/nyxmaps/mercator/internal/viewport"
	"github.com/nyxmaps/mercator/internal/zoomanim"
)

// Bounds is the rectangular geographic region plus zoom range that all
// input mutations are clamped to (spec §4.H "map_bounds").
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
	MinZoom, MaxZoom int
}

// DefaultBounds spans the whole representable Mercator range and the
// full zoom range of proj.MaxZoom.
func DefaultBounds() Bounds {
	return Bounds{MinLat: -85, MaxLat: 85, MinLon: -180, MaxLon: 180, MinZoom: 0, MaxZoom: 19}
}

// DragState tracks an in-progress left-button drag (spec §4.H). Start*
// fields anchor the cumulative pixel->degree translation to the drag's
// first frame; Prev* track the previous frame's cursor position so
// velocity can be smoothed from a per-frame sample instead of the
// cumulative delta.
type DragState struct {
	Active       bool
	StartScreenX float64
	StartScreenY float64
	StartLat     float64
	StartLon     float64
	PrevScreenX  float64
	PrevScreenY  float64
}

// Velocity is the smoothed pan velocity used for prefetch (spec §4.H/§4.I).
type Velocity struct {
	VX, VY float64
}

// InitialView is the Home-reset target (spec §4.H "Home resets to
// initial_{lat,lon,zoom}").
type InitialView struct {
	Lat, Lon float64
	Zoom     int
}

// State is the full MapState aggregate of spec §3.
type State struct {
	Viewport viewport.Viewport
	Cache    *tilecache.Cache
	Tasks    *fetch.Registry
	Engine   *fetch.Engine
	Provider provider.Provider

	Bounds  Bounds
	Initial InitialView

	Frame              uint64 // τ, the orchestrator's monotonic frame counter
	LastZoomChangeFrame uint64

	Drag     DragState
	Velocity Velocity
	Zoom     *zoomanim.Animator

	CursorLat, CursorLon float64
	CursorOnMap          bool

	MaxDiskBytes int64
}

// New builds a fresh MapState for the given initial view, geographic
// bounds/zoom range, screen size, and fetch engine (already wired to a
// provider and disk cache index).
func New(initial InitialView, bounds Bounds, screenW, screenH, tileSize int, engine *fetch.Engine, p provider.Provider, retryCfg retry.Config, unloadCfg tilecache.UnloadConfig, zoomCfg zoomanim.Config, maxDiskBytes int64) *State {
	vp := viewport.New(initial.Lat, initial.Lon, initial.Zoom, screenW, screenH, tileSize, bounds.MinZoom, bounds.MaxZoom)
	return &State{
		Viewport:     vp,
		Cache:        tilecache.New(retryCfg, unloadCfg),
		Tasks:        fetch.NewRegistry(),
		Engine:       engine,
		Provider:     p,
		Bounds:       bounds,
		Initial:      initial,
		Zoom:         zoomanim.New(zoomCfg, vp.Zoom, bounds.MinZoom, bounds.MaxZoom),
		MaxDiskBytes: maxDiskBytes,
	}
}

// ResetHome restores the viewport to the initial view and clears any
// running zoom animation (spec §4.H "Home resets to initial_{lat,lon,zoom}").
func (s *State) ResetHome() {
	s.Viewport.SetCenter(s.Initial.Lat, s.Initial.Lon)
	s.Viewport.SetZoom(s.Initial.Zoom)
	s.Zoom.IsAnimating = false
	s.Zoom.DisplayZoom = float64(s.Viewport.Zoom)
	s.Zoom.TargetZoom = s.Viewport.Zoom
}

// ClampToBounds clamps the viewport center into s.Bounds' rectangle
// (spec §4.H: "All mutations are clamped to map_bounds").
func (s *State) ClampToBounds() {
	lat := s.Viewport.CenterLat
	lon := s.Viewport.CenterLon
	if lat < s.Bounds.MinLat {
		lat = s.Bounds.MinLat
	}
	if lat > s.Bounds.MaxLat {
		lat = s.Bounds.MaxLat
	}
	if lon < s.Bounds.MinLon {
		lon = s.Bounds.MinLon
	}
	if lon > s.Bounds.MaxLon {
		lon = s.Bounds.MaxLon
	}
	s.Viewport.SetCenter(lat, lon)
}

// SwitchProvider implements spec §3's "Provider change clears the cache
// wholesale" and SPEC_FULL.md's open-question decision #2: the tile
// cache, active-task registry, and disk index are all reset to a fresh
// namespace for the new provider, but LastZoomChangeFrame and Velocity
// are deliberately left untouched (§9 open question).
func (s *State) SwitchProvider(p provider.Provider) {
	s.Provider = p
	s.Cache.Clear()
	for _, c := range s.Tasks.Coords() {
		s.Tasks.Cancel(c)
	}
	s.Engine.SetProvider(p, diskcache.New(s.MaxDiskBytes))
}
