package input

import "github.com/nyxmaps/mercator/internal/mapstate"

// Mapper applies one frame's input samples to a MapState, per spec §4.H.
type Mapper struct {
	Config Config
}

// New builds a Mapper with the given tunables.
func New(cfg Config) *Mapper {
	return &Mapper{Config: cfg}
}

// Drag implements the left-button-down branch of spec §4.H: on the
// first held frame it captures the drag anchor and seeds the velocity
// tracker; on each subsequent held frame it translates the cumulative
// pixel delta from the drag start into a degree delta via
// viewport.PixelsToDegrees and re-centers relative to the anchor, while
// smoothing the per-frame pixel delta into (vx, vy) with exponential
// smoothing (alpha = VelocitySmoothing). On release it geometrically
// decays the stored velocity by VelocityDecay per frame.
func (m *Mapper) Drag(s *mapstate.State, mouseX, mouseY int, leftDown bool) {
	mx, my := float64(mouseX), float64(mouseY)

	if !leftDown {
		if s.Drag.Active {
			s.Drag.Active = false
		}
		s.Velocity.VX *= m.Config.VelocityDecay
		s.Velocity.VY *= m.Config.VelocityDecay
		return
	}

	if !s.Drag.Active {
		s.Drag.Active = true
		s.Drag.StartScreenX = mx
		s.Drag.StartScreenY = my
		s.Drag.StartLat = s.Viewport.CenterLat
		s.Drag.StartLon = s.Viewport.CenterLon
		s.Drag.PrevScreenX = mx
		s.Drag.PrevScreenY = my
		return
	}

	totalDX := mx - s.Drag.StartScreenX
	totalDY := my - s.Drag.StartScreenY
	dLon, dLat := s.Viewport.PixelsToDegrees(totalDX, totalDY)
	s.Viewport.SetCenter(s.Drag.StartLat-dLat, s.Drag.StartLon-dLon)
	s.ClampToBounds()

	frameDX := mx - s.Drag.PrevScreenX
	frameDY := my - s.Drag.PrevScreenY
	alpha := m.Config.VelocitySmoothing
	s.Velocity.VX = alpha*s.Velocity.VX + (1-alpha)*frameDX
	s.Velocity.VY = alpha*s.Velocity.VY + (1-alpha)*frameDY
	s.Drag.PrevScreenX = mx
	s.Drag.PrevScreenY = my
}

// Scroll implements spec §4.H's scroll branch: wheelY's sign adjusts
// the zoom animator's target by one level, capturing the cursor's
// screen position and geographic projection as the anchor only if an
// animation isn't already running, and always stamping
// last_zoom_change_frame.
func (m *Mapper) Scroll(s *mapstate.State, wheelY float64, cursorX, cursorY int) {
	if wheelY == 0 {
		return
	}
	delta := 1
	if wheelY < 0 {
		delta = -1
	}
	target := s.Zoom.TargetZoom + delta

	cx, cy := float64(cursorX), float64(cursorY)
	if !s.Zoom.IsAnimating {
		lat, lon := s.Viewport.ScreenToGeo(cx, cy)
		s.Zoom.Begin(target, lat, lon, cx, cy, 0.3)
	} else {
		s.Zoom.Retarget(target)
	}
	s.LastZoomChangeFrame = s.Frame
}

// Keyboard implements spec §4.H's keyboard branch for a single keycode
// observed this frame. Arrow keys pan via pixels_to_degrees at
// KeyboardPanSpeed pixels; +/- zoom the viewport directly (centered, no
// anchor animation — spec: "no anchor animation"); digits jump to a
// zoom level; Home resets to the initial view.
func (m *Mapper) Keyboard(s *mapstate.State, key Key) {
	switch key {
	case KeyArrowLeft, KeyArrowRight, KeyArrowUp, KeyArrowDown:
		dx, dy := 0.0, 0.0
		switch key {
		case KeyArrowLeft:
			dx = -m.Config.KeyboardPanSpeed
		case KeyArrowRight:
			dx = m.Config.KeyboardPanSpeed
		case KeyArrowUp:
			dy = -m.Config.KeyboardPanSpeed
		case KeyArrowDown:
			dy = m.Config.KeyboardPanSpeed
		}
		dLon, dLat := s.Viewport.PixelsToDegrees(dx, dy)
		s.Viewport.SetCenter(s.Viewport.CenterLat+dLat, s.Viewport.CenterLon+dLon)
		s.ClampToBounds()
	case KeyZoomIn:
		s.Viewport.SetZoom(s.Viewport.Zoom + 1)
		s.Zoom.DisplayZoom = float64(s.Viewport.Zoom)
		s.Zoom.TargetZoom = s.Viewport.Zoom
		s.Zoom.IsAnimating = false
	case KeyZoomOut:
		s.Viewport.SetZoom(s.Viewport.Zoom - 1)
		s.Zoom.DisplayZoom = float64(s.Viewport.Zoom)
		s.Zoom.TargetZoom = s.Viewport.Zoom
		s.Zoom.IsAnimating = false
	case KeyHome:
		s.ResetHome()
	default:
		if z, ok := digitZoom(key); ok {
			s.Viewport.SetZoom(z)
			s.Zoom.DisplayZoom = float64(s.Viewport.Zoom)
			s.Zoom.TargetZoom = s.Viewport.Zoom
			s.Zoom.IsAnimating = false
		}
	}
}
