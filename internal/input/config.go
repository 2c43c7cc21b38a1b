// Package input implements the input mapper of spec §4.H: drag panning
// with velocity smoothing, wheel-driven zoom animation targeting, and
// keyboard shortcuts. It takes already-polled input samples (cursor
// position, button/key state, wheel delta) rather than calling ebiten
// directly, so it can be exercised without a display — the cmd/mercator
// game loop is the only caller that touches the ebiten input API.
//
// Grounded on the teacher's Update-loop input handling (main.go:
// isPanningAction drag, mouse-wheel zoom around the cursor, arrow-key
// panning), generalized to MapState's drag velocity, the zoom
// animator's anchor capture, and the keyboard shortcuts SPEC_FULL.md's
// supplement adds (digit zoom-to-level, Home reset).
package input

// Config holds the input mapper's tunables (spec §6.4 defaults).
type Config struct {
	KeyboardPanSpeed  float64
	VelocitySmoothing float64
	VelocityDecay     float64
}

// DefaultConfig returns the §6.4 defaults.
func DefaultConfig() Config {
	return Config{KeyboardPanSpeed: 100, VelocitySmoothing: 0.8, VelocityDecay: 0.9}
}

// Key names the keyboard shortcuts the mapper recognizes, independent
// of ebiten's key constants so the package stays testable without one.
type Key int

const (
	KeyNone Key = iota
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyZoomIn  // '=' or '+'
	KeyZoomOut // '-'
	KeyHome
	KeyDigit0
	KeyDigit1
	KeyDigit2
	KeyDigit3
	KeyDigit4
	KeyDigit5
	KeyDigit6
	KeyDigit7
	KeyDigit8
	KeyDigit9
)

func digitZoom(k Key) (int, bool) {
	switch k {
	case KeyDigit1:
		return 1, true
	case KeyDigit2:
		return 2, true
	case KeyDigit3:
		return 3, true
	case KeyDigit4:
		return 4, true
	case KeyDigit5:
		return 5, true
	case KeyDigit6:
		return 6, true
	case KeyDigit7:
		return 7, true
	case KeyDigit8:
		return 8, true
	case KeyDigit9:
		return 9, true
	case KeyDigit0:
		return 10, true // spec §4.H: "0 sets zoom = 10"
	default:
		return 0, false
	}
}
