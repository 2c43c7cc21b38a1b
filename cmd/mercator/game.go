package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/nyxmaps/mercator/internal/collab"
	"github.com/nyxmaps/mercator/internal/config"
	"github.com/nyxmaps/mercator/internal/fetch"
	"github.com/nyxmaps/mercator/internal/input"
	"github.com/nyxmaps/mercator/internal/mapstate"
	"github.com/nyxmaps/mercator/internal/orchestrator"
	"github.com/nyxmaps/mercator/internal/provider"
	"github.com/nyxmaps/mercator/internal/render"
)

// Game implements ebiten.Game (Update/Draw/Layout), wiring the input
// mapper, update orchestrator, and render walker around a MapState.
// Grounded on the teacher's Goliath struct and its Update/Draw/Layout
// methods in main.go, generalized from the teacher's layered
// vector-editing state machine down to the spec's plain tile viewer.
type Game struct {
	state      *mapstate.State
	input      *input.Mapper
	orch       orchestrator.Config
	cfg        config.Config
	registry   []provider.Provider
	providerAt int
	debug      bool
}

// NewGame builds a Game from resolved configuration and an initial
// provider, rescanning the disk cache directory for orphaned tile
// files left over from a previous run (SPEC_FULL.md supplement).
func NewGame(cfg config.Config, p provider.Provider) *Game {
	engine := fetch.NewEngine(p, cfg.CacheDir, cfg.DiskMaxBytes)
	engine.Client.Timeout = config.GenerationTimeout

	if err := engine.RescanDiskCache(cfg.CacheDir, p.TilesetName, collab.NowMS()); err != nil {
		log.Printf("mercator: disk cache rescan failed: %v", err)
	}

	s := mapstate.New(
		cfg.InitialView(), cfg.Bounds, cfg.ScreenWidth, cfg.ScreenHeight, cfg.TileSize,
		engine, p,
		cfg.Retry, cfg.Unload, cfg.Zoom,
		cfg.DiskMaxBytes,
	)

	registry := provider.Registry()
	providerAt := 0
	for i, rp := range registry {
		if rp.Name == p.Name {
			providerAt = i
			break
		}
	}

	return &Game{
		state:      s,
		input:      input.New(cfg.Input),
		orch:       cfg.Orchestrator,
		cfg:        cfg,
		registry:   registry,
		providerAt: providerAt,
	}
}

// Run opens the window and starts the ebiten game loop.
func (g *Game) Run() error {
	ebiten.SetWindowSize(g.cfg.ScreenWidth, g.cfg.ScreenHeight)
	ebiten.SetWindowTitle("Mercator")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

func (g *Game) Update() error {
	mx, my := ebiten.CursorPosition()
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	g.input.Drag(g.state, mx, my, left)

	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		g.input.Scroll(g.state, wheelY, mx, my)
	}

	g.handleKeyboard()

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.cycleProvider()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}

	g.state.Zoom.Step(1.0/60.0, &g.state.Viewport)
	orchestrator.Step(g.state, g.orch)
	return nil
}

func (g *Game) handleKeyboard() {
	type binding struct {
		key ebiten.Key
		out input.Key
		// held means the mapping applies every frame the key is down
		// (arrow panning, per the teacher's continuous-hold feel);
		// otherwise it only fires once per physical press.
		held bool
	}
	bindings := []binding{
		{ebiten.KeyLeft, input.KeyArrowLeft, true},
		{ebiten.KeyRight, input.KeyArrowRight, true},
		{ebiten.KeyUp, input.KeyArrowUp, true},
		{ebiten.KeyDown, input.KeyArrowDown, true},
		{ebiten.KeyEqual, input.KeyZoomIn, false},
		{ebiten.KeyKPAdd, input.KeyZoomIn, false},
		{ebiten.KeyMinus, input.KeyZoomOut, false},
		{ebiten.KeyKPSubtract, input.KeyZoomOut, false},
		{ebiten.KeyHome, input.KeyHome, false},
		{ebiten.Key0, input.KeyDigit0, false},
		{ebiten.Key1, input.KeyDigit1, false},
		{ebiten.Key2, input.KeyDigit2, false},
		{ebiten.Key3, input.KeyDigit3, false},
		{ebiten.Key4, input.KeyDigit4, false},
		{ebiten.Key5, input.KeyDigit5, false},
		{ebiten.Key6, input.KeyDigit6, false},
		{ebiten.Key7, input.KeyDigit7, false},
		{ebiten.Key8, input.KeyDigit8, false},
		{ebiten.Key9, input.KeyDigit9, false},
	}
	for _, b := range bindings {
		if b.held {
			if ebiten.IsKeyPressed(b.key) {
				g.input.Keyboard(g.state, b.out)
			}
			continue
		}
		if inpututil.IsKeyJustPressed(b.key) {
			g.input.Keyboard(g.state, b.out)
		}
	}
}

func (g *Game) cycleProvider() {
	g.providerAt = (g.providerAt + 1) % len(g.registry)
	next := g.registry[g.providerAt]
	g.state.SwitchProvider(next)
	if err := g.state.Engine.RescanDiskCache(g.cfg.CacheDir, next.TilesetName, collab.NowMS()); err != nil {
		log.Printf("mercator: disk cache rescan for %s failed: %v", next.Name, err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 20, G: 20, B: 24, A: 255})
	render.Draw(screen, g.state.Viewport, g.state.Zoom.DisplayZoom, g.state.Cache)

	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"provider=%s zoom=%d display_zoom=%.2f center=%.4f,%.4f tasks=%d cached=%d frame=%d",
			g.state.Provider.Name, g.state.Viewport.Zoom, g.state.Zoom.DisplayZoom,
			g.state.Viewport.CenterLat, g.state.Viewport.CenterLon,
			g.state.Tasks.Len(), g.state.Cache.Len(), g.state.Frame,
		))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.state.Viewport.ScreenW != outsideWidth || g.state.Viewport.ScreenH != outsideHeight {
		g.state.Viewport.ScreenW = outsideWidth
		g.state.Viewport.ScreenH = outsideHeight
	}
	return outsideWidth, outsideHeight
}
