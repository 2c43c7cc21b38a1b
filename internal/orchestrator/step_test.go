package orchestrator

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nyxmaps/mercator/internal/fetch"
	"github.com/nyxmaps/mercator/internal/mapstate"
	"github.com/nyxmaps/mercator/internal/provider"
	"github.com/nyxmaps/mercator/internal/retry"
	"github.com/nyxmaps/mercator/internal/tilecache"
	"github.com/nyxmaps/mercator/internal/zoomanim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestState(t *testing.T, srv *httptest.Server) *mapstate.State {
	t.Helper()
	p := provider.Provider{
		Name: "test", TilesetName: "test",
		URLTemplate: srv.URL + "/{z}/{x}/{y}.png",
		MaxZoom:     19,
	}
	engine := fetch.NewEngine(p, t.TempDir(), 10*1024*1024)
	return mapstate.New(
		mapstate.InitialView{Lat: 10, Lon: 20, Zoom: 8},
		mapstate.DefaultBounds(),
		640, 480, 256,
		engine, p,
		retry.DefaultConfig(), tilecache.DefaultUnloadConfig(), zoomanim.DefaultConfig(),
		10*1024*1024,
	)
}

func TestStepFetchesAndLoadsVisibleTiles(t *testing.T) {
	body := fakePNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	s := newTestState(t, srv)
	cfg := DefaultConfig()

	Step(s, cfg) // spawns fetches
	require.Greater(t, s.Tasks.Len(), 0, "should have spawned at least one fetch")

	deadline := time.Now().Add(2 * time.Second)
	loaded := 0
	for time.Now().Before(deadline) && loaded == 0 {
		Step(s, cfg) // drains results as they arrive
		for _, tile := range s.Viewport.VisibleTilesWithBuffer(0) {
			if st, ok := s.Cache.Get(tile); ok && st.Tag == tilecache.Loaded {
				loaded++
			}
		}
		if loaded == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
	assert.Greater(t, loaded, 0, "at least one visible tile should become Loaded")
}

func TestStepDebounceGateSuppressesNewFetchesDuringAnimation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(fakePNG(t))
	}))
	defer srv.Close()

	s := newTestState(t, srv)
	cfg := DefaultConfig()
	s.Frame = 100
	s.LastZoomChangeFrame = 99 // within the debounce window
	s.Zoom.IsAnimating = true

	Step(s, cfg)
	assert.Equal(t, 0, s.Tasks.Len(), "no fetches should spawn inside the debounce window while animating")
}

func TestComputeKeepSetIncludesParentsOfVisible(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(fakePNG(t))
	}))
	defer srv.Close()
	s := newTestState(t, srv)

	keep := computeKeepSet(s.Viewport, s.Cache, DefaultConfig().BufferTiles)
	for _, vtile := range s.Viewport.VisibleTilesWithBuffer(DefaultConfig().BufferTiles) {
		if vtile.Z == 0 {
			continue
		}
		_, ok := keep[vtile.Parent()]
		assert.True(t, ok, "keep set must include parent of every visible tile")
	}
}
