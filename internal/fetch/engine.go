// Package fetch implements the asynchronous fetch/decode tasks of spec
// §4.F: disk-first then HTTP, PNG decode off the main thread, and
// delivery through a result queue a cancel flag can short-circuit at
// any checkpoint. Grounded on the teacher's fetchAndCacheTile
// (tilemap/map.go) and downloadTileImage (map.go), generalized to the
// full six-state tile lifecycle and the on-disk LRU budget of §4.E.
package fetch

import (
	"net/http"
	"sync"

	"github.com/nyxmaps/mercator/internal/diskcache"
	"github.com/nyxmaps/mercator/internal/proj"
	"github.com/nyxmaps/mercator/internal/provider"
)

// Engine owns the collaborators a fetch task needs: the HTTP client,
// the provider (URL template), and the disk cache index. It never
// touches MapState/TileCache directly (spec §5).
type Engine struct {
	Provider  provider.Provider
	CacheDir  string
	Client    *http.Client
	UserAgent string
	Results   *ResultQueue

	diskMu    sync.Mutex // the "atomic modify-and-get primitive" of spec §5
	DiskIndex *diskcache.Index
}

// NewEngine wires an Engine for the given provider/cache directory/byte
// budget. UserAgent starts as a default identifying string.
func NewEngine(p provider.Provider, cacheDir string, maxDiskBytes int64) *Engine {
	return &Engine{
		Provider:  p,
		CacheDir:  cacheDir,
		Client:    &http.Client{},
		UserAgent: "mercator-tileviewer/1.0",
		Results:   NewResultQueue(),
		DiskIndex: diskcache.New(maxDiskBytes),
	}
}

// SetProvider swaps the active provider (and thus tileset/cache
// namespace). Callers are responsible for clearing the TileCache and
// starting a fresh disk index per spec §3 "Provider change clears the
// cache wholesale"; this just updates what new fetches target.
func (e *Engine) SetProvider(p provider.Provider, freshIndex *diskcache.Index) {
	e.diskMu.Lock()
	defer e.diskMu.Unlock()
	e.Provider = p
	e.DiskIndex = freshIndex
}

// RescanDiskCache rescans cacheDir/tilesetName into the engine's current
// disk index under diskMu, so callers never touch DiskIndex directly
// from outside the engine (SPEC_FULL.md's orphan-rescan supplement,
// used both at startup and after a provider switch).
func (e *Engine) RescanDiskCache(cacheDir, tilesetName string, nowMS uint64) error {
	e.diskMu.Lock()
	defer e.diskMu.Unlock()
	return e.DiskIndex.RescanDir(cacheDir, tilesetName, nowMS)
}

// SpawnFetch implements spec §4.F spawn_fetch(coord, cancel_flag,
// was_retry): launches the task on its own goroutine. Ebitengine's
// goroutine-safe image upload path lets decode happen off the main
// thread; the render loop only ever touches results pulled from the
// queue.
func (e *Engine) SpawnFetch(coord proj.TileCoord, cancel CancelFlag, wasRetry bool) {
	go e.fetch(coord, cancel, wasRetry)
}

// SpawnDecode implements spec §4.F spawn_decode(coord, bytes,
// cancel_flag): steps 6-8 only (decode, cancel-after-decode cleanup,
// push), used to re-decode a Cached tile's retained bytes when it
// re-enters the visible set.
func (e *Engine) SpawnDecode(coord proj.TileCoord, data []byte, cancel CancelFlag) {
	go e.decode(coord, data, cancel, false)
}
