package fetch

import (
	"log"

	"github.com/nyxmaps/mercator/internal/collab"
	"github.com/nyxmaps/mercator/internal/diskcache"
	"github.com/nyxmaps/mercator/internal/proj"
)

// fetch implements the full spec §4.F algorithm, steps 1-8.
func (e *Engine) fetch(coord proj.TileCoord, cancel CancelFlag, wasRetry bool) {
	// Step 1: checkpoint before starting.
	if cancel.Load() {
		return
	}

	path := diskcache.TilePath(e.CacheDir, e.Provider.TilesetName, coord)
	var data []byte
	fromDisk := false

	if collab.FileExists(path) {
		if b, err := collab.ReadFile(path); err == nil {
			data = b
			fromDisk = true
			e.diskMu.Lock()
			e.DiskIndex.TouchEntry(coord, collab.NowMS())
			e.diskMu.Unlock()
		}
		// Read error: fall through to network, matching spec step 2.
	}

	// Step 3 (checkpoint before HTTP if disk missed).
	if !fromDisk {
		if cancel.Load() {
			return
		}
		b, err := collab.HTTPGetBinary(e.Client, e.Provider.URLFor(coord), e.UserAgent)
		if err != nil {
			if cancel.Load() {
				return
			}
			e.Results.Push(Result{Coord: coord, Err: err, WasRetry: wasRetry})
			return
		}
		data = b
	}

	// Step 4: drop silently if cancelled after I/O, before any more work.
	if cancel.Load() {
		return
	}

	// Step 5: persist freshly-fetched bytes to disk, respecting the
	// byte budget. Tiles served from disk are already on disk.
	if !fromDisk {
		e.writeToDisk(coord, path, data)
	}

	e.decode(coord, data, cancel, wasRetry)
}

// decode implements spec §4.F steps 6-8 (and is SpawnDecode's body in
// full): decode to texture, destroy-on-cancel, push result.
func (e *Engine) decode(coord proj.TileCoord, data []byte, cancel CancelFlag, wasRetry bool) {
	if cancel.Load() {
		return
	}

	tex, err := collab.DecodeTexture(data)
	if err != nil {
		if cancel.Load() {
			return
		}
		e.Results.Push(Result{Coord: coord, Err: err, WasRetry: wasRetry})
		return
	}

	// Step 7: cancellation observed after a successful decode must
	// destroy the texture before returning — no GPU leak.
	if cancel.Load() {
		collab.DestroyTexture(tex)
		return
	}

	e.Results.Push(Result{Coord: coord, Texture: tex, Bytes: data, WasRetry: wasRetry})
}

// writeToDisk implements spec §4.F step 5: write the file first; only
// once the write has actually succeeded does it select evictions
// against the byte budget, atomically remove them from the index and
// add the new entry, then fire-and-forget delete the evicted files.
// A write failure is logged and the index is left untouched — per
// spec §7 ("Disk-write failure: ... The disk index is not updated;
// next run will re-fetch"), not a new index entry for a file that was
// never written.
func (e *Engine) writeToDisk(coord proj.TileCoord, path string, data []byte) {
	if collab.FileExists(path) {
		return // spec step 5: "unless the file already exists"
	}

	if err := collab.WriteFile(path, data); err != nil {
		log.Printf("fetch: failed to write tile %v to %s: %v", coord, path, err)
		return
	}

	size := int64(len(data))

	e.diskMu.Lock()
	victims := e.DiskIndex.SelectEvictions(size)
	e.DiskIndex.RemoveEntries(victims)
	e.DiskIndex.AddEntry(diskcache.Entry{
		Coord:          coord,
		FilePath:       path,
		SizeBytes:      size,
		LastAccessTime: collab.NowMS(),
	})
	e.diskMu.Unlock()

	for _, v := range victims {
		go func(fp string) {
			if err := collab.DeleteFile(fp); err != nil {
				log.Printf("fetch: failed to delete evicted tile file %s: %v", fp, err)
			}
		}(v.FilePath)
	}
}
