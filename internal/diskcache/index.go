// Package diskcache implements the in-memory LRU index of on-disk tile
// files (spec §4.E): eviction-victim selection against a byte budget,
// and the {cache_dir}/{tileset}/{z}/{x}/{y}.png file layout of §6.3.
package diskcache

import (
	"fmt"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/nyxmaps/mercator/internal/proj"
)

// Entry is one on-disk tile file tracked by the index (spec §3).
type Entry struct {
	Coord          proj.TileCoord
	FilePath       string
	SizeBytes      int64
	LastAccessTime uint64 // now_ms()
}

// Index is the disk cache's authority during a run (spec §4.E: "during
// a run it is the sole authority"). Not safe for concurrent use from
// multiple goroutines directly — callers serialize access through the
// atomic modify-and-get primitive described in spec §5 (see
// internal/fetch, which owns a mutex around Index operations).
type Index struct {
	entries      map[proj.TileCoord]Entry
	order        *lru.LRU[proj.TileCoord, struct{}]
	MaxSizeBytes int64
	totalBytes   int64
}

const indexLRUCapacity = 1 << 20

// New creates an empty Index with the given byte budget.
func New(maxSizeBytes int64) *Index {
	l, _ := lru.NewLRU[proj.TileCoord, struct{}](indexLRUCapacity, nil)
	return &Index{
		entries:      make(map[proj.TileCoord]Entry),
		order:        l,
		MaxSizeBytes: maxSizeBytes,
	}
}

// TotalBytes returns the sum of all tracked entries' sizes.
func (idx *Index) TotalBytes() int64 { return idx.totalBytes }

// Len returns the number of tracked entries.
func (idx *Index) Len() int { return len(idx.entries) }

// Get returns the entry for coord, if tracked.
func (idx *Index) Get(coord proj.TileCoord) (Entry, bool) {
	e, ok := idx.entries[coord]
	return e, ok
}

// SelectEvictions implements spec §4.E select_evictions(new_size): the
// minimum prefix of the LRU-sorted (ascending last_access_time) entries
// whose removal makes room for new_size within MaxSizeBytes.
func (idx *Index) SelectEvictions(newSize int64) []Entry {
	if idx.totalBytes+newSize <= idx.MaxSizeBytes {
		return nil
	}
	need := idx.totalBytes + newSize - idx.MaxSizeBytes

	var victims []Entry
	var freed int64
	for _, coord := range idx.order.Keys() { // oldest first
		if freed >= need {
			break
		}
		e := idx.entries[coord]
		victims = append(victims, e)
		freed += e.SizeBytes
	}
	return victims
}

// AddEntry implements spec §4.E add_entry: inserts or replaces an entry
// and updates the running byte total.
func (idx *Index) AddEntry(e Entry) {
	if old, ok := idx.entries[e.Coord]; ok {
		idx.totalBytes -= old.SizeBytes
	}
	idx.entries[e.Coord] = e
	idx.order.Add(e.Coord, struct{}{})
	idx.totalBytes += e.SizeBytes
}

// RemoveEntries implements spec §4.E remove_entries: drops the given
// entries from the index and its byte total. It does not delete the
// underlying files — callers do that as a fire-and-forget step (spec
// §4.F step 5).
func (idx *Index) RemoveEntries(victims []Entry) {
	for _, e := range victims {
		if cur, ok := idx.entries[e.Coord]; ok {
			idx.totalBytes -= cur.SizeBytes
			delete(idx.entries, e.Coord)
			idx.order.Remove(e.Coord)
		}
	}
}

// TouchEntry implements spec §4.E touch_entry: updates last_access_time
// and LRU order for an existing entry. No-op if coord isn't tracked.
func (idx *Index) TouchEntry(coord proj.TileCoord, nowMS uint64) {
	e, ok := idx.entries[coord]
	if !ok {
		return
	}
	e.LastAccessTime = nowMS
	idx.entries[coord] = e
	idx.order.Add(coord, struct{}{}) // re-adding moves it to most-recent
}

// TilePath implements the §6.3 layout:
// {cache_dir}/{tileset_name}/{z}/{x}/{y}.png
func TilePath(cacheDir, tilesetName string, c proj.TileCoord) string {
	return filepath.Join(cacheDir, tilesetName, fmt.Sprintf("%d", c.Z), fmt.Sprintf("%d", c.X), fmt.Sprintf("%d.png", c.Y))
}
