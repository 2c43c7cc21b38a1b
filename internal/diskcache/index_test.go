package diskcache

import (
	"testing"

	"github.com/nyxmaps/mercator/internal/proj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tc(x, y, z int) proj.TileCoord { return proj.TileCoord{X: x, Y: y, Z: z} }

func TestSelectEvictionsMinimumPrefix(t *testing.T) {
	idx := New(1000)
	idx.AddEntry(Entry{Coord: tc(0, 0, 1), FilePath: "a", SizeBytes: 400, LastAccessTime: 1})
	idx.AddEntry(Entry{Coord: tc(1, 0, 1), FilePath: "b", SizeBytes: 400, LastAccessTime: 2})
	idx.AddEntry(Entry{Coord: tc(2, 0, 1), FilePath: "c", SizeBytes: 100, LastAccessTime: 3})

	// total=900, adding 300 would be 1200 > 1000; need to free >=200.
	victims := idx.SelectEvictions(300)
	require.Len(t, victims, 1)
	assert.Equal(t, tc(0, 0, 1), victims[0].Coord) // oldest first
}

func TestDiskBudgetInvariantAfterEviction(t *testing.T) {
	idx := New(1000)
	idx.AddEntry(Entry{Coord: tc(0, 0, 1), SizeBytes: 400, LastAccessTime: 1})
	idx.AddEntry(Entry{Coord: tc(1, 0, 1), SizeBytes: 400, LastAccessTime: 2})

	newEntry := Entry{Coord: tc(2, 0, 1), SizeBytes: 500, LastAccessTime: 3}
	victims := idx.SelectEvictions(newEntry.SizeBytes)
	idx.RemoveEntries(victims)
	idx.AddEntry(newEntry)

	assert.LessOrEqual(t, idx.TotalBytes(), idx.MaxSizeBytes)
}

func TestSelectEvictionsNoneNeeded(t *testing.T) {
	idx := New(1000)
	idx.AddEntry(Entry{Coord: tc(0, 0, 1), SizeBytes: 100, LastAccessTime: 1})
	assert.Empty(t, idx.SelectEvictions(50))
}

func TestTouchEntryMovesToMostRecent(t *testing.T) {
	idx := New(10_000)
	a, b := tc(0, 0, 1), tc(1, 0, 1)
	idx.AddEntry(Entry{Coord: a, SizeBytes: 1, LastAccessTime: 1})
	idx.AddEntry(Entry{Coord: b, SizeBytes: 1, LastAccessTime: 2})

	idx.TouchEntry(a, 100)
	victims := idx.SelectEvictions(9_999) // total 2 + 9_999 exceeds 10_000 by 1 byte, so only the oldest entry is selected
	// after touching a, b is now the oldest.
	require.NotEmpty(t, victims)
	assert.Equal(t, b, victims[0].Coord)
}

func TestTilePathLayout(t *testing.T) {
	p := TilePath("/cache", "carto", tc(1234, 5678, 12))
	assert.Equal(t, "/cache/carto/12/1234/5678.png", p)
}
