package provider

import (
	"testing"

	"github.com/nyxmaps/mercator/internal/proj"
	"github.com/stretchr/testify/assert"
)

func TestDefaultProviderURLGeneration(t *testing.T) {
	// Spec §8 scenario 4: TileCoord(1234, 5678, 12), subdomain index
	// (1234+5678) mod 4 = 0 -> "a".
	p := DefaultProvider()
	c := proj.TileCoord{X: 1234, Y: 5678, Z: 12}
	got := p.URLFor(c)
	want := "https://a.basemaps.cartocdn.com/dark_all/12/1234/5678@2x.png"
	assert.Equal(t, want, got)
}

func TestSubdomainSelectionIsDeterministic(t *testing.T) {
	p := DefaultProvider()
	c := proj.TileCoord{X: 3, Y: 5, Z: 8}
	a := p.URLFor(c)
	b := p.URLFor(c)
	assert.Equal(t, a, b)
}

func TestQuadKeyEncoding(t *testing.T) {
	// z=1, tile (1,1): digit = 1(x bit) + 2(y bit) = 3
	got := QuadKey(proj.TileCoord{X: 1, Y: 1, Z: 1})
	assert.Equal(t, "3", got)
	got0 := QuadKey(proj.TileCoord{X: 0, Y: 0, Z: 1})
	assert.Equal(t, "0", got0)
}

func TestRegistryFind(t *testing.T) {
	p, ok := Find("OSM")
	assert.True(t, ok)
	assert.Equal(t, "osm", p.TilesetName)

	_, ok = Find("does-not-exist")
	assert.False(t, ok)
}
