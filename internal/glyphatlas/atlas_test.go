package glyphatlas

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/fontprovider"
)

// countingRasterizer records how many times each rune was rasterized (at
// any size), so tests can assert the atlas actually avoided redundant work.
type countingRasterizer struct {
	calls map[rune]int
}

func (c *countingRasterizer) Rasterize(ch rune, pixelSize int) fontprovider.GlyphMetrics {
	if c.calls == nil {
		c.calls = make(map[rune]int)
	}
	c.calls[ch]++
	return fontprovider.GlyphMetrics{Width: pixelSize, Height: pixelSize, Bitmap: []byte{byte(ch)}}
}

func TestGetCachesOnSecondLookup(t *testing.T) {
	raster := &countingRasterizer{}
	atlas := New(raster, 4, zerolog.Nop())

	first := atlas.Get('A', 16)
	second := atlas.Get('A', 16)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, raster.calls['A'])
	assert.Equal(t, uint64(1), atlas.MissCount())
	assert.Equal(t, uint64(1), atlas.HitCount())
}

func TestGetRoundsFractionalSizesToSharedEntry(t *testing.T) {
	raster := &countingRasterizer{}
	atlas := New(raster, 4, zerolog.Nop())

	atlas.Get('B', 12.1)
	atlas.Get('B', 11.6)

	assert.Equal(t, 1, raster.calls['B'], "both sizes round to 12 and share one cache entry")
}

func TestAtlasEvictsAtCapacity(t *testing.T) {
	raster := &countingRasterizer{}
	atlas := New(raster, 2, zerolog.Nop())

	atlas.Get('A', 10)
	atlas.Get('B', 10)
	atlas.Get('C', 10) // evicts 'A' (least recently used)
	atlas.Get('A', 10) // must re-rasterize

	assert.Equal(t, 2, raster.calls['A'])
	assert.Equal(t, 1, raster.calls['B'])
	assert.Equal(t, 1, raster.calls['C'])
}

func TestDefaultCapacityUsedWhenNonPositive(t *testing.T) {
	raster := &countingRasterizer{}
	atlas := New(raster, 0, zerolog.Nop())
	assert.NotNil(t, atlas)

	for i := 0; i < DefaultCapacity; i++ {
		atlas.Get(rune('a'+i), 10)
	}
	atlas.Get('a', 10)
	assert.Equal(t, 1, raster.calls['a'], "DefaultCapacity distinct glyphs all stay cached")
}
