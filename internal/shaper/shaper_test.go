package shaper

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/fontprovider"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/glyphatlas"
)

type fixedRasterizer struct{ advance float64 }

func (f fixedRasterizer) Rasterize(ch rune, pixelSize int) fontprovider.GlyphMetrics {
	return fontprovider.GlyphMetrics{Advance: f.advance, Width: pixelSize, Height: pixelSize}
}

type fixedAscenter struct{ ascent float64 }

func (f fixedAscenter) Ascent(int) float64 { return f.ascent }

func TestLayoutPlacesGlyphsLeftToRight(t *testing.T) {
	atlas := glyphatlas.New(fixedRasterizer{advance: 10}, glyphatlas.DefaultCapacity, zerolog.Nop())
	res := Layout(atlas, fixedAscenter{ascent: 12}, "abc", 0, 0, 16)

	require.Len(t, res.Glyphs, 3)
	assert.Equal(t, 0.0, res.Glyphs[0].PenX)
	assert.Equal(t, 10.0, res.Glyphs[1].PenX)
	assert.Equal(t, 20.0, res.Glyphs[2].PenX)
	assert.Equal(t, 30.0, res.TotalWidth)
	assert.Equal(t, 12.0, res.Glyphs[0].BaselineY)
}

func TestLayoutWidensEastAsianGlyphs(t *testing.T) {
	atlas := glyphatlas.New(fixedRasterizer{advance: 0}, glyphatlas.DefaultCapacity, zerolog.Nop())
	res := Layout(atlas, fixedAscenter{ascent: 0}, "中", 0, 0, 16) // a CJK ideograph
	require.Len(t, res.Glyphs, 1)
	assert.Equal(t, float64(16*2), res.TotalWidth)
}

func TestLayoutEmptyString(t *testing.T) {
	atlas := glyphatlas.New(fixedRasterizer{}, glyphatlas.DefaultCapacity, zerolog.Nop())
	res := Layout(atlas, fixedAscenter{}, "", 5, 5, 16)
	assert.Empty(t, res.Glyphs)
	assert.Equal(t, 0.0, res.TotalWidth)
}
