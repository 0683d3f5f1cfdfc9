package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/theme"
)

func TestClearFillsEveryPixel(t *testing.T) {
	c := NewCanvas(make([]byte, 4*4*4), 4, 4)
	c.Clear(0xFFFF0000) // opaque red

	for i := 0; i < len(c.Pix); i += 4 {
		assert.Equal(t, byte(0), c.Pix[i])   // blue
		assert.Equal(t, byte(0), c.Pix[i+1]) // green
		assert.Equal(t, byte(0xFF), c.Pix[i+2])
		assert.Equal(t, byte(0xFF), c.Pix[i+3]) // alpha
	}
}

func TestFillRectClipsToBounds(t *testing.T) {
	c := NewCanvas(make([]byte, 4*4*4), 4, 4)
	c.FillRect(-2, -2, 4, 4, 0xFFFFFFFF)

	// Only the top-left 2x2 region should be touched.
	assert.Equal(t, byte(0xFF), c.Pix[c.offset(0, 0)+3])
	assert.Equal(t, byte(0), c.Pix[c.offset(2, 2)+3])
}

func TestStrokeRectDrawsOnlyBorder(t *testing.T) {
	c := NewCanvas(make([]byte, 6*6*4), 6, 6)
	c.StrokeRect(0, 0, 6, 6, 1, 0xFFFFFFFF)

	assert.Equal(t, byte(0xFF), c.Pix[c.offset(0, 0)+3])
	assert.Equal(t, byte(0), c.Pix[c.offset(3, 3)+3], "interior must stay untouched")
}

func TestFillRoundedRectWithZeroRadiusIsPlainRect(t *testing.T) {
	c := NewCanvas(make([]byte, 4*4*4), 4, 4)
	c.FillRoundedRect(0, 0, 4, 4, 0, 0xFFFFFFFF)
	assert.Equal(t, byte(0xFF), c.Pix[c.offset(0, 0)+3])
	assert.Equal(t, byte(0xFF), c.Pix[c.offset(3, 3)+3])
}

func TestBlitGlyphCompositesCoverage(t *testing.T) {
	c := NewCanvas(make([]byte, 4*4*4), 4, 4)
	bitmap := []byte{255, 0, 0, 255}
	c.BlitGlyph(bitmap, 2, 2, 1, 1, theme.ARGB(0xFFFFFFFF))

	assert.Equal(t, byte(0xFF), c.Pix[c.offset(1, 1)+3])
	assert.Equal(t, byte(0), c.Pix[c.offset(2, 1)+3])
	assert.Equal(t, byte(0xFF), c.Pix[c.offset(2, 2)+3])
}

func TestBlitGlyphOutOfBoundsIsClipped(t *testing.T) {
	c := NewCanvas(make([]byte, 2*2*4), 2, 2)
	bitmap := []byte{255, 255, 255, 255}
	assert.NotPanics(t, func() {
		c.BlitGlyph(bitmap, 2, 2, 1, 1, theme.ARGB(0xFFFFFFFF))
	})
}
