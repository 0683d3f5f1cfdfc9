package render

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/fontprovider"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/glyphatlas"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/layout"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/raster"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/theme"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/widget"
)

// fakeRasterizer produces a deterministic fixed-size glyph for every rune,
// enough to exercise the blit path without a real font file on disk.
type fakeRasterizer struct{}

func (fakeRasterizer) Rasterize(ch rune, pixelSize int) fontprovider.GlyphMetrics {
	bitmap := make([]byte, pixelSize*pixelSize)
	for i := range bitmap {
		bitmap[i] = 0xFF
	}
	return fontprovider.GlyphMetrics{
		Advance: float64(pixelSize),
		Width:   pixelSize,
		Height:  pixelSize,
		Bitmap:  bitmap,
	}
}

type fakeAscenter struct{}

func (fakeAscenter) Ascent(pixelSize int) float64 { return float64(pixelSize) }

func testInputs() Inputs {
	return Inputs{
		Theme:        theme.CosmicDark,
		PanelWidth:   120,
		PanelHeight:  60,
		BorderWidth:  1,
		CornerRadius: 8,
		Rects: []layout.Rect{
			{WidgetIndex: 0, X: 4, Y: 4, Width: 112, Height: 24},
		},
		Content: map[int]widget.Content{
			0: widget.TextContent("12:00", widget.SizeLarge),
		},
	}
}

func TestFrameIsDeterministic(t *testing.T) {
	atlas := glyphatlas.New(fakeRasterizer{}, glyphatlas.DefaultCapacity, zerolog.Nop())
	in := testInputs()

	canvas1 := raster.NewCanvas(make([]byte, 120*60*4), 120, 60)
	Frame(&canvas1, atlas, fakeAscenter{}, in)

	canvas2 := raster.NewCanvas(make([]byte, 120*60*4), 120, 60)
	Frame(&canvas2, atlas, fakeAscenter{}, in)

	assert.Equal(t, canvas1.Pix, canvas2.Pix)
}

func TestFrameDrawsSomethingNonTransparent(t *testing.T) {
	atlas := glyphatlas.New(fakeRasterizer{}, glyphatlas.DefaultCapacity, zerolog.Nop())
	canvas := raster.NewCanvas(make([]byte, 120*60*4), 120, 60)
	Frame(&canvas, atlas, fakeAscenter{}, testInputs())

	nonZero := false
	for _, b := range canvas.Pix {
		if b != 0 {
			nonZero = true
			break
		}
	}
	assert.True(t, nonZero)
}

func TestFrameSkipsEmptyContent(t *testing.T) {
	atlas := glyphatlas.New(fakeRasterizer{}, glyphatlas.DefaultCapacity, zerolog.Nop())
	in := testInputs()
	in.Content[0] = widget.EmptyContent()
	canvas := raster.NewCanvas(make([]byte, 120*60*4), 120, 60)
	assert.NotPanics(t, func() { Frame(&canvas, atlas, fakeAscenter{}, in) })

	noRects := testInputs()
	noRects.Rects = nil
	background := raster.NewCanvas(make([]byte, 120*60*4), 120, 60)
	Frame(&background, atlas, fakeAscenter{}, noRects)
	assert.Equal(t, background.Pix, canvas.Pix, "empty content draws nothing over the panel background")
}
