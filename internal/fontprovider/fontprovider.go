// Package fontprovider locates a usable font file on the host and exposes
// a per-glyph rasterizer over it. It implements the FontProvider
// collaborator described in the specification's external-interfaces
// section, with a concrete default good enough to run the whole daemon
// standalone.
package fontprovider

import (
	"fmt"
	"os"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// fallbackNames is tried in order; the first one go-findfont can locate
// wins. This mirrors the "defined fallback chain" the specification asks
// FontProvider to offer.
var fallbackNames = []string{
	"DejaVu Sans",
	"Noto Sans",
	"Liberation Sans",
	"Arial",
	"Helvetica",
}

// GlyphMetrics is the rasterization result for a single glyph at a single
// integer pixel size.
type GlyphMetrics struct {
	Advance  float64
	BearingX int
	BearingY int
	Width    int
	Height   int
	Bitmap   []byte
}

// Rasterizer rasterizes individual glyphs at a given pixel size. It is the
// narrow interface internal/glyphatlas depends on, keeping the cache
// package free of font-loading concerns.
type Rasterizer interface {
	Rasterize(ch rune, pixelSize int) GlyphMetrics
}

// Font wraps a parsed TrueType font and hands out faces per pixel size,
// caching the golang.org/x/image/font.Face objects (which freetype itself
// caches glyph outlines for) since face construction is not free.
type Font struct {
	ttf   *truetype.Font
	path  string
	faces map[int]font.Face
}

// Load locates a font file via the fallback chain and parses it. If every
// fallback name fails to resolve, it returns an error; callers should
// treat that as a BufferAlloc-adjacent startup failure, since nothing can
// render without a font.
func Load() (*Font, error) {
	var lastErr error
	for _, name := range fallbackNames {
		path, err := findfont.Find(name)
		if err != nil {
			lastErr = err
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			lastErr = err
			continue
		}
		ttf, err := truetype.Parse(data)
		if err != nil {
			lastErr = err
			continue
		}
		return &Font{ttf: ttf, path: path, faces: make(map[int]font.Face)}, nil
	}
	return nil, fmt.Errorf("fontprovider: no usable font found (tried %v): %w", fallbackNames, lastErr)
}

// Path returns the resolved font file path, for diagnostics.
func (f *Font) Path() string { return f.path }

func (f *Font) faceFor(pixelSize int) font.Face {
	if fc, ok := f.faces[pixelSize]; ok {
		return fc
	}
	fc := truetype.NewFace(f.ttf, &truetype.Options{
		Size:    float64(pixelSize),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	f.faces[pixelSize] = fc
	return fc
}

// Rasterize implements Rasterizer. It asks the face for the glyph mask at
// (ch, pixelSize) and copies the coverage into a tightly packed grayscale
// buffer the atlas can cache independent of the face's own internal
// representation.
func (f *Font) Rasterize(ch rune, pixelSize int) GlyphMetrics {
	face := f.faceFor(pixelSize)

	dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), ch)
	if !ok || dr.Empty() {
		adv, _ := face.GlyphAdvance(ch)
		return GlyphMetrics{Advance: fixedToFloat(adv)}
	}

	w := dr.Dx()
	h := dr.Dy()
	bitmap := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := mask.At(maskp.X+x, maskp.Y+y).RGBA()
			bitmap[y*w+x] = byte(a >> 8)
		}
	}

	// Ascent is exposed via Ascent() below; it is per-face, not per-glyph,
	// so it does not belong on GlyphMetrics.
	return GlyphMetrics{
		Advance:  fixedToFloat(advance),
		BearingX: dr.Min.X,
		BearingY: -dr.Min.Y,
		Width:    w,
		Height:   h,
		Bitmap:   bitmap,
	}
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Ascent returns the face's ascent in pixels at the given size, used by
// the text shaper to compute baseline_y = y + ascent.
func (f *Font) Ascent(pixelSize int) float64 {
	return fixedToFloat(f.faceFor(pixelSize).Metrics().Ascent)
}
