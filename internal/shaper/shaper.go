// Package shaper lays a string out left-to-right as a sequence of
// positioned glyph references. No kerning, no bidi, no complex shaping —
// each Unicode scalar value maps to one glyph advanced by its own metrics,
// which is all a clock/weather/countdown/quote label needs.
package shaper

import (
	"golang.org/x/text/width"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/glyphatlas"
)

// Positioned is one shaped glyph: its cache entry plus the pen x and
// baseline y it sits on. The glyph's bearings are not applied here; the
// bitmap's top-left corner is at (PenX+BearingX, BaselineY-BearingY).
type Positioned struct {
	Glyph    glyphatlas.Entry
	PenX     float64
	BaselineY float64
}

// Result is the output of a single Layout call.
type Result struct {
	Glyphs     []Positioned
	TotalWidth float64
}

// Ascent returns the face ascent for the given pixel size; shapers need it
// to compute baseline_y = y + ascent without depending on the glyph atlas
// for face-level (as opposed to per-glyph) metrics.
type Ascenter interface {
	Ascent(pixelSize int) float64
}

// Layout shapes s at the given pixel size, placing the baseline at
// y + ascent. x, y are the top-left origin of the text box.
func Layout(atlas *glyphatlas.Atlas, ascenter Ascenter, s string, x, y float64, size float64) Result {
	pixelSize := int(size + 0.5)
	if pixelSize < 1 {
		pixelSize = 1
	}
	baseline := y + ascenter.Ascent(pixelSize)

	var res Result
	pen := x
	for _, r := range s {
		g := atlas.Get(r, size)
		res.Glyphs = append(res.Glyphs, Positioned{
			Glyph:     g,
			PenX:      pen,
			BaselineY: baseline,
		})
		pen += advanceFor(r, g)
	}
	res.TotalWidth = pen - x
	return res
}

// advanceFor widens double-width (East Asian wide/fullwidth) runes so CJK
// text does not visually overlap when the font's own advance metric
// under-reports width for a narrow Latin-oriented face.
func advanceFor(r rune, g glyphatlas.Entry) float64 {
	adv := g.Advance
	if adv == 0 {
		adv = float64(g.Width)
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		if adv < float64(g.Width)*2 {
			return float64(g.Width) * 2
		}
	}
	return adv
}
