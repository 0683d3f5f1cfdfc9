// Package render combines the theme, layout result, and widget content
// snapshots into pixels, per specification §4.7.
package render

import (
	"github.com/olafkfreund/cosmic-desktop-widget/internal/glyphatlas"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/layout"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/raster"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/shaper"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/theme"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/widget"
)

const (
	textInset   = 8.0
	lineSpacing = 1.25
)

// Inputs bundles everything one Frame call needs to paint a buffer. The
// caller (internal/loop) is responsible for the dirty-flag check (§4.7
// step 1) before acquiring a buffer — Frame always draws.
type Inputs struct {
	Theme              theme.Theme
	BackgroundOverride *float64
	PanelWidth         float64
	PanelHeight        float64
	BorderWidth        float64
	CornerRadius       float64
	Rects              []layout.Rect
	Content            map[int]widget.Content // by WidgetIndex
}

// Frame paints one complete frame into canvas. Calling Frame twice with
// identical Inputs and the same atlas state produces byte-identical
// output (spec §8 property 4) because every step is a pure function of
// its inputs: no randomness, no wall-clock reads.
func Frame(canvas *raster.Canvas, atlas *glyphatlas.Atlas, ascenter shaper.Ascenter, in Inputs) {
	canvas.Clear(0x00000000)

	opacity := theme.EffectiveOpacity(in.Theme, in.BackgroundOverride)
	bg := withAlpha(in.Theme.Background, opacity)
	canvas.FillRoundedRect(0, 0, int(in.PanelWidth), int(in.PanelHeight), in.CornerRadius, bg)
	if in.BorderWidth > 0 {
		canvas.StrokeRect(0, 0, int(in.PanelWidth), int(in.PanelHeight), int(in.BorderWidth), in.Theme.Border)
	}

	for _, rect := range in.Rects {
		content, ok := in.Content[rect.WidgetIndex]
		if !ok {
			continue
		}
		drawContent(canvas, atlas, ascenter, in.Theme, rect, content)
	}
}

func withAlpha(c theme.ARGB, opacity float64) theme.ARGB {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	v := uint32(c)
	a := (v >> 24) & 0xFF
	a = uint32(float64(a) * opacity)
	return theme.ARGB((a << 24) | (v & 0x00FFFFFF))
}

func drawContent(canvas *raster.Canvas, atlas *glyphatlas.Atlas, ascenter shaper.Ascenter, th theme.Theme, rect layout.Rect, c widget.Content) {
	switch c.Kind {
	case widget.KindEmpty:
		return
	case widget.KindText:
		color := textColor(th, c.Text.Size)
		drawLine(canvas, atlas, ascenter, rect.X+textInset, rect.Y+(rect.Height-c.Text.Size.Pixels())/2, c.Text.Text, c.Text.Size.Pixels(), color)
	case widget.KindMultiLine:
		y := rect.Y
		for _, line := range c.Lines {
			color := textColor(th, line.Size)
			drawLine(canvas, atlas, ascenter, rect.X+textInset, y, line.Text, line.Size.Pixels(), color)
			y += line.Size.Pixels() * lineSpacing
		}
	case widget.KindProgress:
		drawProgress(canvas, atlas, ascenter, th, rect, c)
	}
}

// textColor picks text-primary for Large text, text-secondary otherwise,
// per §4.7 step 5.
func textColor(th theme.Theme, size widget.SizeClass) theme.ARGB {
	if size == widget.SizeLarge {
		return th.TextPrimary
	}
	return th.TextSecondary
}

func drawLine(canvas *raster.Canvas, atlas *glyphatlas.Atlas, ascenter shaper.Ascenter, x, y float64, text string, size float64, color theme.ARGB) {
	shaped := shaper.Layout(atlas, ascenter, text, x, y, size)
	for _, g := range shaped.Glyphs {
		px := int(g.PenX) + g.Glyph.BearingX
		py := int(g.BaselineY) - g.Glyph.BearingY
		canvas.BlitGlyph(g.Glyph.Bitmap, g.Glyph.Width, g.Glyph.Height, px, py, color)
	}
}

func drawProgress(canvas *raster.Canvas, atlas *glyphatlas.Atlas, ascenter shaper.Ascenter, th theme.Theme, rect layout.Rect, c widget.Content) {
	trough := th.TextSecondary
	accent := th.Accent
	h := rect.Height
	if h > 16 {
		h = 16
	}
	y := rect.Y + (rect.Height-h)/2
	canvas.FillRoundedRect(int(rect.X), int(y), int(rect.Width), int(h), h/2, trough)
	fillW := int(rect.Width * c.Value)
	if fillW > 0 {
		canvas.FillRoundedRect(int(rect.X), int(y), fillW, int(h), h/2, accent)
	}
	if c.Label != "" {
		labelSize := widget.SizeSmall
		shaped := shaper.Layout(atlas, ascenter, c.Label, 0, 0, labelSize.Pixels())
		labelX := rect.X + (rect.Width-shaped.TotalWidth)/2
		labelY := rect.Y + (rect.Height-labelSize.Pixels())/2
		drawLine(canvas, atlas, ascenter, labelX, labelY, c.Label, labelSize.Pixels(), th.TextPrimary)
	}
}
