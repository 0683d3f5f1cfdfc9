// Package raster is a minimal software 2D painter over a writable ARGB8888
// byte slice: the destination format the buffer pool hands to the render
// driver. Colors are composited premultiplied, matching the buffer format
// the surface controller attaches to the compositor.
package raster

import (
	"math"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/theme"
)

// Canvas is a writable view over one buffer-pool slot's pixels.
type Canvas struct {
	Pix    []byte // len == Stride*Height, ARGB8888, byte order B,G,R,A
	Width  int
	Height int
	Stride int
}

// NewCanvas wraps pix as a w x h canvas with stride = w*4.
func NewCanvas(pix []byte, w, h int) Canvas {
	return Canvas{Pix: pix, Width: w, Height: h, Stride: w * 4}
}

func unpack(c theme.ARGB) (a, r, g, b uint32) {
	v := uint32(c)
	a = (v >> 24) & 0xFF
	r = (v >> 16) & 0xFF
	g = (v >> 8) & 0xFF
	b = v & 0xFF
	return
}

// premultiply returns (b,g,r,a) bytes in buffer order, each channel scaled
// by alpha/255, matching the premultiplied-ARGB8888 format this design
// commits to.
func premultiply(c theme.ARGB) (b, g, r, a byte) {
	pa, pr, pg, pb := unpack(c)
	a = byte(pa)
	r = byte(pr * pa / 255)
	g = byte(pg * pa / 255)
	b = byte(pb * pa / 255)
	return b, g, r, a
}

func (c *Canvas) offset(x, y int) int { return y*c.Stride + x*4 }

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.Width && y >= 0 && y < c.Height
}

// setPixel blends src (premultiplied b,g,r,a) onto the destination pixel
// at (x,y) using source-over.
func (c *Canvas) setPixel(x, y int, b, g, r, a byte) {
	if !c.inBounds(x, y) {
		return
	}
	o := c.offset(x, y)
	if a == 255 {
		c.Pix[o] = b
		c.Pix[o+1] = g
		c.Pix[o+2] = r
		c.Pix[o+3] = a
		return
	}
	inv := 255 - uint32(a)
	c.Pix[o] = byte((uint32(b) + uint32(c.Pix[o])*inv/255))
	c.Pix[o+1] = byte((uint32(g) + uint32(c.Pix[o+1])*inv/255))
	c.Pix[o+2] = byte((uint32(r) + uint32(c.Pix[o+2])*inv/255))
	c.Pix[o+3] = byte(minU32(255, uint32(a)+uint32(c.Pix[o+3])*inv/255))
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

// Clear fills every pixel with argb (typically fully transparent).
func (c *Canvas) Clear(argb theme.ARGB) {
	b, g, r, a := premultiply(argb)
	for y := 0; y < c.Height; y++ {
		o := y * c.Stride
		for x := 0; x < c.Width; x++ {
			c.Pix[o] = b
			c.Pix[o+1] = g
			c.Pix[o+2] = r
			c.Pix[o+3] = a
			o += 4
		}
	}
}

// FillRect fills an axis-aligned rectangle, clipped to the canvas bounds.
func (c *Canvas) FillRect(x, y, w, h int, argb theme.ARGB) {
	b, g, r, a := premultiply(argb)
	x0, y0, x1, y1 := clipRect(x, y, w, h, c.Width, c.Height)
	for yy := y0; yy < y1; yy++ {
		for xx := x0; xx < x1; xx++ {
			c.setPixel(xx, yy, b, g, r, a)
		}
	}
}

// StrokeRect draws a rectangular outline of the given thickness.
func (c *Canvas) StrokeRect(x, y, w, h, thickness int, argb theme.ARGB) {
	if thickness <= 0 {
		return
	}
	c.FillRect(x, y, w, thickness, argb)
	c.FillRect(x, y+h-thickness, w, thickness, argb)
	c.FillRect(x, y, thickness, h, argb)
	c.FillRect(x+w-thickness, y, thickness, h, argb)
}

// FillRoundedRect fills a rectangle with corners rounded to radius,
// antialiased at the curved edge by coverage-weighted blending.
func (c *Canvas) FillRoundedRect(x, y, w, h int, radius float64, argb theme.ARGB) {
	if radius <= 0 {
		c.FillRect(x, y, w, h, argb)
		return
	}
	if radius > float64(w)/2 {
		radius = float64(w) / 2
	}
	if radius > float64(h)/2 {
		radius = float64(h) / 2
	}
	b, g, r, a := premultiply(argb)
	x0, y0, x1, y1 := clipRect(x, y, w, h, c.Width, c.Height)
	for yy := y0; yy < y1; yy++ {
		for xx := x0; xx < x1; xx++ {
			cov := roundedCoverage(xx-x, yy-y, w, h, radius)
			if cov <= 0 {
				continue
			}
			if cov >= 1 {
				c.setPixel(xx, yy, b, g, r, a)
			} else {
				c.setPixel(xx, yy, byte(float64(b)*cov), byte(float64(g)*cov), byte(float64(r)*cov), byte(float64(a)*cov))
			}
		}
	}
}

// roundedCoverage returns the antialiasing coverage in [0,1] for the pixel
// at local coordinates (lx,ly) inside a w x h rounded-rect with the given
// corner radius.
func roundedCoverage(lx, ly, w, h int, radius float64) float64 {
	cx, cy := 0.0, 0.0
	inCorner := false
	fx, fy := float64(lx)+0.5, float64(ly)+0.5

	switch {
	case fx < radius && fy < radius:
		cx, cy, inCorner = radius, radius, true
	case fx > float64(w)-radius && fy < radius:
		cx, cy, inCorner = float64(w)-radius, radius, true
	case fx < radius && fy > float64(h)-radius:
		cx, cy, inCorner = radius, float64(h)-radius, true
	case fx > float64(w)-radius && fy > float64(h)-radius:
		cx, cy, inCorner = float64(w)-radius, float64(h)-radius, true
	}
	if !inCorner {
		return 1
	}
	dx, dy := fx-cx, fy-cy
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist <= radius-0.5 {
		return 1
	}
	if dist >= radius+0.5 {
		return 0
	}
	return radius + 0.5 - dist
}

// BlitGlyph alpha-composites a grayscale coverage bitmap at (x,y), treating
// each coverage byte as the alpha multiplier against argb, source-over.
func (c *Canvas) BlitGlyph(bitmap []byte, w, h int, x, y int, argb theme.ARGB) {
	if w <= 0 || h <= 0 || len(bitmap) < w*h {
		return
	}
	pa, pr, pg, pb := unpack(argb)
	for row := 0; row < h; row++ {
		py := y + row
		if py < 0 || py >= c.Height {
			continue
		}
		for col := 0; col < w; col++ {
			px := x + col
			if px < 0 || px >= c.Width {
				continue
			}
			cov := uint32(bitmap[row*w+col]) * pa / 255
			if cov == 0 {
				continue
			}
			b := byte(pb * cov / 255)
			g := byte(pg * cov / 255)
			r := byte(pr * cov / 255)
			a := byte(cov)
			c.setPixel(px, py, b, g, r, a)
		}
	}
}

func clipRect(x, y, w, h, maxW, maxH int) (x0, y0, x1, y1 int) {
	x0, y0 = x, y
	x1, y1 = x+w, y+h
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > maxW {
		x1 = maxW
	}
	if y1 > maxH {
		y1 = maxH
	}
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return
}
