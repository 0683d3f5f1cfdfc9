// Package glyphatlas rasterizes and caches per-(character, pixel size)
// grayscale glyph bitmaps, backed by a bounded LRU so a long-running
// desktop widget never grows its glyph cache without limit.
package glyphatlas

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/fontprovider"
)

// DefaultCapacity holds comfortably more than one frame's worth of
// distinct glyphs at typical panel sizes.
const DefaultCapacity = 256

// Entry is a cached glyph: its advance and bearing metrics plus a
// grayscale coverage bitmap (one byte per pixel, 0=transparent, 255=opaque).
type Entry struct {
	Advance   float64
	BearingX  int
	BearingY  int
	Width     int
	Height    int
	Bitmap    []byte // len == Width*Height, row-major
}

type key struct {
	ch   rune
	size int
}

// Atlas rasterizes glyphs on miss via a fontprovider.Rasterizer and caches
// the result. Single-threaded: the render driver and event loop never call
// it concurrently.
type Atlas struct {
	font  fontprovider.Rasterizer
	cache *lru.Cache[key, Entry]
	log   zerolog.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New builds an atlas over font with the given cache capacity (0 uses
// DefaultCapacity).
func New(font fontprovider.Rasterizer, capacity int, log zerolog.Logger) *Atlas {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c, _ := lru.New[key, Entry](capacity)
	return &Atlas{font: font, cache: c, log: log}
}

// roundSize rounds a fractional pixel size to the nearest integer size, so
// nearby float sizes (e.g. from size-class math) share cache entries.
func roundSize(size float64) int {
	if size < 1 {
		return 1
	}
	return int(size + 0.5)
}

// Get returns the cached glyph entry for (ch, size), rasterizing on miss.
// size is rounded to the nearest integer pixel size before lookup.
func (a *Atlas) Get(ch rune, size float64) Entry {
	k := key{ch: ch, size: roundSize(size)}
	if e, ok := a.cache.Get(k); ok {
		a.hits.Add(1)
		return e
	}
	a.misses.Add(1)
	a.log.Debug().Str("glyph", string(ch)).Int("size", k.size).Msg("glyph cache miss")

	m := a.font.Rasterize(ch, k.size)
	e := Entry{
		Advance:  m.Advance,
		BearingX: m.BearingX,
		BearingY: m.BearingY,
		Width:    m.Width,
		Height:   m.Height,
		Bitmap:   m.Bitmap,
	}
	a.cache.Add(k, e)
	return e
}

// HitCount returns the number of cache hits observed so far.
func (a *Atlas) HitCount() uint64 { return a.hits.Load() }

// MissCount returns the number of cache misses (rasterizations) observed so far.
func (a *Atlas) MissCount() uint64 { return a.misses.Load() }
