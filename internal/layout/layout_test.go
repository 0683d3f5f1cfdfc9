package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/widget"
)

func TestStackPlacesWidgetsInOrderWithoutOverlap(t *testing.T) {
	interior := Interior{X: 10, Y: 10, Width: 200, Height: 100}
	items := []Item{
		{Index: 0, Info: widget.Info{PreferredHeight: 20}},
		{Index: 1, Info: widget.Info{PreferredHeight: 30}},
	}
	rects := Stack(interior, items, 5)
	if assert.Len(t, rects, 2) {
		assert.Equal(t, 10.0, rects[0].Y)
		assert.Equal(t, 20.0, rects[0].Height)
		assert.Equal(t, rects[0].Y+rects[0].Height+5, rects[1].Y)
		for _, r := range rects {
			assert.GreaterOrEqual(t, r.X, interior.X)
			assert.LessOrEqual(t, r.X+r.Width, interior.X+interior.Width)
			assert.GreaterOrEqual(t, r.Y, interior.Y)
		}
	}
}

func TestStackDropsOverflowFromBottom(t *testing.T) {
	interior := Interior{X: 0, Y: 0, Width: 100, Height: 50}
	items := []Item{
		{Index: 0, Info: widget.Info{PreferredHeight: 30}},
		{Index: 1, Info: widget.Info{PreferredHeight: 30}},
		{Index: 2, Info: widget.Info{PreferredHeight: 30}},
	}
	rects := Stack(interior, items, 0)
	assert.Len(t, rects, 2, "third widget has no room and is dropped")
}

func TestStackExpandFillsSlack(t *testing.T) {
	interior := Interior{X: 0, Y: 0, Width: 100, Height: 100}
	items := []Item{
		{Index: 0, Info: widget.Info{PreferredHeight: 20}},
		{Index: 1, Info: widget.Info{PreferredHeight: 20, Expand: true}},
	}
	rects := Stack(interior, items, 0)
	if assert.Len(t, rects, 2) {
		assert.Equal(t, 20.0, rects[0].Height)
		assert.Equal(t, 80.0, rects[1].Height)
	}
}

func TestStackEmptyInteriorDropsEverything(t *testing.T) {
	items := []Item{{Index: 0, Info: widget.Info{PreferredHeight: 10}}}
	assert.Nil(t, Stack(Interior{Width: 0, Height: 0}, items, 0))
}
