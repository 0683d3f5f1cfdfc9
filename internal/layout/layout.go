// Package layout places widget content boxes inside the panel's padded
// interior (§4.6): a vertical stack, full interior width, widgets with
// Expand sharing leftover space, overflow dropped from the bottom.
package layout

import "github.com/olafkfreund/cosmic-desktop-widget/internal/widget"

// Rect is one widget's placement in surface coordinates.
type Rect struct {
	WidgetIndex int
	X, Y        float64
	Width       float64
	Height      float64
}

// Item is one widget's info as seen by the layout engine; content itself
// is not needed for placement (only PreferredHeight/Expand), but the
// index ties results back to the widget list.
type Item struct {
	Index int
	Info  widget.Info
}

// Interior is the padded rectangle inside the panel's border, in surface
// coordinates.
type Interior struct {
	X, Y          float64
	Width, Height float64
}

// Stack computes a vertical stack layout of items inside interior,
// separated by spacing. Widgets with Expand=true split any leftover
// height evenly after non-expanding widgets take their preferred height;
// if none expand, leftover space is left empty at the bottom. Widgets
// that don't fit at all are omitted from the result (rendered as Empty by
// the render driver, per spec §4.6).
func Stack(interior Interior, items []Item, spacing float64) []Rect {
	if interior.Width <= 0 || interior.Height <= 0 || len(items) == 0 {
		return nil
	}

	fixedHeight := 0.0
	expandCount := 0
	for _, it := range items {
		fixedHeight += it.Info.PreferredHeight
		if it.Info.Expand {
			expandCount++
		}
	}
	totalSpacing := spacing * float64(len(items)-1)
	if totalSpacing < 0 {
		totalSpacing = 0
	}

	slack := interior.Height - fixedHeight - totalSpacing
	var expandBonus float64
	if expandCount > 0 && slack > 0 {
		expandBonus = slack / float64(expandCount)
	}

	var rects []Rect
	y := interior.Y
	for _, it := range items {
		if y >= interior.Y+interior.Height {
			break // no room left; remaining widgets are dropped
		}
		h := it.Info.PreferredHeight
		if it.Info.Expand {
			h += expandBonus
		}
		remaining := interior.Y + interior.Height - y
		if h > remaining {
			h = remaining
		}
		if h < 0 {
			h = 0
		}
		rects = append(rects, Rect{
			WidgetIndex: it.Index,
			X:           interior.X,
			Y:           y,
			Width:       interior.Width,
			Height:      h,
		})
		y += h + spacing
	}
	return rects
}
