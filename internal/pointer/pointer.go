// Package pointer implements the pointer router from specification §4.10:
// hit-testing against widget rectangles and dispatching enter/leave/click/
// scroll to the hit widget.
package pointer

import (
	"github.com/rs/zerolog"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/layout"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/widget"
)

// Launcher executes the two fire-and-forget actions a widget's Action can
// request. It is the CommandLauncher collaborator from §6.
type Launcher interface {
	OpenURL(url string) error
	RunCommand(cmd string) error
}

// Target is the subset of widget.Widget the router needs, indexed by
// layout rectangle.
type Target struct {
	Widget widget.Widget
	Rect   layout.Rect
}

// Router tracks hover state across motion events and dispatches clicks/
// scrolls to the hit-tested widget.
type Router struct {
	log      zerolog.Logger
	launcher Launcher

	entered bool
	x, y    float64
	hovered int // widget index, -1 if none
}

// New creates a router with no widget hovered.
func New(launcher Launcher, log zerolog.Logger) *Router {
	return &Router{launcher: launcher, log: log, hovered: -1}
}

func hitTest(targets []Target, x, y float64) (Target, bool) {
	for _, t := range targets {
		if !t.Widget.IsInteractive() {
			continue
		}
		r := t.Rect
		if x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height {
			return t, true
		}
	}
	return Target{}, false
}

// Motion performs a hit test at (x,y) and fires OnPointerEnter/Leave
// exactly once per hover transition.
func (r *Router) Motion(targets []Target, x, y float64) {
	r.entered = true
	r.x, r.y = x, y

	t, hit := hitTest(targets, x, y)
	newHovered := -1
	if hit {
		newHovered = t.Rect.WidgetIndex
	}
	if newHovered == r.hovered {
		return
	}
	if r.hovered != -1 {
		if prev, ok := findByIndex(targets, r.hovered); ok {
			prev.Widget.OnPointerLeave()
		}
	}
	if newHovered != -1 {
		t.Widget.OnPointerEnter()
	}
	r.hovered = newHovered
}

func findByIndex(targets []Target, idx int) (Target, bool) {
	for _, t := range targets {
		if t.Rect.WidgetIndex == idx {
			return t, true
		}
	}
	return Target{}, false
}

// Leave clears hover state when the pointer leaves the surface entirely.
func (r *Router) Leave() {
	r.entered = false
	if r.hovered != -1 {
		r.hovered = -1
	}
}

// Button dispatches a press at the last-known pointer position to the
// hit-tested widget, if any and interactive, and executes any resulting
// OpenUrl/RunCommand action.
func (r *Router) Button(targets []Target, button widget.MouseButton) {
	if !r.entered {
		return
	}
	t, hit := hitTest(targets, r.x, r.y)
	if !hit {
		return
	}
	nx, ny := normalize(t.Rect, r.x, r.y)
	action := t.Widget.OnClick(button, nx, ny)
	r.execute(action)
}

// Scroll dispatches a scroll axis event, reduced to direction only
// (magnitude ignored per §4.10), to the hit-tested widget.
func (r *Router) Scroll(targets []Target, dir widget.ScrollDirection) {
	if !r.entered {
		return
	}
	t, hit := hitTest(targets, r.x, r.y)
	if !hit {
		return
	}
	nx, ny := normalize(t.Rect, r.x, r.y)
	action := t.Widget.OnScroll(dir, nx, ny)
	r.execute(action)
}

func normalize(rect layout.Rect, x, y float64) (nx, ny float64) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return 0, 0
	}
	return (x - rect.X) / rect.Width, (y - rect.Y) / rect.Height
}

func (r *Router) execute(action widget.Action) {
	switch action.Kind {
	case widget.ActionOpenURL:
		if err := r.launcher.OpenURL(action.Payload); err != nil {
			r.log.Warn().Err(err).Str("url", action.Payload).Msg("failed to open url")
		}
	case widget.ActionRunCommand:
		if err := r.launcher.RunCommand(action.Payload); err != nil {
			r.log.Warn().Err(err).Str("cmd", action.Payload).Msg("failed to run command")
		}
	default:
		// NextItem/PreviousItem/Toggle/Custom/None: the widget has already
		// applied its own state change; no external action to take.
	}
}
