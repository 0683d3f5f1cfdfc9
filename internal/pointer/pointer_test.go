package pointer

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/layout"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/widget"
)

type fakeLauncher struct {
	urls     []string
	commands []string
}

func (f *fakeLauncher) OpenURL(url string) error {
	f.urls = append(f.urls, url)
	return nil
}

func (f *fakeLauncher) RunCommand(cmd string) error {
	f.commands = append(f.commands, cmd)
	return nil
}

// testWidget is a minimal widget.Widget stand-in that records pointer
// callbacks and returns a fixed action from OnClick/OnScroll.
type testWidget struct {
	interactive bool
	entered     int
	left        int
	clicks      int
	action      widget.Action
}

func (w *testWidget) Info() widget.Info           { return widget.Info{} }
func (w *testWidget) Tick()                       {}
func (w *testWidget) Content() widget.Content      { return widget.EmptyContent() }
func (w *testWidget) UpdateInterval() time.Duration { return time.Second }
func (w *testWidget) IsInteractive() bool         { return w.interactive }
func (w *testWidget) OnPointerEnter()             { w.entered++ }
func (w *testWidget) OnPointerLeave()             { w.left++ }
func (w *testWidget) OnClick(widget.MouseButton, float64, float64) widget.Action {
	w.clicks++
	return w.action
}
func (w *testWidget) OnScroll(widget.ScrollDirection, float64, float64) widget.Action {
	return w.action
}

func TestMotionFiresEnterAndLeaveOnce(t *testing.T) {
	w := &testWidget{interactive: true}
	targets := []Target{{Widget: w, Rect: layout.Rect{WidgetIndex: 0, X: 0, Y: 0, Width: 10, Height: 10}}}
	r := New(&fakeLauncher{}, zerolog.Nop())

	r.Motion(targets, 5, 5)
	r.Motion(targets, 6, 6) // still inside; must not re-fire enter
	assert.Equal(t, 1, w.entered)

	r.Motion(targets, 50, 50) // moved outside
	assert.Equal(t, 1, w.left)
}

func TestButtonDispatchesActionThroughLauncher(t *testing.T) {
	w := &testWidget{interactive: true, action: widget.OpenURL("https://example.com")}
	targets := []Target{{Widget: w, Rect: layout.Rect{WidgetIndex: 0, X: 0, Y: 0, Width: 10, Height: 10}}}
	fl := &fakeLauncher{}
	r := New(fl, zerolog.Nop())

	r.Motion(targets, 5, 5)
	r.Button(targets, widget.MouseLeft)

	require.Len(t, fl.urls, 1)
	assert.Equal(t, "https://example.com", fl.urls[0])
}

func TestNonInteractiveWidgetIsNeverHit(t *testing.T) {
	w := &testWidget{interactive: false}
	targets := []Target{{Widget: w, Rect: layout.Rect{WidgetIndex: 0, X: 0, Y: 0, Width: 10, Height: 10}}}
	r := New(&fakeLauncher{}, zerolog.Nop())

	r.Motion(targets, 5, 5)
	assert.Equal(t, 0, w.entered)
}

func TestButtonOutsideHoverDoesNothing(t *testing.T) {
	w := &testWidget{interactive: true, action: widget.OpenURL("https://example.com")}
	targets := []Target{{Widget: w, Rect: layout.Rect{WidgetIndex: 0, X: 0, Y: 0, Width: 10, Height: 10}}}
	fl := &fakeLauncher{}
	r := New(fl, zerolog.Nop())

	// No prior Motion call: r.entered is false, so Button is a no-op.
	r.Button(targets, widget.MouseLeft)
	assert.Empty(t, fl.urls)
}
