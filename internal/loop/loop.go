// Package loop implements the single-threaded cooperative event loop and
// scheduler from specification §4.9: dispatch pending protocol events,
// tick due widgets, redraw on any content change, poll config-reload
// notifications, and repeat until a shutdown signal arrives.
package loop

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/config"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/fontprovider"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/glyphatlas"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/layout"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/pointer"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/raster"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/render"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/surface"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/theme"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/watch"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/widget"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/wlproto"
)

// idleGuard bounds how long the loop ever blocks in one poll, so reload
// notifications and scheduled ticks are never starved past it (§4.9,
// mirrors the 100ms debounce window used for config reload).
const idleGuard = 100 * time.Millisecond

// Launcher is the subset of internal/launcher.OS the router needs.
type Launcher interface {
	OpenURL(url string) error
	RunCommand(cmd string) error
}

// instance pairs a running widget with its bookkeeping.
type instance struct {
	w          widget.Widget
	index      int
	lastTick   time.Time
	lastContent widget.Content
	haveContent bool
}

// Runner owns every collaborator wired together at startup and drives the
// main loop.
type Runner struct {
	log      zerolog.Logger
	cfgPath  string
	launcher Launcher
	weather  widget.WeatherFetcher

	ctrl   *surface.Controller
	font   *fontprovider.Font
	atlas  *glyphatlas.Atlas
	router *pointer.Router
	wlPtr  *wlproto.Pointer
	watcher *watch.Watcher

	panel      config.Panel
	activeTheme theme.Theme
	instances  []*instance

	shutdown bool
}

// New constructs a Runner. font and atlas are created once at startup and
// live for the process's lifetime; reload only swaps config-derived state.
func New(log zerolog.Logger, cfgPath string, launcher Launcher, weatherFetcher widget.WeatherFetcher) (*Runner, error) {
	font, err := fontprovider.Load()
	if err != nil {
		return nil, err
	}
	atlas := glyphatlas.New(font, glyphatlas.DefaultCapacity, log)

	return &Runner{
		log:      log,
		cfgPath:  cfgPath,
		launcher: launcher,
		weather:  weatherFetcher,
		font:     font,
		atlas:    atlas,
		ctrl:     surface.New(log),
	}, nil
}

// Run binds the Wayland connection, builds the surface, and drives the
// event loop until ctx is done or a fatal error occurs.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.ctrl.Bind(); err != nil {
		return err
	}

	if err := r.loadConfig(); err != nil {
		return err
	}

	if seat := r.ctrl.Seat(); seat != nil {
		r.wlPtr = seat.GetPointer()
		r.router = pointer.New(r.launcher, r.log)
		r.wirePointer()
	}

	if w, err := watch.New(r.cfgPath, r.log); err != nil {
		r.log.Warn().Err(err).Msg("config hot-reload disabled")
	} else {
		r.watcher = w
	}

	surfaceCfg := surfaceConfigFrom(r.panel)
	if err := r.ctrl.Build(surfaceCfg); err != nil {
		return err
	}

	r.loopUntil(ctx)

	if r.watcher != nil {
		r.watcher.Close()
	}
	r.ctrl.Shutdown()
	return nil
}

func surfaceConfigFrom(p config.Panel) surface.Config {
	return surface.Config{
		Width:    p.Width,
		Height:   p.Height,
		Position: p.Position,
		Margin:   p.Margin,
	}
}

func (r *Runner) loadConfig() error {
	cfg, err := config.Load(r.cfgPath)
	if err != nil {
		return err
	}
	r.panel = cfg.Panel
	if cfg.Panel.ThemeName == "custom" && cfg.Panel.CustomTheme != nil {
		r.activeTheme = *cfg.Panel.CustomTheme
	} else {
		t, _ := theme.Lookup(cfg.Panel.ThemeName)
		r.activeTheme = t
	}

	r.instances = r.instances[:0]
	deps := widget.Deps{Weather: r.weather, Log: r.log}
	idx := 0
	for _, entry := range cfg.Widgets {
		if !entry.Enabled || !widget.Known(entry.Type) {
			continue
		}
		w, err := widget.New(entry.Type, entry.Config, deps)
		if err != nil {
			r.log.Warn().Err(err).Str("type", entry.Type).Msg("skipping invalid widget config")
			continue
		}
		r.instances = append(r.instances, &instance{w: w, index: idx})
		idx++
	}
	return nil
}

func (r *Runner) wirePointer() {
	r.wlPtr.OnMotion = func(_ uint32, x, y wlproto.FixedPoint) {
		r.router.Motion(r.targets(), x.Float(), y.Float())
	}
	r.wlPtr.OnLeave = func(uint32, uint32) {
		r.router.Leave()
	}
	r.wlPtr.OnButton = func(_, _, button uint32, state wlproto.PointerButtonState) {
		if state != wlproto.PointerButtonPressed {
			return
		}
		r.router.Button(r.targets(), mouseButtonFrom(button))
	}
	r.wlPtr.OnAxis = func(_ uint32, axis wlproto.PointerAxis, value wlproto.FixedPoint) {
		if axis != wlproto.PointerAxisVerticalScroll {
			return
		}
		dir := widget.ScrollDown
		if value.Float() < 0 {
			dir = widget.ScrollUp
		}
		r.router.Scroll(r.targets(), dir)
	}
	r.wlPtr.OnEnter = func(uint32, uint32, wlproto.FixedPoint, wlproto.FixedPoint) {}
	r.wlPtr.OnFrame = func() {}
}

// linuxEvdevBtnLeft is the evdev button code wl_pointer.button reports for
// the primary mouse button; BTN_RIGHT/BTN_MIDDLE follow it by 1 and 2.
const linuxEvdevBtnLeft = 0x110

func mouseButtonFrom(code uint32) widget.MouseButton {
	switch code {
	case linuxEvdevBtnLeft + 1:
		return widget.MouseRight
	case linuxEvdevBtnLeft + 2:
		return widget.MouseMiddle
	default:
		return widget.MouseLeft
	}
}

func (r *Runner) targets() []pointer.Target {
	targets := make([]pointer.Target, 0, len(r.instances))
	for _, rect := range r.currentRects() {
		for _, inst := range r.instances {
			if inst.index == rect.WidgetIndex {
				targets = append(targets, pointer.Target{Widget: inst.w, Rect: rect})
				break
			}
		}
	}
	return targets
}

func (r *Runner) currentRects() []layout.Rect {
	w, h := r.ctrl.Size()
	if w == 0 || h == 0 {
		return nil
	}
	items := make([]layout.Item, 0, len(r.instances))
	for _, inst := range r.instances {
		items = append(items, layout.Item{Index: inst.index, Info: inst.w.Info()})
	}
	interior := layout.Interior{
		X:      r.panel.Padding,
		Y:      r.panel.Padding,
		Width:  float64(w) - 2*r.panel.Padding,
		Height: float64(h) - 2*r.panel.Padding,
	}
	return layout.Stack(interior, items, r.panel.Spacing)
}

func (r *Runner) loopUntil(ctx context.Context) {
	dsp := r.ctrl.Display()
	fd := int32(dsp.Fd())

	for !r.shutdown {
		select {
		case <-ctx.Done():
			return
		default:
		}

		dsp.DispatchPending()
		if _, err := dsp.Flush(); err != nil {
			r.log.Error().Err(err).Msg("protocol connection lost")
			return
		}

		now := time.Now()
		dirty := r.tickDue(now)

		r.drainReload()

		if dirty && r.ctrl.State() == surface.StateConfigured {
			r.render()
		}

		timeout := r.nextWakeMillis(now)
		dsp.PrepareRead()
		pollfds := []unix.PollFd{{Fd: fd, Events: unix.POLLIN}}
		n, err := unix.Poll(pollfds, timeout)
		if err != nil && err != unix.EINTR {
			dsp.CancelRead()
			r.log.Error().Err(err).Msg("poll failed")
			return
		}
		if n > 0 && pollfds[0].Revents&unix.POLLIN != 0 {
			if err := dsp.ReadEvents(); err != nil {
				r.log.Error().Err(err).Msg("protocol connection lost")
				return
			}
		} else {
			dsp.CancelRead()
		}
	}
}

func (r *Runner) tickDue(now time.Time) bool {
	dirty := false
	for _, inst := range r.instances {
		if now.Sub(inst.lastTick) < inst.w.UpdateInterval() && inst.haveContent {
			continue
		}
		inst.w.Tick()
		inst.lastTick = now
		content := inst.w.Content()
		if !inst.haveContent || !content.Equal(inst.lastContent) {
			inst.lastContent = content
			inst.haveContent = true
			dirty = true
		}
	}
	return dirty
}

func (r *Runner) drainReload() {
	if r.watcher == nil {
		return
	}
	select {
	case <-r.watcher.Events:
		if err := r.loadConfig(); err != nil {
			r.log.Warn().Err(err).Msg("config reload failed, keeping previous configuration")
			return
		}
		rebuilt, err := r.ctrl.Reconfigure(surfaceConfigFrom(r.panel))
		if err != nil {
			r.log.Warn().Err(err).Msg("surface reconfigure failed")
			return
		}
		if rebuilt {
			r.log.Info().Msg("config changed geometry, rebuilding layer surface")
		} else {
			r.log.Info().Msg("config reloaded in place")
		}
	default:
	}
}

func (r *Runner) nextWakeMillis(now time.Time) int {
	wait := idleGuard
	for _, inst := range r.instances {
		due := inst.lastTick.Add(inst.w.UpdateInterval())
		remaining := due.Sub(now)
		if remaining < wait {
			wait = remaining
		}
	}
	if wait < 0 {
		wait = 0
	}
	return int(wait / time.Millisecond)
}

func (r *Runner) render() {
	w, h := r.ctrl.Size()
	if w == 0 || h == 0 {
		return
	}
	slot, err := r.ctrl.Pool.Acquire(w, h)
	if err != nil {
		r.log.Error().Err(err).Msg("no free buffer slot")
		return
	}

	canvas := raster.NewCanvas(slot.Pixels(), w, h)
	content := make(map[int]widget.Content, len(r.instances))
	for _, inst := range r.instances {
		content[inst.index] = inst.lastContent
	}

	render.Frame(&canvas, r.atlas, r.font, render.Inputs{
		Theme:              r.activeTheme,
		BackgroundOverride: r.panel.BackgroundOpacity,
		PanelWidth:         float64(w),
		PanelHeight:        float64(h),
		BorderWidth:        r.activeTheme.BorderWidth,
		CornerRadius:       r.activeTheme.CornerRadius,
		Rects:              r.currentRects(),
		Content:            content,
	})

	r.ctrl.Draw(slot)
}

// Shutdown requests the loop exit after finishing its current pass
// (§4.9: "drain after the current pass" on SIGINT/SIGTERM).
func (r *Runner) Shutdown() {
	r.shutdown = true
}
