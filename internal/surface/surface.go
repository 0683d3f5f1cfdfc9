// Package surface implements the layer-shell surface controller state
// machine described in specification §4.8: bind globals, configure, ack,
// attach, commit, resize, close.
package surface

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/bufferpool"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/wderr"
	"github.com/olafkfreund/cosmic-desktop-widget/internal/wlproto"
)

// State is one of the states in the §4.8 state machine.
type State int

const (
	StateUnbound State = iota
	StateBound
	StateConfigured
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateBound:
		return "bound"
	case StateConfigured:
		return "configured"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Namespace is the fixed identifier string this client advertises to the
// compositor for its layer surface.
const Namespace = "cosmic-desktop-widget"

// Position is one of the nine anchor positions from §4.8's anchor table.
type Position int

const (
	PositionTopLeft Position = iota
	PositionTopCenter
	PositionTopRight
	PositionCenterLeft
	PositionCenter
	PositionCenterRight
	PositionBottomLeft
	PositionBottomCenter
	PositionBottomRight
)

var positionNames = map[string]Position{
	"top-left":      PositionTopLeft,
	"top-center":    PositionTopCenter,
	"top-right":     PositionTopRight,
	"center-left":   PositionCenterLeft,
	"center":        PositionCenter,
	"center-right":  PositionCenterRight,
	"bottom-left":   PositionBottomLeft,
	"bottom-center": PositionBottomCenter,
	"bottom-right":  PositionBottomRight,
}

// ParsePosition parses a config-file position string, per §4.8's table.
func ParsePosition(s string) (Position, error) {
	p, ok := positionNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown position %q", s)
	}
	return p, nil
}

func anchorFor(p Position) wlproto.Anchor {
	switch p {
	case PositionTopLeft:
		return wlproto.AnchorTop | wlproto.AnchorLeft
	case PositionTopCenter:
		return wlproto.AnchorTop
	case PositionTopRight:
		return wlproto.AnchorTop | wlproto.AnchorRight
	case PositionCenterLeft:
		return wlproto.AnchorLeft
	case PositionCenter:
		return 0
	case PositionCenterRight:
		return wlproto.AnchorRight
	case PositionBottomLeft:
		return wlproto.AnchorBottom | wlproto.AnchorLeft
	case PositionBottomCenter:
		return wlproto.AnchorBottom
	case PositionBottomRight:
		return wlproto.AnchorBottom | wlproto.AnchorRight
	default:
		return 0
	}
}

// Margin is the four-sided margin in logical pixels; negatives allowed
// per §6.
type Margin struct {
	Top, Right, Bottom, Left int32
}

// Config is the subset of panel configuration that determines the
// surface's geometry and placement. Used both to build the initial
// surface and to decide in-place vs. rebuild on reload (§4.8).
type Config struct {
	Width, Height int
	Position      Position
	Margin        Margin
}

// RequiresRebuild reports whether any field that forces a layer-surface
// destroy+recreate changed between old and new (§4.8: "If any of {width,
// height, position, margins} changed, destroy the layer surface").
func (c Config) RequiresRebuild(o Config) bool {
	return c.Width != o.Width || c.Height != o.Height || c.Position != o.Position || c.Margin != o.Margin
}

// Controller drives the layer-shell state machine for one surface.
type Controller struct {
	log zerolog.Logger

	dsp        *wlproto.Display
	compositor *wlproto.Compositor
	shm        *wlproto.Shm
	seat       *wlproto.Seat
	layerShell *wlproto.LayerShell

	wlSurface    *wlproto.Surface
	layerSurface *wlproto.LayerSurface
	Pool         *bufferpool.Pool

	state  State
	cfg    Config
	width  int
	height int
	serial uint32

	OnConfigured func(w, h int)
	OnClosed     func()
}

// New constructs a controller in the Unbound state.
func New(log zerolog.Logger) *Controller {
	return &Controller{log: log, state: StateUnbound}
}

// Bind connects to the compositor and binds the globals this daemon
// needs, failing fast if the layer-shell global is absent (§4.8, §7
// StartupMissingGlobal): the single hard protocol requirement.
func (c *Controller) Bind() error {
	dsp, err := wlproto.Connect()
	if err != nil {
		return wderr.New(wderr.KindStartupMissingGlobal, fmt.Errorf("connect: %w", err))
	}
	c.dsp = dsp

	reg := dsp.Registry()
	reg.OnGlobal = func(name uint32, iface string, version uint32) {
		switch iface {
		case "wl_compositor":
			c.compositor = reg.BindCompositor(name, version)
		case "wl_shm":
			c.shm = reg.BindShm(name, version)
		case "wl_seat":
			c.seat = reg.BindSeat(name, version)
		case "zwlr_layer_shell_v1":
			c.layerShell = reg.BindLayerShell(name, version)
		}
	}
	if _, err := dsp.Roundtrip(); err != nil {
		return wderr.New(wderr.KindProtocolLost, fmt.Errorf("initial roundtrip: %w", err))
	}

	if c.compositor == nil || c.shm == nil {
		return wderr.New(wderr.KindStartupMissingGlobal, fmt.Errorf("wl_compositor or wl_shm not advertised"))
	}
	if c.layerShell == nil {
		return wderr.New(wderr.KindStartupMissingGlobal, fmt.Errorf("zwlr_layer_shell_v1 not advertised by this compositor"))
	}
	return nil
}

// Display returns the underlying connection, for the event loop's poll.
func (c *Controller) Display() *wlproto.Display { return c.dsp }

// Seat returns the bound seat, or nil if none was advertised (pointer
// input is then unavailable but not fatal).
func (c *Controller) Seat() *wlproto.Seat { return c.seat }

// Build creates the base surface and layer surface and performs the
// initial commit with no buffer attached, entering the Bound state.
func (c *Controller) Build(cfg Config) error {
	c.cfg = cfg
	c.wlSurface = c.compositor.CreateSurface()
	c.layerSurface = c.layerShell.GetLayerSurface(c.wlSurface, wlproto.LayerBottom, Namespace)
	c.layerSurface.OnConfigure = c.handleConfigure
	c.layerSurface.OnClosed = c.handleClosed

	c.layerSurface.SetSize(uint32(cfg.Width), uint32(cfg.Height))
	c.layerSurface.SetAnchor(anchorFor(cfg.Position))
	c.layerSurface.SetMargin(cfg.Margin.Top, cfg.Margin.Right, cfg.Margin.Bottom, cfg.Margin.Left)
	c.layerSurface.SetExclusiveZone(-1)
	c.layerSurface.SetKeyboardInteractivity(false)
	c.wlSurface.Commit()

	c.state = StateBound
	return nil
}

func (c *Controller) handleConfigure(serial uint32, w, h uint32) {
	c.layerSurface.AckConfigure(serial)
	c.serial = serial

	width, height := int(w), int(h)
	if width == 0 {
		width = c.cfg.Width
	}
	if height == 0 {
		height = c.cfg.Height
	}

	geometryChanged := c.state == StateConfigured && (width != c.width || height != c.height)
	c.width, c.height = width, height

	if c.Pool == nil {
		pool, err := bufferpool.New(c.shm, bufferpool.Geometry{Width: width, Height: height})
		if err != nil {
			c.log.Error().Err(err).Msg("buffer pool allocation failed")
			return
		}
		c.Pool = pool
	} else if geometryChanged {
		if err := c.Pool.Resize(width, height); err != nil {
			c.log.Error().Err(err).Msg("buffer pool resize failed")
			return
		}
	}

	c.state = StateConfigured
	if c.OnConfigured != nil {
		c.OnConfigured(width, height)
	}
}

func (c *Controller) handleClosed() {
	c.state = StateClosed
	if c.Pool != nil {
		c.Pool.Close()
		c.Pool = nil
	}
	if c.layerSurface != nil {
		c.layerSurface.Destroy()
	}
	if c.wlSurface != nil {
		c.wlSurface.Destroy()
	}
	if c.OnClosed != nil {
		c.OnClosed()
	}
}

// State returns the controller's current state.
func (c *Controller) State() State { return c.state }

// Size returns the last acked (width, height).
func (c *Controller) Size() (int, int) { return c.width, c.height }

// Draw attaches slot's buffer at (0,0), damages the
// full surface, and commits. Partial damage is out of scope for v1
// (§4.8, §9): the full buffer is always marked dirty.
func (c *Controller) Draw(slot *bufferpool.Slot) {
	if c.state != StateConfigured {
		return
	}
	c.wlSurface.Attach(slot.Handle(), 0, 0)
	c.wlSurface.Damage(0, 0, int32(c.width), int32(c.height))
	c.wlSurface.Commit()
}

// Reconfigure decides, per §4.8, whether newCfg can be applied in place
// (width, height, position and margins all unchanged: only the stored
// config is updated, nothing is sent to the compositor) or requires
// destroying and rebuilding the layer surface. When a rebuild is required,
// the old pool and surfaces are destroyed, Build creates new ones, and the
// controller is back in Bound, awaiting a fresh configure.
func (c *Controller) Reconfigure(newCfg Config) (rebuilt bool, err error) {
	if !newCfg.RequiresRebuild(c.cfg) {
		c.cfg = newCfg
		return false, nil
	}

	if c.Pool != nil {
		c.Pool.Close()
		c.Pool = nil
	}
	if c.layerSurface != nil {
		c.layerSurface.Destroy()
		c.layerSurface = nil
	}
	if c.wlSurface != nil {
		c.wlSurface.Destroy()
		c.wlSurface = nil
	}
	c.state = StateUnbound
	if err := c.Build(newCfg); err != nil {
		return true, err
	}
	return true, nil
}

// Shutdown destroys the pool and surface and disconnects, for orderly exit
// (SIGINT/SIGTERM, spec §4.9).
func (c *Controller) Shutdown() {
	if c.state == StateClosed {
		return
	}
	if c.Pool != nil {
		c.Pool.Close()
		c.Pool = nil
	}
	if c.layerSurface != nil {
		c.layerSurface.Destroy()
	}
	if c.wlSurface != nil {
		c.wlSurface.Destroy()
	}
	if c.compositor != nil {
		c.compositor.Destroy()
	}
	if c.shm != nil {
		c.shm.Destroy()
	}
	if c.layerShell != nil {
		c.layerShell.Destroy()
	}
	c.state = StateClosed
	if c.dsp != nil {
		c.dsp.Disconnect()
	}
}
