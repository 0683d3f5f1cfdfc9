package wlproto

// #include <wayland-client.h>
import "C"

// Seat binds wl_seat, the source of pointer input. Keyboard and touch are
// not bound: the daemon is pointer-only (spec non-goal: keyboard/clipboard
// input).
type Seat struct {
	dsp  *Display
	hnd  *C.struct_wl_seat
	vers int

	OnCapabilities func(caps uint32)
	OnName         func(name string)
}

// SeatCapabilityPointer is the wl_seat capability bit for pointer support.
const SeatCapabilityPointer = 1

func (seat *Seat) Version() int { return seat.vers }

func (seat *Seat) Destroy() {
	C.wl_seat_destroy(seat.hnd)
	seat.dsp.forget((*C.struct_wl_proxy)(seat.hnd))
}

func (seat *Seat) GetPointer() *Pointer {
	p := &Pointer{dsp: seat.dsp, hnd: C.wl_seat_get_pointer(seat.hnd)}
	seat.dsp.add((*C.struct_wl_proxy)(p.hnd), p)
	return p
}

// PointerButtonState mirrors wl_pointer.button_state.
type PointerButtonState uint32

const (
	PointerButtonReleased PointerButtonState = 0
	PointerButtonPressed  PointerButtonState = 1
)

// PointerAxis mirrors wl_pointer.axis.
type PointerAxis uint32

const (
	PointerAxisVerticalScroll   PointerAxis = 0
	PointerAxisHorizontalScroll PointerAxis = 1
)

// Pointer delivers motion/button/axis/enter/leave events for the single
// seat this daemon cares about. Fields use the same internal()-indirection
// pattern as LayerSurface because "Enter"/"Leave" collide with common Go
// identifiers elsewhere in a consuming package.
type Pointer struct {
	dsp *Display
	hnd *C.struct_wl_pointer

	OnEnter  func(serial uint32, surfaceID uint32, x, y FixedPoint)
	OnLeave  func(serial uint32, surfaceID uint32)
	OnMotion func(time uint32, x, y FixedPoint)
	OnButton func(serial, time, button uint32, state PointerButtonState)
	OnAxis   func(time uint32, axis PointerAxis, value FixedPoint)
	OnFrame  func()
}

func (p *Pointer) internal() any { return (*pointer)(p) }

type pointer Pointer

func (p *pointer) Enter(serial uint32, surfaceID uint32, x, y C.wl_fixed_t) {
	p.OnEnter(serial, surfaceID, FixedPoint(x), FixedPoint(y))
}

func (p *pointer) Leave(serial uint32, surfaceID uint32) {
	p.OnLeave(serial, surfaceID)
}

func (p *pointer) Motion(time uint32, x, y C.wl_fixed_t) {
	p.OnMotion(time, FixedPoint(x), FixedPoint(y))
}

func (p *pointer) Button(serial, time, button, state uint32) {
	p.OnButton(serial, time, button, PointerButtonState(state))
}

func (p *pointer) Axis(time uint32, axis uint32, value C.wl_fixed_t) {
	p.OnAxis(time, PointerAxis(axis), FixedPoint(value))
}

func (p *pointer) Frame() {
	if p.OnFrame != nil {
		p.OnFrame()
	}
}

func (p *Pointer) Destroy() {
	C.wl_pointer_destroy(p.hnd)
	p.dsp.forget((*C.struct_wl_proxy)(p.hnd))
}

// FixedPoint is a wl_fixed_t (24.8 signed fixed point) coordinate.
type FixedPoint int32

// Float converts a wl_fixed_t to a float64 pixel value.
func (f FixedPoint) Float() float64 {
	return float64(f) / 256
}
