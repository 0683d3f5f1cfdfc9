package wlproto

// #include <wayland-client.h>
// #include "protocol/wlr-layer-shell-client-protocol.h"
import "C"

import "unsafe"

// Layer mirrors the zwlr_layer_shell_v1 layer enum. The widget daemon only
// ever uses LayerBottom (§4.8: "layer = bottom").
type Layer uint32

const (
	LayerBackground Layer = 0
	LayerBottom     Layer = 1
	LayerTop        Layer = 2
	LayerOverlay    Layer = 3
)

// Anchor is a bitmask of zwlr_layer_surface_v1 anchor edges.
type Anchor uint32

const (
	AnchorTop    Anchor = 1
	AnchorBottom Anchor = 2
	AnchorLeft   Anchor = 4
	AnchorRight  Anchor = 8
)

type LayerShell struct {
	dsp  *Display
	hnd  *C.struct_zwlr_layer_shell_v1
	vers int
}

func (ls *LayerShell) Version() int { return ls.vers }

func (ls *LayerShell) Destroy() {
	C.zwlr_layer_shell_v1_destroy(ls.hnd)
	ls.dsp.forget((*C.struct_wl_proxy)(ls.hnd))
}

// GetLayerSurface creates a layer surface for surf, pinned to layer, with
// no specific output (nil) so the compositor places it on the first
// available one, and namespace identifying this client to the compositor.
func (ls *LayerShell) GetLayerSurface(surf *Surface, layer Layer, namespace string) *LayerSurface {
	cns := C.CString(namespace)
	defer cFree(cns)
	lsurf := &LayerSurface{
		dsp: ls.dsp,
		hnd: C.zwlr_layer_shell_v1_get_layer_surface(ls.hnd, surf.hnd, nil, C.uint32_t(layer), cns),
	}
	ls.dsp.add((*C.struct_wl_proxy)(lsurf.hnd), lsurf)
	return lsurf
}

// LayerSurface is the zwlr_layer_surface_v1 proxy driving the surface
// controller's state machine (§4.8).
type LayerSurface struct {
	dsp *Display
	hnd *C.struct_zwlr_layer_surface_v1

	OnConfigure func(serial uint32, width, height uint32)
	OnClosed    func()
}

func (s *LayerSurface) internal() any { return (*layerSurface)(s) }

type layerSurface LayerSurface

func (s *layerSurface) Configure(serial uint32, width, height uint32) {
	s.OnConfigure(serial, width, height)
}

func (s *layerSurface) Closed() {
	s.OnClosed()
}

func (s *LayerSurface) SetSize(w, h uint32) {
	C.zwlr_layer_surface_v1_set_size(s.hnd, C.uint32_t(w), C.uint32_t(h))
}

func (s *LayerSurface) SetAnchor(a Anchor) {
	C.zwlr_layer_surface_v1_set_anchor(s.hnd, C.uint32_t(a))
}

func (s *LayerSurface) SetMargin(top, right, bottom, left int32) {
	C.zwlr_layer_surface_v1_set_margin(s.hnd, C.int32_t(top), C.int32_t(right), C.int32_t(bottom), C.int32_t(left))
}

func (s *LayerSurface) SetExclusiveZone(zone int32) {
	C.zwlr_layer_surface_v1_set_exclusive_zone(s.hnd, C.int32_t(zone))
}

func (s *LayerSurface) SetKeyboardInteractivity(interactive bool) {
	var v C.uint32_t
	if interactive {
		v = 1
	}
	C.zwlr_layer_surface_v1_set_keyboard_interactivity(s.hnd, v)
}

func (s *LayerSurface) AckConfigure(serial uint32) {
	C.zwlr_layer_surface_v1_ack_configure(s.hnd, C.uint32_t(serial))
}

func (s *LayerSurface) Destroy() {
	C.zwlr_layer_surface_v1_destroy(s.hnd)
	s.dsp.forget((*C.struct_wl_proxy)(s.hnd))
}

func cFree(p *C.char) {
	C.free(unsafe.Pointer(p))
}
