// Package wlproto provides partial cgo bindings for libwayland-client: just
// enough of wl_compositor, wl_shm, wl_seat/wl_pointer, and
// zwlr_layer_shell_v1 to negotiate and draw into a layer-shell surface. No
// thought has been given to code generation or supporting arbitrary,
// user-supplied protocol extensions — adapted from a generic libwayland
// binding down to the subset a background desktop widget needs.
package wlproto

// #cgo pkg-config: wayland-client
// #include <stdlib.h>
// #include <wayland-client.h>
// #include "protocol/wlr-layer-shell-client-protocol.h"
//
// int dispatcher(void *user_data, void *target, uint32_t opcode, struct wl_message *msg, union wl_argument *args);
import "C"

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"unicode"
	"unsafe"

	"honnef.co/go/safeish"
)

//go:generate ./generate_protocol.sh

var CompositorInterface = &C.wl_compositor_interface
var ShmInterface = &C.wl_shm_interface
var SeatInterface = &C.wl_seat_interface
var LayerShellInterface = &C.zwlr_layer_shell_v1_interface

// Display is a connection to the Wayland server. It owns the proxy table
// the cgo dispatcher consults to find the Go object an incoming event is
// addressed to.
type Display struct {
	hnd     *C.struct_wl_display
	proxies map[*C.struct_wl_proxy]any
	pinner  runtime.Pinner

	methods map[methodKey]reflect.Method
	// space reused by dispatcher for creating call args
	callArgs []reflect.Value
	// space reused by dispatcher for computing method name
	methName []byte
}

type methodKey struct {
	typ  reflect.Type
	name string
}

// Connect opens a connection to the compositor named by WAYLAND_DISPLAY
// (or the default socket if unset).
func Connect() (*Display, error) {
	dsp, err := C.wl_display_connect(nil)
	if dsp == nil {
		return nil, fmt.Errorf("couldn't connect to Wayland server: %s", err)
	}
	d := &Display{
		hnd:     dsp,
		proxies: make(map[*C.struct_wl_proxy]any),
		methods: make(map[methodKey]reflect.Method),
	}
	d.pinner.Pin(d)
	return d, nil
}

func (dsp *Display) Disconnect() {
	if dsp.hnd == nil {
		panic("double close of wlproto.Display")
	}
	C.wl_display_disconnect(dsp.hnd)
	dsp.hnd = nil
	dsp.pinner.Unpin()
}

// Fd returns the underlying socket file descriptor, for use in the event
// loop's poll/select wait.
func (dsp *Display) Fd() uintptr {
	return uintptr(C.wl_display_get_fd(dsp.hnd))
}

func (dsp *Display) Flush() (int, error) {
	n, err := C.wl_display_flush(dsp.hnd)
	return int(n), err
}

func (dsp *Display) PrepareRead() int {
	return int(C.wl_display_prepare_read(dsp.hnd))
}

func (dsp *Display) ReadEvents() error {
	n, err := C.wl_display_read_events(dsp.hnd)
	if n != 0 && err == nil {
		return errors.New("unexpected error in ReadEvents")
	}
	return err
}

func (dsp *Display) CancelRead() {
	C.wl_display_cancel_read(dsp.hnd)
}

// DispatchPending runs callbacks for events already queued locally,
// without blocking on the socket. This is what the event loop calls each
// pass to drain protocol events non-blockingly.
func (dsp *Display) DispatchPending() int {
	return int(C.wl_display_dispatch_pending(dsp.hnd))
}

func (dsp *Display) Roundtrip() (int, error) {
	n, err := C.wl_display_roundtrip(dsp.hnd)
	return int(n), err
}

func (dsp *Display) Registry() *Registry {
	reg := &Registry{
		dsp: dsp,
		hnd: C.wl_display_get_registry(dsp.hnd),
	}
	dsp.add((*C.struct_wl_proxy)(reg.hnd), reg)
	return reg
}

func (dsp *Display) add(proxy *C.struct_wl_proxy, obj any) {
	dsp.proxies[proxy] = obj
	dsp.addDispatcher(proxy)
}

func (dsp *Display) addDispatcher(proxy *C.struct_wl_proxy) {
	C.wl_proxy_add_dispatcher(proxy, (*[0]byte)(C.dispatcher), unsafe.Pointer(&dsp.hnd), nil)
}

func (dsp *Display) forget(proxy *C.struct_wl_proxy) {
	delete(dsp.proxies, proxy)
}

type Callback struct {
	dsp    *Display
	hnd    *C.struct_wl_callback
	OnDone func(data uint32)
}

func (cb *Callback) internal() any {
	return (*callback)(cb)
}

func (cb *Callback) Destroy() {
	C.wl_callback_destroy(cb.hnd)
	cb.dsp.forget((*C.struct_wl_proxy)(cb.hnd))
	cb.hnd = nil
}

type callback Callback

func (cb *callback) Done(data uint32) {
	(cb).OnDone(data)
	(*Callback)(cb).Destroy()
}

// Sync requests a round-trip completion callback: fn runs once the
// compositor has processed every request sent before Sync.
func (dsp *Display) Sync(fn func(data uint32)) {
	cb := &Callback{
		dsp:    dsp,
		hnd:    C.wl_display_sync(dsp.hnd),
		OnDone: fn,
	}
	dsp.add((*C.struct_wl_proxy)(cb.hnd), cb)
}

//export dispatcher
func dispatcher(
	data unsafe.Pointer,
	target unsafe.Pointer,
	opcode uint32,
	msg *C.struct_wl_message,
	args *C.union_wl_argument,
) C.int {
	dsp := (*Display)(data)
	sig := C.GoString(msg.signature)
	obj := dsp.proxies[(*C.struct_wl_proxy)(target)]
	if obj == nil {
		panic("wlproto: event for unknown proxy")
	}

	n := safeish.FindNull(safeish.Cast[*byte](msg.name))
	methNameB := dsp.methName
	if cap(methNameB) >= n {
		methNameB = methNameB[:n]
	} else {
		methNameB = make([]byte, n)
		dsp.methName = methNameB[:0]
	}
	copy(methNameB, unsafe.Slice(safeish.Cast[*byte](msg.name), n))
	// Wayland doesn't use Unicode in event names, so this is fine.
	methNameB[0] = byte(unicode.ToUpper(rune(methNameB[0])))
	methName := unsafe.String(&methNameB[0], len(methNameB))

	var meth reflect.Value
	var recv reflect.Value
	if inter, ok := obj.(internaler); ok {
		internal := inter.internal()
		typ := reflect.TypeOf(internal)
		tmeth, ok := dsp.methods[methodKey{typ: typ, name: methName}]
		if !ok {
			tmeth, ok = typ.MethodByName(methName)
			if !ok {
				panic(fmt.Sprintf("wlproto: couldn't find method %q on %T", methNameB, inter.internal()))
			}
			dsp.methods[methodKey{typ: typ, name: strings.Clone(methName)}] = tmeth
		}
		meth = tmeth.Func
		recv = reflect.ValueOf(internal)
	} else {
		meth = reflect.ValueOf(obj).Elem().FieldByName("On" + methName)
		if !meth.IsValid() {
			panic(fmt.Sprintf("wlproto: couldn't find field %q on %T", "On"+methName, obj))
		}
	}
	if meth.IsNil() {
		return 0
	}

	var i int
	var argOffset int
	callArgs := dsp.callArgs[:0]
	if recv.IsValid() {
		i++
		argOffset = -1
		callArgs = append(callArgs, recv)
	}
	for _, c := range sig {
		arg := unsafe.Add(unsafe.Pointer(args), (i+argOffset)*len(C.union_wl_argument{}))
		switch c {
		case 'i':
			callArgs = append(callArgs, reflect.ValueOf(*(*int32)(arg)).Convert(meth.Type().In(int(i))))
		case 'u':
			callArgs = append(callArgs, reflect.ValueOf(*(*uint32)(arg)).Convert(meth.Type().In(int(i))))
		case 'f':
			callArgs = append(callArgs, reflect.ValueOf(*(*C.wl_fixed_t)(arg)))
		case 's':
			callArgs = append(callArgs, reflect.ValueOf(C.GoString(*(**C.char)(arg))))
		case 'o':
			callArgs = append(callArgs, reflect.ValueOf(*(*uint32)(arg)).Convert(meth.Type().In(int(i))))
		case 'n':
			panic("wlproto: new-id args unsupported on incoming events")
		case 'a':
			arr := *(**C.struct_wl_array)(arg)
			switch elem := meth.Type().In(int(i)).Elem(); elem {
			case reflect.TypeOf(int32(0)):
				callArgs = append(callArgs, reflect.ValueOf(unsafe.Slice((*int32)(arr.data), arr.size/4)))
			case reflect.TypeOf(uint32(0)):
				callArgs = append(callArgs, reflect.ValueOf(unsafe.Slice((*uint32)(arr.data), arr.size/4)))
			default:
				panic(fmt.Sprintf("wlproto: unsupported array element type %s", elem))
			}
		case 'h':
			panic("wlproto: fd args unsupported")
		case '?':
			continue
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			continue
		default:
			panic(c)
		}
		i++
	}
	if !meth.IsNil() {
		meth.Call(callArgs)
	}
	dsp.callArgs = callArgs[:0]
	return 0
}

type Registry struct {
	dsp *Display
	hnd *C.struct_wl_registry

	OnGlobal       func(name uint32, iface string, version uint32)
	OnGlobalRemove func(name uint32)
}

type internaler interface {
	internal() any
}

func (reg *Registry) Destroy() {
	C.wl_registry_destroy(reg.hnd)
	reg.dsp.forget((*C.struct_wl_proxy)(reg.hnd))
	reg.hnd = nil
}

func (reg *Registry) bind(name uint32, iface *C.struct_wl_interface, vers uint32) *C.struct_wl_proxy {
	return (*C.struct_wl_proxy)(C.wl_registry_bind(reg.hnd, C.uint(name), iface, C.uint(vers)))
}

func (reg *Registry) BindCompositor(name uint32, vers uint32) *Compositor {
	comp := &Compositor{dsp: reg.dsp, hnd: (*C.struct_wl_compositor)(reg.bind(name, CompositorInterface, vers)), vers: int(vers)}
	reg.dsp.add((*C.struct_wl_proxy)(comp.hnd), comp)
	return comp
}

func (reg *Registry) BindShm(name uint32, vers uint32) *Shm {
	shm := &Shm{dsp: reg.dsp, hnd: (*C.struct_wl_shm)(reg.bind(name, ShmInterface, vers)), vers: int(vers)}
	reg.dsp.add((*C.struct_wl_proxy)(shm.hnd), shm)
	return shm
}

func (reg *Registry) BindSeat(name uint32, vers uint32) *Seat {
	seat := &Seat{dsp: reg.dsp, hnd: (*C.struct_wl_seat)(reg.bind(name, SeatInterface, vers)), vers: int(vers)}
	reg.dsp.add((*C.struct_wl_proxy)(seat.hnd), seat)
	return seat
}

func (reg *Registry) BindLayerShell(name uint32, vers uint32) *LayerShell {
	ls := &LayerShell{dsp: reg.dsp, hnd: (*C.struct_zwlr_layer_shell_v1)(reg.bind(name, LayerShellInterface, vers)), vers: int(vers)}
	reg.dsp.add((*C.struct_wl_proxy)(ls.hnd), ls)
	return ls
}

type Compositor struct {
	dsp  *Display
	hnd  *C.struct_wl_compositor
	vers int
}

func (comp *Compositor) Version() int { return comp.vers }

func (comp *Compositor) CreateSurface() *Surface {
	surf := &Surface{dsp: comp.dsp, hnd: C.wl_compositor_create_surface(comp.hnd), vers: comp.vers}
	comp.dsp.add((*C.struct_wl_proxy)(surf.hnd), surf)
	return surf
}

func (comp *Compositor) Destroy() {
	C.wl_compositor_destroy(comp.hnd)
	comp.dsp.forget((*C.struct_wl_proxy)(comp.hnd))
}

type Surface struct {
	dsp  *Display
	hnd  *C.struct_wl_surface
	vers int
}

func (surf *Surface) Version() int { return surf.vers }

func (surf *Surface) Handle() unsafe.Pointer { return unsafe.Pointer(surf.hnd) }

func (surf *Surface) Destroy() {
	C.wl_surface_destroy(surf.hnd)
	surf.dsp.forget((*C.struct_wl_proxy)(surf.hnd))
}

func (surf *Surface) Attach(buf *Buffer, x, y int32) {
	C.wl_surface_attach(surf.hnd, buf.hnd, C.int32_t(x), C.int32_t(y))
}

func (surf *Surface) Damage(x, y, width, height int32) {
	C.wl_surface_damage(surf.hnd, C.int(x), C.int(y), C.int(width), C.int(height))
}

func (surf *Surface) Commit() {
	C.wl_surface_commit(surf.hnd)
}

type Shm struct {
	dsp  *Display
	hnd  *C.struct_wl_shm
	vers int
	OnFormat func(format uint32)
}

func (shm *Shm) Version() int { return shm.vers }

func (shm *Shm) Destroy() {
	C.wl_shm_destroy(shm.hnd)
	shm.dsp.forget((*C.struct_wl_proxy)(shm.hnd))
}

func (shm *Shm) CreatePool(fd int32, sz int32) *ShmPool {
	pool := &ShmPool{dsp: shm.dsp, hnd: C.wl_shm_create_pool(shm.hnd, C.int(fd), C.int(sz)), vers: shm.vers}
	shm.dsp.add((*C.struct_wl_proxy)(pool.hnd), pool)
	return pool
}

type ShmPool struct {
	dsp  *Display
	hnd  *C.struct_wl_shm_pool
	vers int
}

func (pool *ShmPool) Version() int { return pool.vers }

func (pool *ShmPool) Destroy() {
	C.wl_shm_pool_destroy(pool.hnd)
	pool.dsp.forget((*C.struct_wl_proxy)(pool.hnd))
}

func (pool *ShmPool) Resize(sz int32) {
	C.wl_shm_pool_resize(pool.hnd, C.int32_t(sz))
}

func (pool *ShmPool) CreateBuffer(offset, width, height, stride int32, format ShmFormat) *Buffer {
	buf := &Buffer{dsp: pool.dsp, hnd: C.wl_shm_pool_create_buffer(pool.hnd, C.int(offset), C.int(width), C.int(height), C.int(stride), C.uint(format))}
	pool.dsp.add((*C.struct_wl_proxy)(buf.hnd), buf)
	return buf
}

// ShmFormat is the pixel format of a shm buffer. Only Argb8888 is used by
// this daemon.
type ShmFormat uint32

const (
	ShmFormatArgb8888 ShmFormat = 0
	ShmFormatXrgb8888 ShmFormat = 1
)

type Buffer struct {
	dsp       *Display
	hnd       *C.struct_wl_buffer
	OnRelease func()
}

func (buf *Buffer) Destroy() {
	C.wl_buffer_destroy(buf.hnd)
	buf.dsp.forget((*C.struct_wl_proxy)(buf.hnd))
	buf.hnd = nil
}
