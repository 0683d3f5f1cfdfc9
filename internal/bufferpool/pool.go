// Package bufferpool manages the shared-memory-backed buffer slots the
// render driver writes pixels into and the surface controller attaches to
// the compositor. See specification §4.4.
package bufferpool

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
	"honnef.co/go/safeish"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/wlproto"
)

// SlotCount is the target number of slots kept per pool generation: one
// being drawn into while the other is still owned by the compositor.
const SlotCount = 2

// Geometry is a buffer's pixel dimensions and derived stride.
type Geometry struct {
	Width, Height int
}

func (g Geometry) stride() int { return g.Width * 4 }
func (g Geometry) size() int   { return g.stride() * g.Height }

// Slot is one shared-memory-backed buffer: a compositor-side wl_buffer
// proxy plus the mapped byte range the render driver writes into.
type Slot struct {
	handle *wlproto.Buffer
	pix    []byte
	inUse  bool
}

// Pixels returns the writable ARGB8888 byte slice for this slot. Must only
// be called between Acquire and the following Commit; mutating it after
// handing the slot to the compositor is a protocol-violating data race.
func (s *Slot) Pixels() []byte { return s.pix }

// Handle returns the compositor-facing buffer proxy, for Surface.Attach.
func (s *Slot) Handle() *wlproto.Buffer { return s.handle }

// Pool owns a generation of shm-backed slots at a single geometry. When
// the geometry changes, Resize tears the current generation down and
// allocates a new one (a fresh shm file and slots) in the same Pool.
type Pool struct {
	shm      *wlproto.Shm
	geometry Geometry
	shmPool  *wlproto.ShmPool
	file     *os.File
	mapping  []byte
	slots    []*Slot
}

// New allocates a pool of SlotCount slots at the given geometry, backed by
// one memfd shared-memory region of stride*h*SlotCount bytes.
func New(shm *wlproto.Shm, geom Geometry) (*Pool, error) {
	p := &Pool{shm: shm, geometry: geom}
	if err := p.allocate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pool) allocate() error {
	total := p.geometry.size() * SlotCount
	if total <= 0 {
		return fmt.Errorf("bufferpool: non-positive size for geometry %+v", p.geometry)
	}

	f, err := memfdCreate("cosmic-desktop-widget-shm")
	if err != nil {
		return fmt.Errorf("bufferpool: create shm region: %w", err)
	}
	if err := f.Truncate(int64(total)); err != nil {
		f.Close()
		return fmt.Errorf("bufferpool: truncate shm region: %w", err)
	}

	mapping, err := unix.Mmap(int(f.Fd()), 0, total, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return fmt.Errorf("bufferpool: mmap shm region: %w", err)
	}

	shmPool := p.shm.CreatePool(int32(f.Fd()), int32(total))

	slots := make([]*Slot, SlotCount)
	stride := p.geometry.stride()
	for i := 0; i < SlotCount; i++ {
		offset := i * p.geometry.size()
		buf := shmPool.CreateBuffer(int32(offset), int32(p.geometry.Width), int32(p.geometry.Height), int32(stride), wlproto.ShmFormatArgb8888)
		slot := &Slot{handle: buf}
		// safeish.Cast reinterprets the mmap'd region's base pointer; the
		// slot's byte range is a sub-slice of the single mmap mapping, the
		// same technique the teacher uses to bridge cgo memory into Go
		// slices without copying.
		base := safeish.Cast[*byte](&mapping[offset])
		slot.pix = unsafe.Slice(base, p.geometry.size())
		buf.OnRelease = func(s *Slot) func() {
			return func() { s.inUse = false }
		}(slot)
		slots[i] = slot
	}

	p.file = f
	p.mapping = mapping
	p.shmPool = shmPool
	p.slots = slots
	return nil
}

// Acquire returns a free slot at the pool's current geometry, blocking on
// nothing: if no slot is free, Acquire returns an error rather than
// waiting, since the render driver is expected to skip a frame rather than
// stall the event loop (§7: BufferAlloc at runtime skips the frame).
func (p *Pool) Acquire(w, h int) (*Slot, error) {
	if w != p.geometry.Width || h != p.geometry.Height {
		return nil, fmt.Errorf("bufferpool: geometry mismatch, call Resize first")
	}
	for _, s := range p.slots {
		if !s.inUse {
			s.inUse = true
			return s, nil
		}
	}
	return nil, fmt.Errorf("bufferpool: no free slot (all %d in use)", SlotCount)
}

// Release marks handle's slot free again, called from the buffer-released
// protocol callback. Safe to call even if the slot was already released.
func (p *Pool) Release(handle *wlproto.Buffer) {
	for _, s := range p.slots {
		if s.handle == handle {
			s.inUse = false
			return
		}
	}
}

// Resize invalidates all slots and reallocates the shm region at the new
// geometry. Any slot in use when Resize is called is abandoned along with
// the old mapping — callers must not hold a Slot across Resize.
func (p *Pool) Resize(w, h int) error {
	p.teardown()
	p.geometry = Geometry{Width: w, Height: h}
	return p.allocate()
}

func (p *Pool) teardown() {
	for _, s := range p.slots {
		if s.handle != nil {
			s.handle.Destroy()
		}
	}
	p.slots = nil
	if p.shmPool != nil {
		p.shmPool.Destroy()
		p.shmPool = nil
	}
	if p.mapping != nil {
		unix.Munmap(p.mapping)
		p.mapping = nil
	}
	if p.file != nil {
		p.file.Close()
		p.file = nil
	}
}

// Close tears down the pool's shared-memory region and all slots.
func (p *Pool) Close() {
	p.teardown()
}
