// Package buffer owns the columnar event storage.
//
// Events are kept as a structure-of-arrays: five float32 columns (position
// x/y/z, radius, value) carved out of a single 32-byte-aligned block, so
// downstream sampling kernels can stream a column with vector loads.
//
// The radius column holds the reciprocal of the radius passed to Update
// (zero stays zero). This is a stored-representation detail: it turns a
// per-sample division into a multiplication in the sampling kernels and is
// irreversible without the original value.
//
// The buffer assumes a single writer. Column reads are safe only while no
// Resize, Update or load is in flight.
package buffer

import (
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/hupe1980/voxevents/internal/mem"
	"github.com/hupe1980/voxevents/spatial"
)

// Epsilon is the float32 machine epsilon. Radii at or below it (in
// magnitude) are stored verbatim instead of inverted.
const Epsilon = float32(1.1920929e-07)

const numColumns = 5

const (
	colPosX = iota
	colPosY
	colPosZ
	colRadius
	colValue
)

// Options configures a Buffer.
type Options struct {
	// Logger receives soft-failure warnings. Defaults to slog.Default().
	Logger *slog.Logger

	// Capacity pre-allocates room for that many events.
	Capacity int
}

// Buffer is the aligned, resizable columnar array of event fields.
type Buffer struct {
	logger *slog.Logger

	data      []float32 // columns at stride allocSize
	numEvents int
	allocSize int

	bbox spatial.Box
	gen  atomic.Uint64
}

// New creates an empty buffer.
func New(optFns ...func(o *Options)) *Buffer {
	opts := Options{
		Logger: slog.Default(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	b := &Buffer{
		logger: opts.Logger,
		bbox:   spatial.EmptyBox(),
	}
	if opts.Capacity > 0 {
		b.allocSize = opts.Capacity
		b.data = mem.AllocAlignedFloat32(opts.Capacity * numColumns)
	}
	return b
}

// Len returns the logical number of events.
func (b *Buffer) Len() int {
	return b.numEvents
}

// Cap returns the allocated capacity in events. It may exceed Len after a
// shrink: shrinking never reallocates, only updates the logical size.
func (b *Buffer) Cap() int {
	return b.allocSize
}

// Generation returns the mutation counter. It increases on every Resize,
// Update and SetStored, letting derived structures such as the spatial
// index detect staleness.
func (b *Buffer) Generation() uint64 {
	return b.gen.Load()
}

// Resize sets the logical size to n events.
//
// Within the current capacity no reallocation occurs. Growing beyond it
// allocates a fresh aligned block and invalidates any previously issued
// column slices; contents inside the old logical size are carried over,
// slots beyond it are undefined until rewritten.
func (b *Buffer) Resize(n int) {
	if n < 0 {
		n = 0
	}

	defer b.gen.Add(1)

	if n <= b.allocSize {
		b.numEvents = n
		return
	}

	data := mem.AllocAlignedFloat32(n * numColumns)
	if b.numEvents > 0 {
		for c := 0; c < numColumns; c++ {
			copy(data[c*n:c*n+b.numEvents], b.data[c*b.allocSize:c*b.allocSize+b.numEvents])
		}
	}

	b.data = data
	b.allocSize = n
	b.numEvents = n
}

// Update writes event i. The radius is stored as 1/radius unless its
// magnitude is at or below Epsilon, in which case it is stored verbatim
// (typically 0). The position is merged into the bounding box.
//
// An out-of-range index logs a warning and drops the event, returning
// false. Callers needing strict semantics must bounds-check themselves.
func (b *Buffer) Update(i int, pos spatial.Point, radius, value float32) bool {
	stored := radius
	if abs32(radius) > Epsilon {
		stored = 1 / radius
	}
	return b.set(i, pos, stored, value)
}

// SetStored writes event i with the radius column taken verbatim, for
// callers that already hold the stored (reciprocal) representation, such
// as the persistence codec and chunk loaders replaying event files.
func (b *Buffer) SetStored(i int, pos spatial.Point, storedRadius, value float32) bool {
	return b.set(i, pos, storedRadius, value)
}

func (b *Buffer) set(i int, pos spatial.Point, storedRadius, value float32) bool {
	if i < 0 || i >= b.numEvents {
		b.logger.Warn("event index out of range, event dropped",
			"index", i,
			"num_events", b.numEvents,
		)
		return false
	}

	b.bbox.Merge(pos)

	b.data[i+b.allocSize*colPosX] = pos[0]
	b.data[i+b.allocSize*colPosY] = pos[1]
	b.data[i+b.allocSize*colPosZ] = pos[2]
	b.data[i+b.allocSize*colRadius] = storedRadius
	b.data[i+b.allocSize*colValue] = value

	b.gen.Add(1)
	return true
}

func (b *Buffer) column(c int) []float32 {
	if b.numEvents == 0 {
		return nil
	}
	off := c * b.allocSize
	return b.data[off : off+b.numEvents : off+b.numEvents]
}

// PositionsX returns the x position column. Read-only by contract.
func (b *Buffer) PositionsX() []float32 { return b.column(colPosX) }

// PositionsY returns the y position column. Read-only by contract.
func (b *Buffer) PositionsY() []float32 { return b.column(colPosY) }

// PositionsZ returns the z position column. Read-only by contract.
func (b *Buffer) PositionsZ() []float32 { return b.column(colPosZ) }

// Radii returns the radius column in its stored (reciprocal) form.
// Read-only by contract.
func (b *Buffer) Radii() []float32 { return b.column(colRadius) }

// Values returns the value column. Unlike the other columns it may be
// written in place: sampling passes overwrite values per frame without
// re-deriving geometry. In-place writes bypass the mutation counter, which
// is fine because the spatial index holds positions only.
func (b *Buffer) Values() []float32 { return b.column(colValue) }

// BoundingBox returns the axis-aligned box over every position ever
// written. It only grows, unless reset via SetBoundingBox.
func (b *Buffer) BoundingBox() spatial.Box {
	return b.bbox
}

// SetBoundingBox replaces the bounding box. Owners use it to reset or
// widen the box independently of the stored events.
func (b *Buffer) SetBoundingBox(box spatial.Box) {
	b.bbox = box
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
