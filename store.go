package voxevents

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/hupe1980/voxevents/buffer"
	"github.com/hupe1980/voxevents/codec"
	"github.com/hupe1980/voxevents/spatial"
)

// neverBuilt marks an index that has not been built for any buffer
// generation yet.
const neverBuilt = ^uint64(0)

// Store is the event store: the columnar event buffer plus the frame/time
// controller, the chunked-load contract and the lazy spatial index over
// the events of its source.
//
// The store assumes a single concurrent writer. Column reads are safe
// only while no Update/Resize/load is in flight. The spatial index is the
// exception: rebuilds and queries are internally serialized, so
// FindEvents may be called from multiple goroutines between mutations.
type Store struct {
	logger  *Logger
	metrics MetricsCollector

	source Source
	buf    *buffer.Buffer

	dt             float32
	duration       float32
	cutoffDistance float32
	currentTime    float32

	indexEnabled bool
	index        spatial.Index
	indexMu      sync.RWMutex
	builtGen     atomic.Uint64
	rebuildGroup singleflight.Group

	// Explicit instance state replacing what used to be hidden
	// function-local statics: the one-time "no index" advisory and the
	// running max hit count used to pre-size query buffers.
	warnedNoIndex atomic.Bool
	maxHits       atomic.Int64

	limiter *rate.Limiter

	chunkMu      sync.Mutex
	loadedChunks *roaring.Bitmap
}

// New creates a Store over the given source.
func New(source Source, opts ...Option) (*Store, error) {
	if source == nil {
		return nil, ErrNilSource
	}

	o := options{
		logger:       NewLogger(nil),
		metrics:      NoopMetricsCollector{},
		dt:           1,
		spatialIndex: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.dt <= 0 {
		return nil, ErrInvalidDt
	}
	if o.duration < 0 {
		return nil, ErrInvalidDuration
	}

	s := &Store{
		logger:         o.logger,
		metrics:        o.metrics,
		source:         source,
		dt:             o.dt,
		duration:       o.duration,
		cutoffDistance: o.cutoffDistance,
		currentTime:    UnsetTime,
		indexEnabled:   o.spatialIndex,
		limiter:        o.limiter,
		loadedChunks:   roaring.New(),
	}

	s.buf = buffer.New(func(bo *buffer.Options) {
		bo.Logger = o.logger.Logger
		bo.Capacity = o.bufferCapacity
	})

	if o.spatialIndex {
		s.index = spatial.NewRTree()
	} else {
		s.index = spatial.Noop{}
	}
	s.builtGen.Store(neverBuilt)

	return s, nil
}

// Buffer returns the underlying event buffer.
func (s *Store) Buffer() *buffer.Buffer {
	return s.buf
}

// NumEvents returns the logical number of events.
func (s *Store) NumEvents() int {
	return s.buf.Len()
}

// Resize sets the logical event count, reallocating only when the new
// size exceeds the current capacity.
func (s *Store) Resize(n int) {
	s.buf.Resize(n)
}

// Update writes event i into the buffer. See buffer.Buffer.Update for the
// stored-radius and out-of-range semantics.
func (s *Store) Update(i int, pos spatial.Point, radius, value float32) bool {
	return s.buf.Update(i, pos, radius, value)
}

// PositionsX returns the x position column. Read-only by contract.
func (s *Store) PositionsX() []float32 { return s.buf.PositionsX() }

// PositionsY returns the y position column. Read-only by contract.
func (s *Store) PositionsY() []float32 { return s.buf.PositionsY() }

// PositionsZ returns the z position column. Read-only by contract.
func (s *Store) PositionsZ() []float32 { return s.buf.PositionsZ() }

// Radii returns the radius column in stored (reciprocal) form. Read-only
// by contract.
func (s *Store) Radii() []float32 { return s.buf.Radii() }

// Values returns the value column; it may be overwritten in place by
// sampling passes.
func (s *Store) Values() []float32 { return s.buf.Values() }

// BoundingBox returns the merge-only box over all event positions.
func (s *Store) BoundingBox() spatial.Box {
	return s.buf.BoundingBox()
}

// SetBoundingBox replaces the bounding box.
func (s *Store) SetBoundingBox(box spatial.Box) {
	s.buf.SetBoundingBox(box)
}

// CutoffDistance returns the configured kernel support radius. The store
// stores it for consumers and does not interpret it.
func (s *Store) CutoffDistance() float32 {
	return s.cutoffDistance
}

// BuildIndex builds the spatial index if it is missing or stale. It is a
// no-op when the index is current or spatial indexing is disabled.
func (s *Store) BuildIndex() {
	if !s.indexEnabled {
		return
	}
	s.rebuildIndex()
}

// FindEvents returns the value of every event whose position lies within
// box, boundary inclusive, in unspecified order.
//
// The index is rebuilt lazily here: any buffer mutation invalidates it
// and the next query reconstructs it in full from the current buffer
// contents. Results may therefore trail a concurrent mutation by one
// rebuild; with a single writer this laziness is exact.
//
// When no index is available (indexing disabled, or no events) an empty
// result is returned and a one-time advisory is logged.
func (s *Store) FindEvents(box spatial.Box) []float32 {
	if !s.indexEnabled {
		s.warnNoIndex()
		return nil
	}

	s.rebuildIndex()

	start := time.Now()

	s.indexMu.RLock()
	defer s.indexMu.RUnlock()

	if s.index.Empty() {
		s.warnNoIndex()
		return nil
	}

	values := s.buf.Values()
	hits := make([]float32, 0, s.maxHits.Load())
	s.index.Search(box, func(ordinal uint32) {
		hits = append(hits, values[ordinal])
	})

	if n := int64(len(hits)); n > s.maxHits.Load() {
		s.maxHits.Store(n)
	}
	s.metrics.RecordQuery(len(hits), time.Since(start))

	return hits
}

// warnNoIndex emits the "index unavailable" advisory once. The flag is
// write-once; a duplicate emission under contention would be benign, the
// CAS merely keeps the common path quiet.
func (s *Store) warnNoIndex() {
	if s.warnedNoIndex.CompareAndSwap(false, true) {
		s.logger.Warn("spatial index unavailable for findEvents, no events will be returned")
	}
}

// rebuildIndex reconstructs the index when the buffer has mutated since
// the last build. Concurrent callers are coalesced; the one rebuild runs
// under the write lock, excluding queries.
func (s *Store) rebuildIndex() {
	if s.builtGen.Load() == s.buf.Generation() {
		return
	}

	s.rebuildGroup.Do("rebuild", func() (interface{}, error) {
		s.indexMu.Lock()
		defer s.indexMu.Unlock()

		gen := s.buf.Generation()
		if s.builtGen.Load() == gen {
			return nil, nil
		}

		start := time.Now()

		s.index.Clear()
		s.index.Build(s.buf.PositionsX(), s.buf.PositionsY(), s.buf.PositionsZ())
		s.builtGen.Store(gen)

		s.metrics.RecordIndexRebuild(s.buf.Len(), time.Since(start))
		s.logger.LogIndexRebuild(s.buf.Len())

		return nil, nil
	})
}

// NumChunks reports the chunk count of the underlying source.
func (s *Store) NumChunks() int {
	return s.source.NumChunks()
}

// Load populates the buffer with chunks [chunkIndex,
// chunkIndex+numChunks) by delegating to the source. It returns the
// number of events the source loaded.
//
// A zero- or negative-chunk request returns ErrNoChunks and a window
// beyond the source's chunk count returns a ChunkRangeError; both are
// caller contract violations and never touch the buffer.
func (s *Store) Load(chunkIndex, numChunks int) (int, error) {
	if numChunks <= 0 {
		return 0, ErrNoChunks
	}

	total := s.source.NumChunks()
	if chunkIndex < 0 || chunkIndex+numChunks > total {
		return 0, &ChunkRangeError{ChunkIndex: chunkIndex, NumChunks: numChunks, Total: total}
	}

	start := time.Now()
	events, err := s.source.LoadChunks(s.buf, chunkIndex, numChunks)
	s.metrics.RecordLoad(numChunks, events, time.Since(start), err)
	s.logger.LogLoad(chunkIndex, numChunks, events, err)

	if err != nil {
		return events, err
	}

	s.markLoaded(chunkIndex, numChunks)
	return events, nil
}

// LoadAll loads every chunk the source reports, as a convenience. With a
// load limiter configured the chunks are pulled one at a time at the
// configured rate; otherwise the whole window is delegated in one call.
// A source reporting zero chunks yields (0, nil): asking for everything
// from an empty source is not a contract violation. ctx is consulted only
// while waiting on the limiter.
func (s *Store) LoadAll(ctx context.Context) (int, error) {
	total := s.source.NumChunks()
	if total == 0 {
		return 0, nil
	}

	if s.limiter == nil {
		return s.Load(0, total)
	}

	loaded := 0
	for i := 0; i < total; i++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return loaded, err
		}
		events, err := s.Load(i, 1)
		loaded += events
		if err != nil {
			return loaded, err
		}
	}
	return loaded, nil
}

// ChunkLoaded reports whether chunk i was loaded through this store.
func (s *Store) ChunkLoaded(i int) bool {
	s.chunkMu.Lock()
	defer s.chunkMu.Unlock()
	return i >= 0 && s.loadedChunks.Contains(uint32(i))
}

// LoadedChunks returns the number of distinct chunks loaded so far.
func (s *Store) LoadedChunks() int {
	s.chunkMu.Lock()
	defer s.chunkMu.Unlock()
	return int(s.loadedChunks.GetCardinality())
}

func (s *Store) markLoaded(chunkIndex, numChunks int) {
	s.chunkMu.Lock()
	defer s.chunkMu.Unlock()
	s.loadedChunks.AddRange(uint64(chunkIndex), uint64(chunkIndex+numChunks))
}

// ReadFile loads the event file at path into the buffer, replacing the
// current contents. The format is sniffed from the file. A failed read
// leaves the buffer untouched.
func (s *Store) ReadFile(path string) error {
	start := time.Now()
	err := codec.DecodeFile(s.buf, path, func(o *codec.Options) {
		o.Logger = s.logger.Logger
	})
	s.metrics.RecordRead(s.buf.Len(), time.Since(start), err)
	s.logger.LogRead(path, s.buf.Len(), err)
	return err
}

// WriteFile writes the buffer's events to path in the given format.
func (s *Store) WriteFile(path string, format codec.Format) error {
	start := time.Now()
	err := codec.EncodeFile(path, s.buf, format)
	s.metrics.RecordWrite(s.buf.Len(), time.Since(start), err)
	s.logger.LogWrite(path, s.buf.Len(), err)
	return err
}
