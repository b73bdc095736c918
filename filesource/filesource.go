// Package filesource provides a Source over an on-disk event file.
//
// The file (binary or text, sniffed by the codec) is parsed once at
// construction; the chunked-load contract is then served by slicing the
// parsed event set into fixed-size chunks. It is the file-backed loader
// shape used when a whole simulation output fits on local disk but should
// still be pulled into the buffer incrementally.
package filesource

import (
	"log/slog"

	"github.com/hupe1980/voxevents"
	"github.com/hupe1980/voxevents/buffer"
	"github.com/hupe1980/voxevents/codec"
	"github.com/hupe1980/voxevents/internal/mmap"
	"github.com/hupe1980/voxevents/spatial"
)

// DefaultChunkSize is the number of events served per chunk.
const DefaultChunkSize = 4096

// Options configures a Source.
type Options struct {
	// Kind reported to the store. Event files carry no frame binning, so
	// the default is KindEvent.
	Kind voxevents.SourceKind

	// T0 and T1 span the data's time interval. The event file format has
	// no time column; the interval comes from the owning context.
	T0, T1 float32

	// ChunkSize is the number of events per chunk. Defaults to
	// DefaultChunkSize.
	ChunkSize int

	// Logger receives codec advisories. Defaults to slog.Default().
	Logger *slog.Logger
}

// Source serves the chunked-load contract from a parsed event file.
type Source struct {
	kind      voxevents.SourceKind
	t0, t1    float32
	chunkSize int
	events    *codec.EventData
}

var _ voxevents.Source = (*Source)(nil)

// New parses the event file at path and returns a Source over it.
func New(path string, optFns ...func(o *Options)) (*Source, error) {
	opts := Options{
		Kind:      voxevents.KindEvent,
		ChunkSize: DefaultChunkSize,
		Logger:    slog.Default(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}

	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	events, err := codec.Parse(m.Data, func(o *codec.Options) {
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}

	return &Source{
		kind:      opts.Kind,
		t0:        opts.T0,
		t1:        opts.T1,
		chunkSize: opts.ChunkSize,
		events:    events,
	}, nil
}

// Kind implements voxevents.Source.
func (s *Source) Kind() voxevents.SourceKind {
	return s.kind
}

// TimeRange implements voxevents.Source.
func (s *Source) TimeRange() (float32, float32) {
	return s.t0, s.t1
}

// NumEvents returns the total event count of the file.
func (s *Source) NumEvents() int {
	return s.events.Len()
}

// NumChunks implements voxevents.Source.
func (s *Source) NumChunks() int {
	return (s.events.Len() + s.chunkSize - 1) / s.chunkSize
}

// LoadChunks implements voxevents.Source. The buffer is sized for the
// whole file so event ordinals stay stable no matter which chunk windows
// have been loaded.
func (s *Source) LoadChunks(buf *buffer.Buffer, chunkIndex, numChunks int) (int, error) {
	total := s.events.Len()
	if buf.Len() != total {
		buf.Resize(total)
	}

	first := chunkIndex * s.chunkSize
	last := (chunkIndex + numChunks) * s.chunkSize
	if last > total {
		last = total
	}

	for i := first; i < last; i++ {
		buf.SetStored(i,
			spatial.Point{s.events.X[i], s.events.Y[i], s.events.Z[i]},
			s.events.Radius[i],
			s.events.Value[i],
		)
	}

	return last - first, nil
}
