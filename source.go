package voxevents

import (
	"github.com/hupe1980/voxevents/buffer"
)

// SourceKind distinguishes how a source's data maps onto frames.
type SourceKind int

const (
	// KindEvent marks sources emitting discrete point-in-time events that
	// need a post-event aggregation window (duration) before a frame is
	// complete.
	KindEvent SourceKind = iota

	// KindFrame marks sources whose data is already binned per frame.
	KindFrame
)

// Source is the contract an external backend implements to populate the
// store incrementally. The store validates chunk windows against
// NumChunks and delegates the actual loading; backend specifics (file
// layout, network protocol, simulator API) stay on the source side.
//
// LoadChunks populates the events of chunks [chunkIndex,
// chunkIndex+numChunks) into buf via Resize/Update/SetStored and returns
// the number of events loaded. Loads run to completion or fail
// synchronously; there is no cancellation.
type Source interface {
	// Kind reports how the source's data maps onto frames.
	Kind() SourceKind

	// TimeRange returns the data's time interval [t0, t1].
	TimeRange() (t0, t1 float32)

	// NumChunks reports how many chunks the source can serve.
	NumChunks() int

	// LoadChunks populates buf with the requested chunk window.
	LoadChunks(buf *buffer.Buffer, chunkIndex, numChunks int) (int, error)
}
