// Package voxevents provides an embedded store for spatial events: 3D
// samples of a simulated quantity, each a position, radius and scalar
// value, consumed by windowed, spatially queryable sampling stages.
//
// The store keeps events in an aligned structure-of-arrays buffer,
// persists them in a compact binary or human-readable text format,
// answers axis-aligned bounding-box queries through a lazily rebuilt
// R-tree, and maps the data's time interval onto a half-open range of
// addressable frames.
//
// # Quick start
//
//	store, err := voxevents.New(mySource,
//	    voxevents.WithDt(0.1),
//	    voxevents.WithDuration(10),
//	    voxevents.WithCutoffDistance(50),
//	)
//	if err != nil {
//	    panic(err)
//	}
//
//	// Populate the buffer through the source's chunk contract.
//	if _, err := store.LoadAll(context.Background()); err != nil {
//	    panic(err)
//	}
//
//	// Address a frame and query a region.
//	r := store.FrameRange()
//	store.SetFrame(r.First)
//	values := store.FindEvents(spatial.NewBox(
//	    spatial.Point{0, 0, 0},
//	    spatial.Point{10, 10, 10},
//	))
//	_ = values
//
// # Consuming columns
//
// Sampling kernels read the columns directly: PositionsX/Y/Z, Radii
// (stored as reciprocals, so kernels multiply instead of divide) and
// Values. The value column may be overwritten in place between frames;
// the other columns are read-only by contract.
//
// # Index staleness
//
// The spatial index is derived data with an invalidate-on-write,
// rebuild-on-read policy: any buffer mutation invalidates it and the next
// FindEvents or BuildIndex call reconstructs it from the current buffer
// contents in one bulk pass.
//
// # Concurrency
//
// The store assumes a single writer. Index rebuilds and queries are
// internally serialized; everything else requires external coordination.
package voxevents
