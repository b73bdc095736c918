// Package spatial provides the bounding-box index over event positions.
//
// The index is derived data: it is bulk-built from the buffer's position
// columns and thrown away wholesale whenever the buffer mutates. There is
// no incremental insertion.
package spatial

// Index answers "which event ordinals lie within this box" queries.
//
// Implementations are not safe for concurrent use; the owning store
// serializes Build/Clear against Search.
type Index interface {
	// Build bulk-loads the index from parallel position columns. It is a
	// no-op if the index is already non-empty.
	Build(xs, ys, zs []float32)

	// Clear discards the index contents.
	Clear()

	// Empty reports whether the index holds no entries.
	Empty() bool

	// Len returns the number of indexed positions.
	Len() int

	// Search calls fn with the ordinal of every indexed position contained
	// in box (boundary inclusive). Order is unspecified.
	Search(box Box, fn func(ordinal uint32))
}

// Noop is the index used when spatial queries are disabled. It stays
// permanently empty, so queries against it return nothing.
type Noop struct{}

// Build implements Index.
func (Noop) Build(_, _, _ []float32) {}

// Clear implements Index.
func (Noop) Clear() {}

// Empty implements Index.
func (Noop) Empty() bool { return true }

// Len implements Index.
func (Noop) Len() int { return 0 }

// Search implements Index.
func (Noop) Search(Box, func(uint32)) {}
