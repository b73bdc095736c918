package voxevents

import (
	"errors"
	"fmt"
)

var (
	// ErrNilSource is returned by New when no source is supplied.
	ErrNilSource = errors.New("voxevents: source must not be nil")

	// ErrInvalidDt is returned by New for a non-positive time step.
	ErrInvalidDt = errors.New("voxevents: dt must be positive")

	// ErrInvalidDuration is returned by New for a negative aggregation window.
	ErrInvalidDuration = errors.New("voxevents: duration must not be negative")

	// ErrNoChunks is returned by Load when zero chunks are requested.
	// This is a contract violation by the caller, not a data error.
	ErrNoChunks = errors.New("voxevents: load requires at least one chunk")
)

// ChunkRangeError indicates a load request outside the chunk window the
// source reports. Like ErrNoChunks it is a caller contract violation; the
// buffer is never touched.
type ChunkRangeError struct {
	ChunkIndex int
	NumChunks  int
	Total      int
}

func (e *ChunkRangeError) Error() string {
	return fmt.Sprintf("voxevents: chunk window [%d, %d) out of range, source has %d chunks",
		e.ChunkIndex, e.ChunkIndex+e.NumChunks, e.Total)
}
