// Package codec reads and writes event files.
//
// Two formats are supported: a compact little-endian binary format and a
// line-oriented text format. Reads sniff the format from the leading magic
// number; writes select it explicitly.
//
// Files carry the radius column in its stored (reciprocal) form, exactly
// as the buffer holds it, so a round trip preserves the column bit for bit
// in the binary format.
//
// Decoding is parse-then-commit: the file is fully parsed into scratch
// columns before the destination buffer is touched, so a failed read never
// leaves a half-populated buffer behind.
package codec

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/voxevents/buffer"
	"github.com/hupe1980/voxevents/internal/mmap"
	"github.com/hupe1980/voxevents/spatial"
)

// Format selects the on-disk representation for writes.
type Format int

const (
	// FormatBinary is the magic-framed little-endian format.
	FormatBinary Format = iota
	// FormatText is the human-readable line format.
	FormatText
)

var (
	// ErrBadVersion is returned for a binary file with an unsupported
	// version word. There is no fallback to the text format.
	ErrBadVersion = errors.New("codec: unsupported format version")

	// ErrSizeMismatch is returned when a binary file's size does not match
	// its declared payload exactly.
	ErrSizeMismatch = errors.New("codec: file size does not match event payload")

	// ErrMissingEventCount is returned when a text file carries data lines
	// before (or without) a "Number of events:" directive.
	ErrMissingEventCount = errors.New(`codec: missing "Number of events" directive`)

	// ErrUnknownFormat is returned by Encode for an unrecognized Format.
	ErrUnknownFormat = errors.New("codec: unknown format")
)

// LineError reports a malformed line in a text event file. It aborts the
// whole read.
type LineError struct {
	Line  int // 1-based line number
	Cause error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("codec: malformed event at line %d: %v", e.Line, e.Cause)
}

func (e *LineError) Unwrap() error { return e.Cause }

// Options configures decoding.
type Options struct {
	// Logger receives advisory warnings (e.g. surplus data lines).
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// eventColumns is the read surface the encoders need from the buffer.
type eventColumns interface {
	Len() int
	PositionsX() []float32
	PositionsY() []float32
	PositionsZ() []float32
	Radii() []float32
	Values() []float32
}

// EventData holds fully parsed event columns, radius in stored form.
type EventData struct {
	X, Y, Z []float32
	Radius  []float32
	Value   []float32
}

// Len returns the number of parsed events.
func (d *EventData) Len() int { return len(d.Value) }

// Commit resizes buf to the parsed event count and writes every event.
func (d *EventData) Commit(buf *buffer.Buffer) {
	buf.Resize(d.Len())
	for i := 0; i < d.Len(); i++ {
		buf.SetStored(i, spatial.Point{d.X[i], d.Y[i], d.Z[i]}, d.Radius[i], d.Value[i])
	}
}

func applyOptions(optFns []func(o *Options)) Options {
	opts := Options{Logger: slog.Default()}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}

// Parse decodes raw file contents into scratch columns. The format is
// sniffed: contents opening with the binary magic are parsed as binary
// (version or size errors are final), everything else as text.
func Parse(data []byte, optFns ...func(o *Options)) (*EventData, error) {
	opts := applyOptions(optFns)

	if isBinary(data) {
		return parseBinary(data)
	}
	return parseText(data, opts.Logger)
}

// Decode parses data and commits it into buf. On error buf is unchanged.
func Decode(buf *buffer.Buffer, data []byte, optFns ...func(o *Options)) error {
	events, err := Parse(data, optFns...)
	if err != nil {
		return err
	}
	events.Commit(buf)
	return nil
}

// DecodeFile memory-maps the file at path and decodes it into buf.
func DecodeFile(buf *buffer.Buffer, path string, optFns ...func(o *Options)) error {
	m, err := mmap.Open(path)
	if err != nil {
		return err
	}
	defer m.Close()

	return Decode(buf, m.Data, optFns...)
}

// Encode writes buf's events to w in the given format.
func Encode(w io.Writer, buf *buffer.Buffer, format Format) error {
	switch format {
	case FormatBinary:
		return encodeBinary(w, buf)
	case FormatText:
		return encodeText(w, buf)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
}

// EncodeFile writes buf's events to the file at path, creating or
// truncating it. Success is determined by the final close; there is no
// partial-file cleanup.
func EncodeFile(path string, buf *buffer.Buffer, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Encode(f, buf, format); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
