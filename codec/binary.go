package codec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Binary framing: two little-endian header words followed by numEvents
// five-float records (posX posY posZ radius value).
const (
	Magic   uint32 = 0xFEBF
	Version uint32 = 1

	headerSize = 8
	recordSize = 5 * 4
)

// BinarySize returns the exact byte size of a binary file holding
// numEvents events.
func BinarySize(numEvents int) int {
	return headerSize + numEvents*recordSize
}

func isBinary(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == Magic
}

func parseBinary(data []byte) (*EventData, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is too short for a header", ErrSizeMismatch, len(data))
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadVersion, v, Version)
	}

	payload := len(data) - headerSize
	n := payload / recordSize
	if n*recordSize != payload {
		return nil, fmt.Errorf("%w: %d payload bytes is not a whole number of events", ErrSizeMismatch, payload)
	}

	events := &EventData{
		X:      make([]float32, n),
		Y:      make([]float32, n),
		Z:      make([]float32, n),
		Radius: make([]float32, n),
		Value:  make([]float32, n),
	}

	off := headerSize
	for i := 0; i < n; i++ {
		events.X[i] = readFloat32(data, off)
		events.Y[i] = readFloat32(data, off+4)
		events.Z[i] = readFloat32(data, off+8)
		events.Radius[i] = readFloat32(data, off+12)
		events.Value[i] = readFloat32(data, off+16)
		off += recordSize
	}

	return events, nil
}

func readFloat32(data []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
}

func encodeBinary(w io.Writer, buf eventColumns) error {
	bw := bufio.NewWriter(w)

	var header [headerSize]byte
	binary.LittleEndian.PutUint32(header[0:4], Magic)
	binary.LittleEndian.PutUint32(header[4:8], Version)
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}

	xs, ys, zs := buf.PositionsX(), buf.PositionsY(), buf.PositionsZ()
	radii, values := buf.Radii(), buf.Values()

	var record [recordSize]byte
	for i := 0; i < buf.Len(); i++ {
		binary.LittleEndian.PutUint32(record[0:4], math.Float32bits(xs[i]))
		binary.LittleEndian.PutUint32(record[4:8], math.Float32bits(ys[i]))
		binary.LittleEndian.PutUint32(record[8:12], math.Float32bits(zs[i]))
		binary.LittleEndian.PutUint32(record[12:16], math.Float32bits(radii[i]))
		binary.LittleEndian.PutUint32(record[16:20], math.Float32bits(values[i]))
		if _, err := bw.Write(record[:]); err != nil {
			return err
		}
	}

	return bw.Flush()
}
