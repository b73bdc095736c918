package codec

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/voxevents/buffer"
	"github.com/hupe1980/voxevents/spatial"
)

func quietOptions(o *buffer.Options) {
	o.Logger = slog.New(slog.DiscardHandler)
}

func newTestBuffer(t *testing.T, n int) *buffer.Buffer {
	t.Helper()

	buf := buffer.New(quietOptions)
	buf.Resize(n)
	for i := 0; i < n; i++ {
		f := float32(i)
		ok := buf.Update(i, spatial.Point{f, f * 2, f * 3}, f+1, f*10)
		require.True(t, ok)
	}
	return buf
}

func TestBinaryRoundTrip(t *testing.T) {
	src := newTestBuffer(t, 37)

	var file bytes.Buffer
	require.NoError(t, Encode(&file, src, FormatBinary))
	assert.Equal(t, BinarySize(37), file.Len())

	dst := buffer.New(quietOptions)
	require.NoError(t, Decode(dst, file.Bytes()))

	require.Equal(t, 37, dst.Len())
	assert.Equal(t, src.PositionsX(), dst.PositionsX())
	assert.Equal(t, src.PositionsY(), dst.PositionsY())
	assert.Equal(t, src.PositionsZ(), dst.PositionsZ())
	assert.Equal(t, src.Values(), dst.Values())

	// The stored (reciprocal) radius column survives the round trip: the
	// file carries 1/(i+1) and the decode commits it verbatim.
	for i, r := range dst.Radii() {
		assert.Equal(t, 1/float32(i+1), r, "event %d", i)
	}
}

func TestBinaryRoundTripZeroRadius(t *testing.T) {
	src := buffer.New(quietOptions)
	src.Resize(1)
	src.Update(0, spatial.Point{1, 2, 3}, 0, 5)

	var file bytes.Buffer
	require.NoError(t, Encode(&file, src, FormatBinary))

	dst := buffer.New(quietOptions)
	require.NoError(t, Decode(dst, file.Bytes()))
	assert.Equal(t, float32(0), dst.Radii()[0], "sub-epsilon radius is preserved literally")
}

func TestTextRoundTrip(t *testing.T) {
	src := newTestBuffer(t, 12)

	var file bytes.Buffer
	require.NoError(t, Encode(&file, src, FormatText))

	dst := buffer.New(quietOptions)
	require.NoError(t, Decode(dst, file.Bytes()))

	require.Equal(t, 12, dst.Len())
	assert.Equal(t, src.PositionsX(), dst.PositionsX())
	assert.Equal(t, src.Radii(), dst.Radii(), "g/-1/32 formatting round-trips float32 exactly")
	assert.Equal(t, src.Values(), dst.Values())
}

func TestDecodeSniffsFormat(t *testing.T) {
	src := newTestBuffer(t, 3)

	var binFile, txtFile bytes.Buffer
	require.NoError(t, Encode(&binFile, src, FormatBinary))
	require.NoError(t, Encode(&txtFile, src, FormatText))

	assert.True(t, isBinary(binFile.Bytes()))
	assert.False(t, isBinary(txtFile.Bytes()))

	for _, raw := range [][]byte{binFile.Bytes(), txtFile.Bytes()} {
		dst := buffer.New(quietOptions)
		require.NoError(t, Decode(dst, raw))
		assert.Equal(t, 3, dst.Len())
	}
}

func TestDecodeBadVersionNoTextFallback(t *testing.T) {
	var file bytes.Buffer
	require.NoError(t, binary.Write(&file, binary.LittleEndian, Magic))
	require.NoError(t, binary.Write(&file, binary.LittleEndian, uint32(2)))

	dst := buffer.New(quietOptions)
	err := Decode(dst, file.Bytes())
	assert.ErrorIs(t, err, ErrBadVersion)
}

func TestDecodeBinarySizeMismatch(t *testing.T) {
	src := newTestBuffer(t, 2)
	var file bytes.Buffer
	require.NoError(t, Encode(&file, src, FormatBinary))

	truncated := file.Bytes()[:file.Len()-3]

	dst := buffer.New(quietOptions)
	assert.ErrorIs(t, Decode(dst, truncated), ErrSizeMismatch)
}

func TestDecodeFailureLeavesBufferUntouched(t *testing.T) {
	dst := newTestBuffer(t, 4)
	wantX := append([]float32(nil), dst.PositionsX()...)

	bad := []byte("Number of events: 2\n1 2 3 4\n")
	require.Error(t, Decode(dst, bad))

	assert.Equal(t, 4, dst.Len())
	assert.Equal(t, wantX, dst.PositionsX())
}

func TestParseTextGrammar(t *testing.T) {
	input := []byte(`# comment before anything
# Number of events: 99 (inside a comment, ignored)

Number of events: 2
1 2 3 0.5 10
4 5 6 0.25 20
`)

	events, err := Parse(input)
	require.NoError(t, err)
	require.Equal(t, 2, events.Len())
	assert.Equal(t, []float32{1, 4}, events.X)
	assert.Equal(t, []float32{0.5, 0.25}, events.Radius)
	assert.Equal(t, []float32{10, 20}, events.Value)
}

func TestParseTextErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, err error)
	}{
		{
			name:  "data before count directive",
			input: "1 2 3 4 5\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMissingEventCount)
			},
		},
		{
			name:  "no count directive at all",
			input: "# only comments\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMissingEventCount)
			},
		},
		{
			name:  "wrong token count",
			input: "Number of events: 1\n1 2 3 4\n",
			check: func(t *testing.T, err error) {
				var le *LineError
				require.ErrorAs(t, err, &le)
				assert.Equal(t, 2, le.Line)
			},
		},
		{
			name:  "unparseable float",
			input: "Number of events: 1\n1 2 three 4 5\n",
			check: func(t *testing.T, err error) {
				var le *LineError
				assert.ErrorAs(t, err, &le)
			},
		},
		{
			name:  "bad count value",
			input: "Number of events: many\n",
			check: func(t *testing.T, err error) {
				var le *LineError
				assert.ErrorAs(t, err, &le)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestParseTextSurplusLinesDropped(t *testing.T) {
	input := []byte("Number of events: 1\n1 1 1 1 1\n2 2 2 2 2\n")

	events, err := Parse(input)
	require.NoError(t, err)
	assert.Equal(t, 1, events.Len())
	assert.Equal(t, float32(1), events.Value[0])
}

func TestParseTextFewerLinesLeaveZeros(t *testing.T) {
	input := []byte("Number of events: 3\n1 1 1 1 1\n")

	events, err := Parse(input)
	require.NoError(t, err)
	require.Equal(t, 3, events.Len())
	assert.Equal(t, float32(1), events.Value[0])
	assert.Equal(t, float32(0), events.Value[1])
	assert.Equal(t, float32(0), events.Value[2])
}

func TestEncodeDecodeFile(t *testing.T) {
	src := newTestBuffer(t, 8)
	path := filepath.Join(t.TempDir(), "events.bin")

	require.NoError(t, EncodeFile(path, src, FormatBinary))

	dst := buffer.New(quietOptions)
	require.NoError(t, DecodeFile(dst, path))
	assert.Equal(t, 8, dst.Len())
	assert.Equal(t, src.Values(), dst.Values())
}

func TestDecodeEmptyBinaryFile(t *testing.T) {
	src := buffer.New(quietOptions)
	var file bytes.Buffer
	require.NoError(t, Encode(&file, src, FormatBinary))
	assert.Equal(t, 8, file.Len())

	dst := newTestBuffer(t, 3)
	require.NoError(t, Decode(dst, file.Bytes()))
	assert.Equal(t, 0, dst.Len())
}

func TestEncodeUnknownFormat(t *testing.T) {
	var file bytes.Buffer
	err := Encode(&file, buffer.New(quietOptions), Format(99))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestBinaryPayloadLayout(t *testing.T) {
	src := buffer.New(quietOptions)
	src.Resize(1)
	src.Update(0, spatial.Point{1, 2, 3}, 4, 5)

	var file bytes.Buffer
	require.NoError(t, Encode(&file, src, FormatBinary))

	raw := file.Bytes()
	assert.Equal(t, Magic, binary.LittleEndian.Uint32(raw[0:4]))
	assert.Equal(t, Version, binary.LittleEndian.Uint32(raw[4:8]))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(raw[8:12])))
	assert.Equal(t, float32(0.25), math.Float32frombits(binary.LittleEndian.Uint32(raw[20:24])), "radius is written in stored form")
	assert.Equal(t, float32(5), math.Float32frombits(binary.LittleEndian.Uint32(raw[24:28])))
}
