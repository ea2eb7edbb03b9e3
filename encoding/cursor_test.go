package encoding

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
	"github.com/stretchr/testify/require"
)

func be32(v uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, v)
}

func be64(v float64) []byte {
	return binary.BigEndian.AppendUint64(nil, math.Float64bits(v))
}

func TestCursor_ReadInt32(t *testing.T) {
	c := NewCursor(append(be32(21), be32(0xFFFFFFFF)...))

	v, err := c.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(21), v)
	require.Equal(t, 4, c.Pos())

	v, err = c.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(-1), v)
	require.Equal(t, 0, c.Remaining())

	_, err = c.ReadInt32()
	require.ErrorIs(t, err, errs.ErrTruncated)
	require.Equal(t, 8, c.Pos())
}

func TestCursor_ReadInt8(t *testing.T) {
	tests := []struct {
		name string
		word []byte
		want int8
	}{
		{"positive", []byte{0, 0, 0, 0x7F}, 127},
		{"negative", []byte{0, 0, 0, 0xFE}, -2},
		{"ignores leading bytes", []byte{0xAA, 0xBB, 0xCC, 0x05}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.word)
			v, err := c.ReadInt8()
			require.NoError(t, err)
			require.Equal(t, tt.want, v)
			require.Equal(t, 4, c.Pos())
		})
	}
}

func TestCursor_ReadFloat64(t *testing.T) {
	c := NewCursor(append(be64(1.5), be64(-2e-9)...))

	v, err := c.ReadFloat64()
	require.NoError(t, err)
	require.Equal(t, 1.5, v)

	v, err = c.ReadFloat64()
	require.NoError(t, err)
	require.Equal(t, -2e-9, v)

	c = NewCursor([]byte{1, 2, 3})
	_, err = c.ReadFloat64()
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestCursor_ReadComplex128(t *testing.T) {
	c := NewCursor(append(be64(3), be64(-4)...))

	v, err := c.ReadComplex128()
	require.NoError(t, err)
	require.Equal(t, complex(3, -4), v)
	require.Equal(t, 16, c.Pos())
}

func TestCursor_ReadString(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		padded int
	}{
		{"empty", "", 0},
		{"one", "a", 4},
		{"three", "vin", 4},
		{"four", "vout", 4},
		{"five", "PSF s", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := be32(uint32(len(tt.value)))
			buf = append(buf, tt.value...)
			for len(buf) < 4+tt.padded {
				buf = append(buf, 0)
			}
			buf = append(buf, be32(99)...)

			c := NewCursor(buf)
			s, err := c.ReadString()
			require.NoError(t, err)
			require.Equal(t, tt.value, s)
			require.Equal(t, 4+tt.padded, c.Pos())
			require.Equal(t, tt.padded, PaddedLen(len(tt.value)))

			next, err := c.ReadInt32()
			require.NoError(t, err)
			require.Equal(t, int32(99), next)
		})
	}
}

func TestCursor_ReadString_Truncated(t *testing.T) {
	buf := append(be32(10), []byte("short")...)
	c := NewCursor(buf)

	_, err := c.ReadString()
	require.ErrorIs(t, err, errs.ErrTruncated)
	require.Equal(t, 0, c.Pos())

	c = NewCursor(be32(0xFFFFFFF0))
	_, err = c.ReadString()
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestCursor_ExpectTag(t *testing.T) {
	c := NewCursor(append(be32(21), be32(16)...))

	require.NoError(t, c.ExpectTag(format.TagSection))

	err := c.ExpectTag(format.TagGroup)
	require.ErrorIs(t, err, errs.ErrIncorrectChunk)

	var chunkErr *errs.IncorrectChunkError
	require.ErrorAs(t, err, &chunkErr)
	require.Equal(t, int32(16), chunkErr.Tag)
	require.Equal(t, int32(17), chunkErr.Expected)
	require.Equal(t, 4, chunkErr.Offset)
	require.Equal(t, 4, c.Pos())
}

func TestCursor_SeekSkipPeek(t *testing.T) {
	buf := append(append(be32(1), be32(2)...), be32(3)...)
	c := NewCursor(buf)

	tag, err := c.PeekTag()
	require.NoError(t, err)
	require.Equal(t, format.Tag(1), tag)
	require.Equal(t, 0, c.Pos())

	require.NoError(t, c.Skip(4))
	v, err := c.PeekInt32()
	require.NoError(t, err)
	require.Equal(t, int32(2), v)

	require.NoError(t, c.Seek(len(buf)))
	require.Equal(t, 0, c.Remaining())
	require.ErrorIs(t, c.Seek(len(buf)+1), errs.ErrTruncated)
	require.ErrorIs(t, c.Skip(-1), errs.ErrTruncated)

	other := c.At(8)
	v, err = other.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(3), v)
	require.Equal(t, len(buf), c.Pos())

	b, err := c.At(0).Bytes(8)
	require.NoError(t, err)
	require.Equal(t, buf[:8], b)
	require.Equal(t, 12, c.Len())
}
