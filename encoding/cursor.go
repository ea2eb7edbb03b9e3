package encoding

import (
	"fmt"
	"math"

	"github.com/henjo/libpsf/endian"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
)

// Cursor is a bounds-checked reader over a PSF file image.
//
// Positions are absolute byte offsets into the image, which is how PSF
// containers record their end offsets. Every read either consumes exactly
// the bytes it needs or fails with errs.ErrTruncated and leaves the position
// unchanged.
//
// A Cursor is not safe for concurrent use. Use At to obtain an independent
// cursor over the same image.
type Cursor struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
}

// NewCursor creates a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data, engine: endian.PSF()}
}

// At returns a new cursor over the same image positioned at pos.
// The position is validated lazily by the first read.
func (c *Cursor) At(pos int) *Cursor {
	return &Cursor{data: c.data, pos: pos, engine: c.engine}
}

// Pos returns the current absolute position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the size of the underlying image.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Remaining returns the number of bytes between the position and the end of the image.
func (c *Cursor) Remaining() int {
	if c.pos >= len(c.data) {
		return 0
	}

	return len(c.data) - c.pos
}

// Seek moves the cursor to an absolute position. Seeking to the end of the
// image is allowed; reads from there fail.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.data) {
		return fmt.Errorf("%w: seek to %d outside image of %d bytes", errs.ErrTruncated, pos, len(c.data))
	}
	c.pos = pos

	return nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative skip %d at offset %d", errs.ErrTruncated, n, c.pos)
	}

	return c.Seek(c.pos + n)
}

// Bytes returns the next n bytes and advances past them.
// The returned slice aliases the image and must not outlive it.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n

	return b, nil
}

// ReadUint32 reads a big-endian uint32.
func (c *Cursor) ReadUint32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := c.engine.Uint32(c.data[c.pos:])
	c.pos += 4

	return v, nil
}

// ReadInt32 reads a big-endian int32.
func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()

	return int32(v), err //nolint:gosec
}

// PeekInt32 reads a big-endian int32 without advancing.
func (c *Cursor) PeekInt32() (int32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}

	return int32(c.engine.Uint32(c.data[c.pos:])), nil //nolint:gosec
}

// ReadTag reads a chunk tag.
func (c *Cursor) ReadTag() (format.Tag, error) {
	v, err := c.ReadInt32()

	return format.Tag(v), err
}

// PeekTag reads a chunk tag without advancing.
func (c *Cursor) PeekTag() (format.Tag, error) {
	v, err := c.PeekInt32()

	return format.Tag(v), err
}

// ExpectTag consumes a tag and fails with an *errs.IncorrectChunkError if it
// differs from want.
func (c *Cursor) ExpectTag(want format.Tag) error {
	at := c.pos
	tag, err := c.ReadTag()
	if err != nil {
		return err
	}
	if tag != want {
		c.pos = at
		return errs.IncorrectChunk(int32(tag), int32(want), at)
	}

	return nil
}

// ReadInt8 reads an int8 stored in a 4-byte word. The value is the last byte
// of the word, sign-extended.
func (c *Cursor) ReadInt8() (int8, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := int8(c.data[c.pos+3]) //nolint:gosec
	c.pos += 4

	return v, nil
}

// ReadFloat64 reads a big-endian IEEE 754 double.
func (c *Cursor) ReadFloat64() (float64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := math.Float64frombits(c.engine.Uint64(c.data[c.pos:]))
	c.pos += 8

	return v, nil
}

// ReadComplex128 reads a complex double stored as real then imaginary part.
func (c *Cursor) ReadComplex128() (complex128, error) {
	if err := c.need(16); err != nil {
		return 0, err
	}
	re := math.Float64frombits(c.engine.Uint64(c.data[c.pos:]))
	im := math.Float64frombits(c.engine.Uint64(c.data[c.pos+8:]))
	c.pos += 16

	return complex(re, im), nil
}

// ReadString reads an int32 length-prefixed string and skips the zero padding
// that aligns the next field to 4 bytes. The result is copied out of the image.
func (c *Cursor) ReadString() (string, error) {
	at := c.pos
	n, err := c.ReadInt32()
	if err != nil {
		return "", err
	}
	if n < 0 {
		c.pos = at
		return "", fmt.Errorf("%w: negative string length %d at offset %d", errs.ErrTruncated, n, at)
	}

	size := PaddedLen(int(n))
	if err := c.need(size); err != nil {
		c.pos = at
		return "", err
	}
	s := string(c.data[c.pos : c.pos+int(n)])
	c.pos += size

	return s, nil
}

// PaddedLen returns the on-disk size of a string payload of n bytes,
// excluding its length prefix.
func PaddedLen(n int) int {
	return n + ((4 - n) & 3)
}

func (c *Cursor) need(n int) error {
	if c.pos < 0 || n < 0 || c.pos+n > len(c.data) {
		return fmt.Errorf("%w: need %d bytes at offset %d, image has %d", errs.ErrTruncated, n, c.pos, len(c.data))
	}

	return nil
}
