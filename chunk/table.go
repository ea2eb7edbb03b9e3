package chunk

import (
	"fmt"
	"slices"

	"github.com/henjo/libpsf/encoding"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
)

// DecodeFunc decodes one chunk. The cursor is positioned at the chunk tag and
// the function consumes the whole chunk, tag included.
type DecodeFunc[T any] func(c *encoding.Cursor) (T, error)

// Table describes the children a container kind accepts: a decoder per tag
// and the tags that terminate the child list.
type Table[T any] struct {
	// Name is used in error messages.
	Name string
	// Decoders maps each accepted child tag to its decoder.
	Decoders map[format.Tag]DecodeFunc[T]
	// Ends lists end-marker tags. An end marker is consumed and stops decoding.
	Ends []format.Tag
}

// Child decodes the next child at c. It returns ok=false after consuming an
// end marker. Any other tag without a decoder yields an *errs.IncorrectChunkError.
func (t *Table[T]) Child(c *encoding.Cursor) (child T, ok bool, err error) {
	at := c.Pos()
	tag, err := c.PeekTag()
	if err != nil {
		return child, false, err
	}

	if slices.Contains(t.Ends, tag) {
		return child, false, c.Skip(4)
	}

	decode, found := t.Decoders[tag]
	if !found {
		return child, false, fmt.Errorf("%s: %w", t.Name, errs.IncorrectChunk(int32(tag), -1, at))
	}

	child, err = decode(c)
	if err != nil {
		return child, false, err
	}

	return child, true, nil
}

// Until decodes children until the cursor reaches end or an end marker.
func (t *Table[T]) Until(c *encoding.Cursor, end int) ([]T, error) {
	var children []T
	for c.Pos() < end {
		child, ok, err := t.Child(c)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		children = append(children, child)
	}

	return children, nil
}

// Terminated decodes children until an end marker, with no size bound.
func (t *Table[T]) Terminated(c *encoding.Cursor) ([]T, error) {
	var children []T
	for {
		child, ok, err := t.Child(c)
		if err != nil {
			return nil, err
		}
		if !ok {
			return children, nil
		}
		children = append(children, child)
	}
}

// Count decodes exactly n children. End markers are not accepted.
func (t *Table[T]) Count(c *encoding.Cursor, n int) ([]T, error) {
	children := make([]T, 0, n)
	for range n {
		at := c.Pos()
		child, ok, err := t.Child(c)
		if err != nil {
			return nil, err
		}
		if !ok {
			tag, _ := c.At(at).PeekTag()
			return nil, fmt.Errorf("%s: %w", t.Name, errs.IncorrectChunk(int32(tag), -1, at))
		}
		children = append(children, child)
	}

	return children, nil
}

// DecodeSimple decodes a size-terminated container: the container tag, the
// absolute end offset, then children until the end offset or an end marker.
// The cursor is left at the end offset.
func DecodeSimple[T any](c *encoding.Cursor, tag format.Tag, table *Table[T]) ([]T, error) {
	if err := c.ExpectTag(tag); err != nil {
		return nil, fmt.Errorf("%s: %w", table.Name, err)
	}

	return decodeBounded(c, table)
}

// DecodeSub decodes a sub-container. Its tag is not checked; its end offset
// bounds the children. The cursor is left at the end offset.
func DecodeSub[T any](c *encoding.Cursor, table *Table[T]) ([]T, error) {
	if _, err := c.ReadTag(); err != nil {
		return nil, fmt.Errorf("%s: %w", table.Name, err)
	}

	return decodeBounded(c, table)
}

func decodeBounded[T any](c *encoding.Cursor, table *Table[T]) ([]T, error) {
	end, err := c.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", table.Name, err)
	}
	if int(end) < c.Pos() || int(end) > c.Len() {
		return nil, fmt.Errorf("%s: %w: end offset %d outside [%d, %d]",
			table.Name, errs.ErrTruncated, end, c.Pos(), c.Len())
	}

	children, err := table.Until(c, int(end))
	if err != nil {
		return nil, err
	}

	if c.Pos() < int(end) {
		if err := c.Seek(int(end)); err != nil {
			return nil, err
		}
	}

	return children, nil
}
