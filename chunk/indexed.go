package chunk

import (
	"fmt"
	"iter"

	"github.com/henjo/libpsf/encoding"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
)

// Named is a chunk addressable by id and by name.
type Named interface {
	ID() int32
	Name() string
}

// IndexEntry is one entry of the index trailing an indexed container. Type
// and value sections store {id, offset} pairs; the trace section adds two
// words that the decoder keeps but does not interpret.
type IndexEntry struct {
	ID     int32
	Offset int32
	Extra  [2]int32
}

// Indexed holds the children of an indexed container in file order with
// id and name lookup tables. When names or ids repeat, the last child wins
// the lookup.
type Indexed[T Named] struct {
	children []T
	byID     map[int32]T
	byName   map[string]T
	entries  []IndexEntry
}

// NewIndexed builds the lookup tables over children.
func NewIndexed[T Named](children []T) *Indexed[T] {
	x := &Indexed[T]{
		children: children,
		byID:     make(map[int32]T, len(children)),
		byName:   make(map[string]T, len(children)),
	}
	for _, child := range children {
		x.byID[child.ID()] = child
		x.byName[child.Name()] = child
	}

	return x
}

// Get returns the child with the given id.
func (x *Indexed[T]) Get(id int32) (T, error) {
	child, ok := x.byID[id]
	if !ok {
		return child, fmt.Errorf("%w: id %d", errs.ErrNotFound, id)
	}

	return child, nil
}

// GetByName returns the child with the given name.
func (x *Indexed[T]) GetByName(name string) (T, error) {
	child, ok := x.byName[name]
	if !ok {
		return child, fmt.Errorf("%w: %q", errs.ErrNotFound, name)
	}

	return child, nil
}

// Len returns the number of children.
func (x *Indexed[T]) Len() int {
	return len(x.children)
}

// Children returns the children in file order. The slice must not be modified.
func (x *Indexed[T]) Children() []T {
	return x.children
}

// Names returns the child names in file order.
func (x *Indexed[T]) Names() []string {
	names := make([]string, len(x.children))
	for i, child := range x.children {
		names[i] = child.Name()
	}

	return names
}

// All iterates the children in file order.
func (x *Indexed[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, child := range x.children {
			if !yield(child) {
				return
			}
		}
	}
}

// IndexEntries returns the decoded index trailer.
func (x *Indexed[T]) IndexEntries() []IndexEntry {
	return x.entries
}

// DecodeIndexed decodes an indexed container: tag 21, end offset, a
// sub-container holding the children, then the index chunk. With wide set
// the index holds 16-byte entries. The cursor is left at the end offset.
func DecodeIndexed[T Named](c *encoding.Cursor, table *Table[T], wide bool) (*Indexed[T], error) {
	if err := c.ExpectTag(format.TagSection); err != nil {
		return nil, fmt.Errorf("%s: %w", table.Name, err)
	}
	end, err := c.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", table.Name, err)
	}
	if int(end) < c.Pos() || int(end) > c.Len() {
		return nil, fmt.Errorf("%s: %w: end offset %d outside [%d, %d]",
			table.Name, errs.ErrTruncated, end, c.Pos(), c.Len())
	}

	children, err := DecodeSub(c, table)
	if err != nil {
		return nil, err
	}

	entries, err := decodeIndex(c, wide)
	if err != nil {
		return nil, fmt.Errorf("%s index: %w", table.Name, err)
	}

	if err := c.Seek(int(end)); err != nil {
		return nil, err
	}

	x := NewIndexed(children)
	x.entries = entries

	return x, nil
}

func decodeIndex(c *encoding.Cursor, wide bool) ([]IndexEntry, error) {
	if err := c.ExpectTag(format.TagIndex); err != nil {
		return nil, err
	}
	size, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}

	entrySize := 8
	if wide {
		entrySize = 16
	}
	if size < 0 || int(size) > c.Remaining() {
		return nil, fmt.Errorf("%w: index size %d at offset %d", errs.ErrTruncated, size, c.Pos())
	}

	entries := make([]IndexEntry, 0, int(size)/entrySize)
	start := c.Pos()
	for c.Pos()+entrySize <= start+int(size) {
		var e IndexEntry
		if e.ID, err = c.ReadInt32(); err != nil {
			return nil, err
		}
		if e.Offset, err = c.ReadInt32(); err != nil {
			return nil, err
		}
		if wide {
			if e.Extra[0], err = c.ReadInt32(); err != nil {
				return nil, err
			}
			if e.Extra[1], err = c.ReadInt32(); err != nil {
				return nil, err
			}
		}
		entries = append(entries, e)
	}

	return entries, c.Seek(start + int(size))
}
