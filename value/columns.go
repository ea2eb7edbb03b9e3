package value

import (
	"fmt"

	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
)

// Columns is a struct-typed vector turned inside out: one vector per field,
// all of the same length.
type Columns struct {
	Names  []string
	Fields map[string]Vector
}

// NewColumns creates empty columns. kinds gives the kind of each named field.
func NewColumns(names []string, kinds []format.TypeID, capacity int) (*Columns, error) {
	if len(names) != len(kinds) {
		return nil, fmt.Errorf("%w: %d field names for %d kinds", errs.ErrNotStruct, len(names), len(kinds))
	}

	c := &Columns{
		Names:  make([]string, 0, len(names)),
		Fields: make(map[string]Vector, len(names)),
	}
	for i, name := range names {
		vec, err := NewVector(kinds[i], capacity)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		if _, dup := c.Fields[name]; !dup {
			c.Names = append(c.Names, name)
		}
		c.Fields[name] = vec
	}

	return c, nil
}

// Kind reports TypeStruct.
func (c *Columns) Kind() format.TypeID {
	return format.TypeStruct
}

// Len returns the number of rows.
func (c *Columns) Len() int {
	if len(c.Names) == 0 {
		return 0
	}

	return c.Fields[c.Names[0]].Len()
}

// Column returns the vector of a named field.
func (c *Columns) Column(name string) (Vector, bool) {
	v, ok := c.Fields[name]
	return v, ok
}

// AppendRow appends every field of s to its column.
func (c *Columns) AppendRow(s Struct) error {
	for _, name := range c.Names {
		field, ok := s.Fields[name]
		if !ok {
			return fmt.Errorf("%w: row lacks field %q", errs.ErrNotStruct, name)
		}
		if err := c.Fields[name].Append(field); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}

	return nil
}

// Invert transposes a struct vector into columns using the field layout of
// its first element. An empty vector inverts to empty columns.
func Invert(v Vector) (*Columns, error) {
	structs, ok := v.(*Series[Struct])
	if !ok {
		return nil, fmt.Errorf("%w: vector holds %s", errs.ErrNotStruct, v.Kind())
	}
	if len(structs.Values) == 0 {
		return &Columns{Fields: map[string]Vector{}}, nil
	}

	first := structs.Values[0]
	kinds := make([]format.TypeID, len(first.Names))
	for i, name := range first.Names {
		kinds[i] = first.Fields[name].Kind()
	}

	cols, err := NewColumns(first.Names, kinds, len(structs.Values))
	if err != nil {
		return nil, err
	}
	for _, row := range structs.Values {
		if err := cols.AppendRow(row); err != nil {
			return nil, err
		}
	}

	return cols, nil
}
