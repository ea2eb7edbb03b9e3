package payload

import (
	"fmt"
	"iter"

	"github.com/henjo/libpsf/catalog"
	"github.com/henjo/libpsf/chunk"
	"github.com/henjo/libpsf/encoding"
	"github.com/henjo/libpsf/format"
	"github.com/henjo/libpsf/value"
)

// NonSweepValue is one named value of a non-swept file.
type NonSweepValue struct {
	id     int32
	name   string
	typeID int32
	def    *catalog.TypeDef
	value  value.Scalar
	props  chunk.PropertyBlock
}

// DecodeNonSweepValue decodes tag 16, id, name, type id, one value of that
// type, then properties.
func DecodeNonSweepValue(c *encoding.Cursor, types *catalog.Types) (*NonSweepValue, error) {
	if err := c.ExpectTag(format.TagDefinition); err != nil {
		return nil, err
	}

	v := &NonSweepValue{}
	var err error
	if v.id, err = c.ReadInt32(); err != nil {
		return nil, err
	}
	if v.name, err = c.ReadString(); err != nil {
		return nil, fmt.Errorf("value %d name: %w", v.id, err)
	}
	if v.typeID, err = c.ReadInt32(); err != nil {
		return nil, fmt.Errorf("value %q: %w", v.name, err)
	}
	if v.def, err = types.Get(v.typeID); err != nil {
		return nil, fmt.Errorf("value %q: %w", v.name, err)
	}
	if v.value, err = v.def.DecodeValue(c); err != nil {
		return nil, fmt.Errorf("value %q: %w", v.name, err)
	}
	if v.props, err = chunk.DecodeProperties(c); err != nil {
		return nil, fmt.Errorf("value %q: %w", v.name, err)
	}

	return v, nil
}

// ID returns the value id.
func (v *NonSweepValue) ID() int32 {
	return v.id
}

// Name returns the signal name.
func (v *NonSweepValue) Name() string {
	return v.name
}

// TypeID returns the id of the value type.
func (v *NonSweepValue) TypeID() int32 {
	return v.typeID
}

// Type returns the resolved value type.
func (v *NonSweepValue) Type() *catalog.TypeDef {
	return v.def
}

// Value returns the decoded value.
func (v *NonSweepValue) Value() value.Scalar {
	return v.value
}

// Properties returns the properties attached to the value.
func (v *NonSweepValue) Properties() chunk.PropertyBlock {
	return v.props
}

// NonSwept is the decoded value section of a non-swept file.
type NonSwept struct {
	index *chunk.Indexed[*NonSweepValue]
}

// DecodeNonSwept decodes an indexed value section at c.
func DecodeNonSwept(c *encoding.Cursor, types *catalog.Types) (*NonSwept, error) {
	table := &chunk.Table[*NonSweepValue]{
		Name: "value section",
		Decoders: map[format.Tag]chunk.DecodeFunc[*NonSweepValue]{
			format.TagDefinition: func(c *encoding.Cursor) (*NonSweepValue, error) {
				return DecodeNonSweepValue(c, types)
			},
		},
		Ends: []format.Tag{format.TagValueEnd},
	}

	index, err := chunk.DecodeIndexed(c, table, false)
	if err != nil {
		return nil, err
	}

	return &NonSwept{index: index}, nil
}

// Get returns the value with the given name.
func (n *NonSwept) Get(name string) (*NonSweepValue, error) {
	v, err := n.index.GetByName(name)
	if err != nil {
		return nil, fmt.Errorf("signal: %w", err)
	}

	return v, nil
}

// Names returns the value names in file order.
func (n *NonSwept) Names() []string {
	return n.index.Names()
}

func (n *NonSwept) Len() int {
	return n.index.Len()
}

// All iterates the values in file order.
func (n *NonSwept) All() iter.Seq[*NonSweepValue] {
	return n.index.All()
}

// Index exposes the underlying indexed container.
func (n *NonSwept) Index() *chunk.Indexed[*NonSweepValue] {
	return n.index
}
