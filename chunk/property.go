package chunk

import (
	"fmt"
	"iter"

	"github.com/henjo/libpsf/encoding"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
	"github.com/henjo/libpsf/value"
)

// Property is a named scalar attached to the header, a type or a trace.
type Property struct {
	Name  string
	Value value.Scalar
}

// DecodeProperty decodes one property chunk. The tag selects the value kind:
// 33 string, 34 int32, 35 double.
func DecodeProperty(c *encoding.Cursor) (Property, error) {
	at := c.Pos()
	tag, err := c.ReadTag()
	if err != nil {
		return Property{}, err
	}
	if !tag.IsProperty() {
		return Property{}, errs.IncorrectChunk(int32(tag), -1, at)
	}

	name, err := c.ReadString()
	if err != nil {
		return Property{}, fmt.Errorf("property name: %w", err)
	}

	p := Property{Name: name}
	switch tag {
	case format.TagPropString:
		s, err := c.ReadString()
		if err != nil {
			return Property{}, fmt.Errorf("property %q: %w", name, err)
		}
		p.Value = value.String(s)
	case format.TagPropInt:
		v, err := c.ReadInt32()
		if err != nil {
			return Property{}, fmt.Errorf("property %q: %w", name, err)
		}
		p.Value = value.Int32(v)
	case format.TagPropDouble:
		v, err := c.ReadFloat64()
		if err != nil {
			return Property{}, fmt.Errorf("property %q: %w", name, err)
		}
		p.Value = value.Double(v)
	}

	return p, nil
}

// PropertyBlock is an ordered list of properties with lookup by name.
// A repeated name keeps its first position in the list and its last value.
type PropertyBlock struct {
	list   []Property
	byName map[string]value.Scalar
}

// NewPropertyBlock builds a block over props.
func NewPropertyBlock(props []Property) PropertyBlock {
	b := PropertyBlock{
		list:   props,
		byName: make(map[string]value.Scalar, len(props)),
	}
	for _, p := range props {
		b.byName[p.Name] = p.Value
	}

	return b
}

// DecodeProperties decodes the run of property chunks at c. It stops at the
// first tag that is not a property or at the end of the image.
func DecodeProperties(c *encoding.Cursor) (PropertyBlock, error) {
	var props []Property
	for c.Remaining() >= 4 {
		tag, err := c.PeekTag()
		if err != nil {
			return PropertyBlock{}, err
		}
		if !tag.IsProperty() {
			break
		}

		p, err := DecodeProperty(c)
		if err != nil {
			return PropertyBlock{}, err
		}
		props = append(props, p)
	}

	return NewPropertyBlock(props), nil
}

// Get returns the value of a property.
func (b PropertyBlock) Get(name string) (value.Scalar, error) {
	v, ok := b.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrPropertyNotFound, name)
	}

	return v, nil
}

// Has reports whether the block holds a property.
func (b PropertyBlock) Has(name string) bool {
	_, ok := b.byName[name]
	return ok
}

// Int returns a property converted with value.AsInt.
func (b PropertyBlock) Int(name string) (int, error) {
	v, err := b.Get(name)
	if err != nil {
		return 0, err
	}

	return value.AsInt(v)
}

// Float returns a property converted with value.AsFloat64.
func (b PropertyBlock) Float(name string) (float64, error) {
	v, err := b.Get(name)
	if err != nil {
		return 0, err
	}

	return value.AsFloat64(v)
}

// Text returns a property formatted as text.
func (b PropertyBlock) Text(name string) (string, error) {
	v, err := b.Get(name)
	if err != nil {
		return "", err
	}

	return v.String(), nil
}

// Len returns the number of properties in the list.
func (b PropertyBlock) Len() int {
	return len(b.list)
}

// List returns the properties in file order. The slice must not be modified.
func (b PropertyBlock) List() []Property {
	return b.list
}

// All iterates name and value pairs in file order.
func (b PropertyBlock) All() iter.Seq2[string, value.Scalar] {
	return func(yield func(string, value.Scalar) bool) {
		for _, p := range b.list {
			if !yield(p.Name, p.Value) {
				return
			}
		}
	}
}

// Map returns an independent copy of the name to value map.
func (b PropertyBlock) Map() map[string]value.Scalar {
	if b.byName == nil {
		return map[string]value.Scalar{}
	}

	return value.CloneMap(b.byName)
}
