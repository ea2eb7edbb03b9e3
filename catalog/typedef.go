package catalog

import (
	"fmt"

	"github.com/henjo/libpsf/chunk"
	"github.com/henjo/libpsf/encoding"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
	"github.com/henjo/libpsf/value"
)

// TypeDef is an entry of the type section: a named on-disk layout.
type TypeDef struct {
	id     int32
	name   string
	kind   format.TypeID
	schema *StructDef
	size   int
	props  chunk.PropertyBlock
}

// NewTypeDef creates a primitive type definition.
func NewTypeDef(id int32, name string, kind format.TypeID) *TypeDef {
	return &TypeDef{id: id, name: name, kind: kind, size: kind.Size()}
}

// NewStructTypeDef creates a struct type definition over fields.
func NewStructTypeDef(id int32, name string, fields ...*TypeDef) *TypeDef {
	schema := newStructDef(fields)
	return &TypeDef{id: id, name: name, kind: format.TypeStruct, schema: schema, size: schema.size}
}

// DecodeTypeDef decodes a TypeDef chunk: tag 16, id, name, an unused array
// word, the kind, a struct schema when the kind is struct, then properties.
func DecodeTypeDef(c *encoding.Cursor) (*TypeDef, error) {
	if err := c.ExpectTag(format.TagDefinition); err != nil {
		return nil, err
	}

	t := &TypeDef{}
	var err error
	if t.id, err = c.ReadInt32(); err != nil {
		return nil, err
	}
	if t.name, err = c.ReadString(); err != nil {
		return nil, fmt.Errorf("type %d name: %w", t.id, err)
	}
	if _, err = c.ReadUint32(); err != nil {
		return nil, fmt.Errorf("type %q: %w", t.name, err)
	}
	kind, err := c.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("type %q: %w", t.name, err)
	}
	t.kind = format.TypeID(kind)

	if t.kind == format.TypeStruct {
		if t.schema, err = decodeStructDef(c); err != nil {
			return nil, fmt.Errorf("type %q: %w", t.name, err)
		}
		t.size = t.schema.size
	} else {
		t.size = t.kind.Size()
	}

	if t.props, err = chunk.DecodeProperties(c); err != nil {
		return nil, fmt.Errorf("type %q: %w", t.name, err)
	}

	return t, nil
}

// ID returns the type id that refs and values point at.
func (t *TypeDef) ID() int32 {
	return t.id
}

// Name returns the type name.
func (t *TypeDef) Name() string {
	return t.name
}

// Kind returns the primitive kind, or TypeStruct.
func (t *TypeDef) Kind() format.TypeID {
	return t.kind
}

// Properties returns the properties attached to the definition.
func (t *TypeDef) Properties() chunk.PropertyBlock {
	return t.props
}

// Struct returns the struct schema, or nil for primitive kinds.
func (t *TypeDef) Struct() *StructDef {
	return t.schema
}

// FixedSize returns the on-disk size of one value, or 0 when values of this
// type have no fixed size.
func (t *TypeDef) FixedSize() int {
	return t.size
}

// Size returns the on-disk size of one value. Types without a fixed size,
// such as strings, yield an *errs.UnknownTypeError.
func (t *TypeDef) Size() (int, error) {
	if t.size == 0 {
		return 0, errs.UnknownType(int32(t.kind))
	}

	return t.size, nil
}

// DecodeValue decodes one value of this type at c.
func (t *TypeDef) DecodeValue(c *encoding.Cursor) (value.Scalar, error) {
	switch t.kind {
	case format.TypeInt8:
		v, err := c.ReadInt8()
		return value.Int8(v), err
	case format.TypeInt32:
		v, err := c.ReadInt32()
		return value.Int32(v), err
	case format.TypeDouble:
		v, err := c.ReadFloat64()
		return value.Double(v), err
	case format.TypeComplexDouble:
		v, err := c.ReadComplex128()
		return value.ComplexDouble(v), err
	case format.TypeString:
		v, err := c.ReadString()
		return value.String(v), err
	case format.TypeStruct:
		return t.schema.decodeValue(c)
	default:
		return nil, errs.UnknownType(int32(t.kind))
	}
}

// NewVector returns an empty vector for values of this type.
func (t *TypeDef) NewVector(capacity int) (value.Vector, error) {
	return value.NewVector(t.kind, capacity)
}

// NewColumns returns empty columns for the fields of a struct type.
func (t *TypeDef) NewColumns(capacity int) (*value.Columns, error) {
	if t.schema == nil {
		return nil, fmt.Errorf("%w: type %q is %s", errs.ErrNotStruct, t.name, t.kind)
	}

	names := make([]string, len(t.schema.fields))
	kinds := make([]format.TypeID, len(t.schema.fields))
	for i, f := range t.schema.fields {
		names[i] = f.name
		kinds[i] = f.kind
	}

	return value.NewColumns(names, kinds, capacity)
}

// StructDef is the ordered field schema of a struct type.
type StructDef struct {
	fields []*TypeDef
	size   int
}

func newStructDef(fields []*TypeDef) *StructDef {
	s := &StructDef{fields: fields}
	for _, f := range fields {
		if f.size == 0 {
			s.size = 0
			return s
		}
		s.size += f.size
	}

	return s
}

func decodeStructDef(c *encoding.Cursor) (*StructDef, error) {
	table := &chunk.Table[*TypeDef]{
		Name:     "struct",
		Decoders: map[format.Tag]chunk.DecodeFunc[*TypeDef]{format.TagDefinition: DecodeTypeDef},
		Ends:     []format.Tag{format.TagStructEnd},
	}

	fields, err := table.Terminated(c)
	if err != nil {
		return nil, err
	}

	return newStructDef(fields), nil
}

// Fields returns the field definitions in schema order.
func (s *StructDef) Fields() []*TypeDef {
	return s.fields
}

// Names returns the field names in schema order.
func (s *StructDef) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.name
	}

	return names
}

// Size returns the sum of the field sizes, or 0 if any field has no fixed size.
func (s *StructDef) Size() int {
	return s.size
}

func (s *StructDef) decodeValue(c *encoding.Cursor) (value.Scalar, error) {
	out := value.NewStruct(len(s.fields))
	for _, f := range s.fields {
		v, err := f.DecodeValue(c)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.name, err)
		}
		out.Set(f.name, v)
	}

	return out, nil
}
