package catalog

import (
	"fmt"

	"github.com/henjo/libpsf/chunk"
	"github.com/henjo/libpsf/encoding"
	"github.com/henjo/libpsf/format"
	"github.com/henjo/libpsf/value"
)

// TypeRef is a named reference to a TypeDef. Sweep parameters, traces and
// group members are all TypeRefs. A decoded TypeRef is always resolved.
type TypeRef struct {
	id     int32
	name   string
	typeID int32
	props  chunk.PropertyBlock
	def    *TypeDef
}

// NewTypeRef creates a reference resolved against def.
func NewTypeRef(id int32, name string, def *TypeDef) *TypeRef {
	return &TypeRef{id: id, name: name, typeID: def.id, def: def}
}

// RefDecoder returns a decoder for TypeRef chunks that resolves each
// reference against types. An unresolvable type id yields an
// *errs.UnknownTypeError.
func RefDecoder(types *Types) chunk.DecodeFunc[*TypeRef] {
	return func(c *encoding.Cursor) (*TypeRef, error) {
		return DecodeTypeRef(c, types)
	}
}

// DecodeTypeRef decodes a TypeRef chunk: tag 16, id, name, type id, then
// properties.
func DecodeTypeRef(c *encoding.Cursor, types *Types) (*TypeRef, error) {
	if err := c.ExpectTag(format.TagDefinition); err != nil {
		return nil, err
	}

	r := &TypeRef{}
	var err error
	if r.id, err = c.ReadInt32(); err != nil {
		return nil, err
	}
	if r.name, err = c.ReadString(); err != nil {
		return nil, fmt.Errorf("ref %d name: %w", r.id, err)
	}
	if r.typeID, err = c.ReadInt32(); err != nil {
		return nil, fmt.Errorf("ref %q: %w", r.name, err)
	}
	if r.props, err = chunk.DecodeProperties(c); err != nil {
		return nil, fmt.Errorf("ref %q: %w", r.name, err)
	}

	if r.def, err = types.Get(r.typeID); err != nil {
		return nil, fmt.Errorf("ref %q: %w", r.name, err)
	}

	return r, nil
}

// ID returns the ref id.
func (r *TypeRef) ID() int32 {
	return r.id
}

// Name returns the signal or parameter name.
func (r *TypeRef) Name() string {
	return r.name
}

// TypeID returns the id of the referenced TypeDef.
func (r *TypeRef) TypeID() int32 {
	return r.typeID
}

// Type returns the resolved TypeDef.
func (r *TypeRef) Type() *TypeDef {
	return r.def
}

// Kind returns the kind of the referenced type.
func (r *TypeRef) Kind() format.TypeID {
	return r.def.kind
}

// Properties returns the properties attached to the ref, such as units.
func (r *TypeRef) Properties() chunk.PropertyBlock {
	return r.props
}

// Size returns the on-disk size of one value of the referenced type.
func (r *TypeRef) Size() (int, error) {
	size, err := r.def.Size()
	if err != nil {
		return 0, fmt.Errorf("ref %q: %w", r.name, err)
	}

	return size, nil
}

// DecodeValue decodes one value of the referenced type at c.
func (r *TypeRef) DecodeValue(c *encoding.Cursor) (value.Scalar, error) {
	return r.def.DecodeValue(c)
}

// NewVector returns an empty vector for values of the referenced type.
func (r *TypeRef) NewVector(capacity int) (value.Vector, error) {
	return r.def.NewVector(capacity)
}
