package catalog

import (
	"fmt"
	"iter"

	"github.com/henjo/libpsf/chunk"
	"github.com/henjo/libpsf/encoding"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
)

// Types is the decoded type section.
type Types struct {
	index *chunk.Indexed[*TypeDef]
}

// NewTypes builds a catalog over defs.
func NewTypes(defs ...*TypeDef) *Types {
	return &Types{index: chunk.NewIndexed(defs)}
}

// DecodeTypes decodes the type section at c, an indexed container of TypeDefs.
func DecodeTypes(c *encoding.Cursor) (*Types, error) {
	table := &chunk.Table[*TypeDef]{
		Name:     "type section",
		Decoders: map[format.Tag]chunk.DecodeFunc[*TypeDef]{format.TagDefinition: DecodeTypeDef},
	}

	index, err := chunk.DecodeIndexed(c, table, false)
	if err != nil {
		return nil, err
	}

	return &Types{index: index}, nil
}

// Get resolves a type id. A nil catalog resolves nothing.
func (t *Types) Get(id int32) (*TypeDef, error) {
	if t == nil {
		return nil, errs.UnknownType(id)
	}

	def, err := t.index.Get(id)
	if err != nil {
		return nil, errs.UnknownType(id)
	}

	return def, nil
}

// GetByName returns a type definition by name.
func (t *Types) GetByName(name string) (*TypeDef, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: type %q", errs.ErrNotFound, name)
	}

	return t.index.GetByName(name)
}

// Len returns the number of type definitions.
func (t *Types) Len() int {
	if t == nil {
		return 0
	}

	return t.index.Len()
}

// All iterates the type definitions in file order.
func (t *Types) All() iter.Seq[*TypeDef] {
	if t == nil {
		return func(func(*TypeDef) bool) {}
	}

	return t.index.All()
}

// Index exposes the underlying indexed container.
func (t *Types) Index() *chunk.Indexed[*TypeDef] {
	return t.index
}
