package catalog

import (
	"fmt"

	"github.com/henjo/libpsf/chunk"
	"github.com/henjo/libpsf/encoding"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
)

// Sweeps is the decoded sweep section: the swept parameters in order.
type Sweeps struct {
	params []*TypeRef
}

// NewSweeps creates a sweep section over params.
func NewSweeps(params ...*TypeRef) *Sweeps {
	return &Sweeps{params: params}
}

// DecodeSweeps decodes the sweep section at c, a simple container of
// TypeRefs terminated by its end offset or tag 3.
func DecodeSweeps(c *encoding.Cursor, types *Types) (*Sweeps, error) {
	table := &chunk.Table[*TypeRef]{
		Name:     "sweep section",
		Decoders: map[format.Tag]chunk.DecodeFunc[*TypeRef]{format.TagDefinition: RefDecoder(types)},
		Ends:     []format.Tag{format.TagSweepEnd},
	}

	params, err := chunk.DecodeSimple(c, format.TagSection, table)
	if err != nil {
		return nil, err
	}

	return &Sweeps{params: params}, nil
}

// Params returns the sweep parameters in order.
func (s *Sweeps) Params() []*TypeRef {
	return s.params
}

// Len returns the number of sweep parameters.
func (s *Sweeps) Len() int {
	return len(s.params)
}

// Names returns the parameter names in order.
func (s *Sweeps) Names() []string {
	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.name
	}

	return names
}

// Primary returns the parameter whose values are stored in the value section.
func (s *Sweeps) Primary() (*TypeRef, error) {
	if len(s.params) == 0 {
		return nil, fmt.Errorf("%w: sweep section declares no parameter", errs.ErrNotFound)
	}

	return s.params[0], nil
}
