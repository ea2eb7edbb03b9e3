package section

import (
	"fmt"

	"github.com/henjo/libpsf/chunk"
	"github.com/henjo/libpsf/encoding"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
	"github.com/henjo/libpsf/value"
)

// Header is the decoded header section: a flat list of named scalars.
type Header struct {
	props chunk.PropertyBlock
}

// NewHeader creates a header over props.
func NewHeader(props ...chunk.Property) *Header {
	return &Header{props: chunk.NewPropertyBlock(props)}
}

// DecodeHeader decodes the header section at c, a simple container of
// property chunks terminated by its end offset or tag 1.
func DecodeHeader(c *encoding.Cursor) (*Header, error) {
	table := &chunk.Table[chunk.Property]{
		Name: "header section",
		Decoders: map[format.Tag]chunk.DecodeFunc[chunk.Property]{
			format.TagPropString: chunk.DecodeProperty,
			format.TagPropInt:    chunk.DecodeProperty,
			format.TagPropDouble: chunk.DecodeProperty,
		},
		Ends: []format.Tag{format.TagHeaderEnd},
	}

	props, err := chunk.DecodeSimple(c, format.TagSection, table)
	if err != nil {
		return nil, err
	}

	return NewHeader(props...), nil
}

// Properties returns every header property.
func (h *Header) Properties() chunk.PropertyBlock {
	return h.props
}

// Property returns one header property.
func (h *Header) Property(name string) (value.Scalar, error) {
	return h.props.Get(name)
}

// Sweeps returns the declared number of sweeps, 0 when absent.
func (h *Header) Sweeps() int {
	n, err := h.props.Int(format.PropSweeps)
	if err != nil {
		return 0
	}

	return n
}

// IsSwept reports whether the file holds swept values.
func (h *Header) IsSwept() bool {
	return h.Sweeps() > 0
}

// SweepPoints returns the declared number of sweep points.
func (h *Header) SweepPoints() (int, bool) {
	return h.optionalInt(format.PropSweepPoints)
}

// WindowSize returns the window size in bytes of a windowed sweep.
func (h *Header) WindowSize() (int, bool) {
	return h.optionalInt(format.PropWindowSize)
}

// Windowed reports whether swept values use the windowed layout. The
// presence of the window size property alone selects it.
func (h *Header) Windowed() bool {
	return h.props.Has(format.PropWindowSize)
}

// Traces returns the declared number of traces.
func (h *Header) Traces() (int, bool) {
	return h.optionalInt(format.PropTraces)
}

func (h *Header) optionalInt(name string) (int, bool) {
	n, err := h.props.Int(name)
	if err != nil {
		return 0, false
	}

	return n, true
}

// Locate reads the section table, decodes the header and applies the
// reclassification rule for scanned files.
func Locate(c *encoding.Cursor) (*Table, *Header, error) {
	t, err := ReadTable(c)
	if err != nil {
		return nil, nil, err
	}

	hs, ok := t.Get(format.SectionHeader)
	if !ok {
		return nil, nil, fmt.Errorf("%w: no header section", errs.ErrInvalidFile)
	}

	header, err := DecodeHeader(c.At(hs.Offset))
	if err != nil {
		return nil, nil, fmt.Errorf("header: %w", err)
	}

	// A swept file that omits the point count keeps its sweep section.
	points, ok := header.SweepPoints()
	if !ok && header.IsSwept() {
		points = -1
	}
	t.Reclassify(points)

	return t, header, nil
}
