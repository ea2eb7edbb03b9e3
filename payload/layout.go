package payload

import (
	"fmt"

	"github.com/henjo/libpsf/catalog"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/section"
)

// Layout selects how swept values are stored.
type Layout uint8

const (
	// LayoutSimple stores one record per sweep point.
	LayoutSimple Layout = iota
	// LayoutWindowed packs several points into fixed-size windows.
	LayoutWindowed
)

func (l Layout) String() string {
	switch l {
	case LayoutSimple:
		return "simple"
	case LayoutWindowed:
		return "windowed"
	default:
		return fmt.Sprintf("Layout(%d)", l)
	}
}

// Shape is what the header declares about the swept value section.
type Shape struct {
	// Points is the declared number of sweep points; negative when unknown.
	Points int
	Layout Layout
	// WindowSize is the size in bytes of one member block of a window.
	WindowSize int
	// Strict verifies record parameter ids and trace headers.
	Strict bool
}

// ShapeOf derives the shape from a decoded header.
func ShapeOf(h *section.Header, strict bool) Shape {
	s := Shape{Points: -1, Strict: strict}
	if points, ok := h.SweepPoints(); ok {
		s.Points = points
	}
	if h.Windowed() {
		s.Layout = LayoutWindowed
		s.WindowSize, _ = h.WindowSize()
	}

	return s
}

// head is the position of a trace entry header inside a simple record.
type head struct {
	id  int32
	off int
}

// geometry holds per-record offsets computed from every declared trace.
type geometry struct {
	offsets catalog.OffsetMap
	sizes   map[int32]int
	heads   []head
	// area is the size of the value area that follows the parameter values.
	area int
}

// simpleGeometry lays traces out as {tag, id, value} entries. A group has one
// entry header and its members packed after it.
func simpleGeometry(traces *catalog.Traces) (*geometry, error) {
	g := &geometry{offsets: catalog.OffsetMap{}, sizes: map[int32]int{}}

	rel := 0
	for entry := range traces.All() {
		g.heads = append(g.heads, head{id: entry.ID(), off: rel})

		if entry.Group != nil {
			n, err := entry.Group.FillOffsets(g.offsets, 0, rel+8)
			if err != nil {
				return nil, err
			}
			rel += 8 + n
		} else {
			size, err := entry.Ref.Size()
			if err != nil {
				return nil, err
			}
			g.offsets[entry.Ref.ID()] = rel + 8
			rel += 8 + size
		}

		if err := g.addSizes(entry); err != nil {
			return nil, err
		}
	}
	g.area = rel

	return g, nil
}

// windowedGeometry gives every signal one window-size block.
func windowedGeometry(traces *catalog.Traces, windowSize int) (*geometry, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: window size %d", errs.ErrMalformedRecord, windowSize)
	}

	g := &geometry{offsets: catalog.OffsetMap{}, sizes: map[int32]int{}}

	rel := 0
	for entry := range traces.All() {
		if entry.Group != nil {
			n, err := entry.Group.FillOffsets(g.offsets, windowSize, rel)
			if err != nil {
				return nil, err
			}
			rel += n
		} else {
			g.offsets[entry.Ref.ID()] = rel
			rel += windowSize
		}

		if err := g.addSizes(entry); err != nil {
			return nil, err
		}
	}

	for id, size := range g.sizes {
		if size > windowSize {
			return nil, fmt.Errorf("%w: trace %d values of %d bytes exceed window size %d",
				errs.ErrMalformedRecord, id, size, windowSize)
		}
	}
	g.area = rel

	return g, nil
}

func (g *geometry) addSizes(entry catalog.Trace) error {
	for _, ref := range entry.Refs() {
		size, err := ref.Size()
		if err != nil {
			return err
		}
		g.sizes[ref.ID()] = size
	}

	return nil
}
