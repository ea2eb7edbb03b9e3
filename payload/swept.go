package payload

import (
	"fmt"
	"iter"
	"maps"

	"github.com/henjo/libpsf/catalog"
	"github.com/henjo/libpsf/encoding"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
	"github.com/henjo/libpsf/value"
)

// Swept decodes the value section of a swept file. Decoding is lazy: the
// section framing and record geometry are resolved up front, values are read
// on demand through Records or Read.
type Swept struct {
	data   *encoding.Cursor
	start  int
	end    int
	shape  Shape
	param  *catalog.TypeRef
	traces *catalog.Traces
	geo    *geometry
}

// DecodeSwept prepares the value section at c. The record geometry is always
// computed from every declared trace, whatever is later requested.
func DecodeSwept(c *encoding.Cursor, shape Shape, sweeps *catalog.Sweeps, traces *catalog.Traces) (*Swept, error) {
	param, err := sweeps.Primary()
	if err != nil {
		return nil, err
	}
	if _, err := param.Size(); err != nil {
		return nil, fmt.Errorf("sweep parameter: %w", err)
	}

	if err := c.ExpectTag(format.TagSection); err != nil {
		return nil, fmt.Errorf("value section: %w", err)
	}
	end, err := c.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("value section: %w", err)
	}
	if int(end) < c.Pos() || int(end) > c.Len() {
		return nil, fmt.Errorf("value section: %w: end offset %d outside [%d, %d]",
			errs.ErrTruncated, end, c.Pos(), c.Len())
	}

	// windowed sections open with padding that aligns the first window
	if tag, err := c.PeekTag(); err == nil && tag == format.TagZeroPad {
		if err := skipZeroPad(c); err != nil {
			return nil, err
		}
	}

	s := &Swept{
		data:   c.At(0),
		start:  c.Pos(),
		end:    int(end),
		shape:  shape,
		param:  param,
		traces: traces,
	}

	switch shape.Layout {
	case LayoutWindowed:
		s.geo, err = windowedGeometry(traces, shape.WindowSize)
	default:
		s.geo, err = simpleGeometry(traces)
	}
	if err != nil {
		return nil, fmt.Errorf("value section: %w", err)
	}

	return s, nil
}

func skipZeroPad(c *encoding.Cursor) error {
	if err := c.ExpectTag(format.TagZeroPad); err != nil {
		return err
	}
	size, err := c.ReadInt32()
	if err != nil {
		return err
	}
	if size < 0 {
		return fmt.Errorf("%w: zero pad of %d bytes", errs.ErrMalformedRecord, size)
	}

	return c.Skip(int(size))
}

// Shape returns the layout and point count the section is read with.
func (s *Swept) Shape() Shape {
	return s.shape
}

// Param returns the primary sweep parameter.
func (s *Swept) Param() *catalog.TypeRef {
	return s.param
}

// Traces returns the trace catalog the geometry was built from.
func (s *Swept) Traces() *catalog.Traces {
	return s.traces
}

// Start returns the absolute offset of the first record or window.
func (s *Swept) Start() int {
	return s.start
}

// End returns the absolute end offset of the value section.
func (s *Swept) End() int {
	return s.end
}

// Offsets returns a copy of the per-trace offsets within a record or window.
func (s *Swept) Offsets() catalog.OffsetMap {
	return maps.Clone(s.geo.offsets)
}

// Stride returns the size of one record's value area, or of one window's.
func (s *Swept) Stride() int {
	return s.geo.area
}

// Filter selects the signals to materialize. The zero Filter selects none
// and reads only the sweep parameter.
type Filter struct {
	refs []*catalog.TypeRef
}

// Filter resolves names into a filter. No names selects every signal in
// declaration order.
func (s *Swept) Filter(names ...string) (*Filter, error) {
	if len(names) == 0 {
		f := &Filter{refs: make([]*catalog.TypeRef, 0, s.traces.Signals())}
		for entry := range s.traces.All() {
			f.refs = append(f.refs, entry.Refs()...)
		}

		return f, nil
	}

	f := &Filter{refs: make([]*catalog.TypeRef, 0, len(names))}
	for _, name := range names {
		ref, err := s.traces.Lookup(name)
		if err != nil {
			return nil, err
		}
		f.refs = append(f.refs, ref)
	}

	return f, nil
}

// Refs returns the selected signals.
func (f *Filter) Refs() []*catalog.TypeRef {
	return f.refs
}

// Names returns the selected signal names.
func (f *Filter) Names() []string {
	names := make([]string, len(f.refs))
	for i, ref := range f.refs {
		names[i] = ref.Name()
	}

	return names
}

func (f *Filter) Len() int {
	return len(f.refs)
}

// Record is one simple record or one window.
type Record struct {
	// Offset is the absolute file offset of the record.
	Offset int
	// Remaining is the number of points after this window. It is 0 for
	// simple records.
	Remaining int
	// Params holds the parameter value of each point.
	Params []value.Scalar
	// Values holds, per filtered signal, one value per point.
	Values [][]value.Scalar
}

// Len returns the number of points in the record.
func (r Record) Len() int {
	return len(r.Params)
}

// Records iterates the value section one record or window at a time. It
// stops at the declared point count. Reaching the end marker or the section
// end before that count is an error; without a declared count both end the
// iteration. A decode error is yielded once and ends the iteration.
func (s *Swept) Records(f *Filter) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		pos, count := s.start, 0
		for s.shape.Points < 0 || count < s.shape.Points {
			if pos+4 > s.end {
				if s.shape.Points >= 0 {
					yield(Record{}, fmt.Errorf("%w: value section ends after %d of %d declared points",
						errs.ErrTruncated, count, s.shape.Points))
				}
				return
			}
			tag, err := s.data.At(pos).PeekTag()
			if err != nil {
				yield(Record{}, err)
				return
			}
			if tag == format.TagValueEnd {
				if s.shape.Points >= 0 {
					yield(Record{}, fmt.Errorf("%w: end marker at %d after %d of %d declared points",
						errs.ErrMalformedRecord, pos, count, s.shape.Points))
				}
				return
			}

			var (
				rec  Record
				next int
			)
			if s.shape.Layout == LayoutWindowed {
				rec, next, err = s.window(pos, f)
			} else {
				rec, next, err = s.record(pos, f)
			}
			if err != nil {
				yield(Record{}, err)
				return
			}

			count += rec.Len()
			if !yield(rec, nil) {
				return
			}
			pos = next
		}
	}
}

// record decodes one simple record at pos and returns the next position.
func (s *Swept) record(pos int, f *Filter) (Record, int, error) {
	c := s.data.At(pos)
	if err := c.ExpectTag(format.TagDefinition); err != nil {
		return Record{}, 0, fmt.Errorf("sweep record: %w", err)
	}
	id, err := c.ReadInt32()
	if err != nil {
		return Record{}, 0, err
	}
	if s.shape.Strict && id != s.param.ID() {
		return Record{}, 0, fmt.Errorf("%w: record at %d has parameter id %d, want %d",
			errs.ErrMalformedRecord, pos, id, s.param.ID())
	}
	param, err := s.param.DecodeValue(c)
	if err != nil {
		return Record{}, 0, fmt.Errorf("sweep record at %d: %w", pos, err)
	}

	area := c.Pos()
	next := area + s.geo.area
	if next > s.end {
		return Record{}, 0, fmt.Errorf("%w: record at %d overruns the value section end %d",
			errs.ErrTruncated, pos, s.end)
	}

	if s.shape.Strict {
		if err := s.checkHeads(area); err != nil {
			return Record{}, 0, err
		}
	}

	rec := Record{
		Offset: pos,
		Params: []value.Scalar{param},
		Values: make([][]value.Scalar, len(f.refs)),
	}
	for i, ref := range f.refs {
		v, err := ref.DecodeValue(s.data.At(area + s.geo.offsets[ref.ID()]))
		if err != nil {
			return Record{}, 0, fmt.Errorf("signal %q at record %d: %w", ref.Name(), pos, err)
		}
		rec.Values[i] = []value.Scalar{v}
	}

	return rec, next, nil
}

func (s *Swept) checkHeads(area int) error {
	for _, h := range s.geo.heads {
		c := s.data.At(area + h.off)
		if err := c.ExpectTag(format.TagDefinition); err != nil {
			return fmt.Errorf("trace %d: %w", h.id, err)
		}
		id, err := c.ReadInt32()
		if err != nil {
			return err
		}
		if id != h.id {
			return fmt.Errorf("%w: trace id %d at offset %d, want %d",
				errs.ErrMalformedRecord, id, area+h.off, h.id)
		}
	}

	return nil
}

// window decodes one window at pos: tag, a word holding the points left
// after this window in its upper half and the points in this window in its
// lower half, the parameter values, then one block per signal with the
// values right-aligned.
func (s *Swept) window(pos int, f *Filter) (Record, int, error) {
	c := s.data.At(pos)
	if err := c.ExpectTag(format.TagDefinition); err != nil {
		return Record{}, 0, fmt.Errorf("sweep window: %w", err)
	}
	word, err := c.ReadUint32()
	if err != nil {
		return Record{}, 0, err
	}
	remaining, n := int(word>>16), int(word&0xffff)
	if n == 0 {
		return Record{}, 0, fmt.Errorf("%w: empty window at %d", errs.ErrMalformedRecord, pos)
	}

	rec := Record{
		Offset:    pos,
		Remaining: remaining,
		Params:    make([]value.Scalar, n),
		Values:    make([][]value.Scalar, len(f.refs)),
	}
	for k := range n {
		if rec.Params[k], err = s.param.DecodeValue(c); err != nil {
			return Record{}, 0, fmt.Errorf("sweep window at %d: %w", pos, err)
		}
	}

	area := c.Pos()
	next := area + s.geo.area
	if next > s.end {
		return Record{}, 0, fmt.Errorf("%w: window at %d overruns the value section end %d",
			errs.ErrTruncated, pos, s.end)
	}

	w := s.shape.WindowSize
	for i, ref := range f.refs {
		size := s.geo.sizes[ref.ID()]
		if n*size > w {
			return Record{}, 0, fmt.Errorf("%w: window at %d holds %d points of %d bytes in %d bytes",
				errs.ErrMalformedRecord, pos, n, size, w)
		}

		vc := s.data.At(area + s.geo.offsets[ref.ID()] + w - n*size)
		values := make([]value.Scalar, n)
		for k := range n {
			if values[k], err = ref.DecodeValue(vc); err != nil {
				return Record{}, 0, fmt.Errorf("signal %q at window %d: %w", ref.Name(), pos, err)
			}
		}
		rec.Values[i] = values
	}

	return rec, next, nil
}

// Read decodes every point for the signals in f.
func (s *Swept) Read(f *Filter) (*SweepValue, error) {
	capacity := max(s.shape.Points, 0)

	params, err := s.param.NewVector(capacity)
	if err != nil {
		return nil, err
	}
	signals := make([]value.Vector, len(f.refs))
	for i, ref := range f.refs {
		if signals[i], err = ref.NewVector(capacity); err != nil {
			return nil, fmt.Errorf("signal %q: %w", ref.Name(), err)
		}
	}

	for rec, err := range s.Records(f) {
		if err != nil {
			return nil, err
		}
		for _, p := range rec.Params {
			if err := params.Append(p); err != nil {
				return nil, err
			}
		}
		for i, values := range rec.Values {
			for _, v := range values {
				if err := signals[i].Append(v); err != nil {
					return nil, err
				}
			}
		}
	}

	return newSweepValue(s.param, params, f.refs, signals), nil
}

// SweepValue holds decoded sweep parameter values and signal vectors.
type SweepValue struct {
	param   *catalog.TypeRef
	params  value.Vector
	refs    []*catalog.TypeRef
	signals []value.Vector
	index   map[string]int
}

func newSweepValue(param *catalog.TypeRef, params value.Vector, refs []*catalog.TypeRef, signals []value.Vector) *SweepValue {
	v := &SweepValue{
		param:   param,
		params:  params,
		refs:    refs,
		signals: signals,
		index:   make(map[string]int, len(refs)),
	}
	for i, ref := range refs {
		v.index[ref.Name()] = i
	}

	return v
}

// Param returns the sweep parameter.
func (v *SweepValue) Param() *catalog.TypeRef {
	return v.param
}

// Params returns the parameter value of every point.
func (v *SweepValue) Params() value.Vector {
	return v.params
}

// Len returns the number of decoded points.
func (v *SweepValue) Len() int {
	return v.params.Len()
}

// Names returns the decoded signal names.
func (v *SweepValue) Names() []string {
	names := make([]string, len(v.refs))
	for i, ref := range v.refs {
		names[i] = ref.Name()
	}

	return names
}

// Signal returns the vector of one decoded signal.
func (v *SweepValue) Signal(name string) (value.Vector, error) {
	i, ok := v.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: signal %q was not decoded", errs.ErrNotFound, name)
	}

	return v.signals[i], nil
}

// Ref returns the trace of one decoded signal.
func (v *SweepValue) Ref(name string) (*catalog.TypeRef, error) {
	i, ok := v.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: signal %q was not decoded", errs.ErrNotFound, name)
	}

	return v.refs[i], nil
}

// All iterates the decoded signals in filter order.
func (v *SweepValue) All() iter.Seq2[string, value.Vector] {
	return func(yield func(string, value.Vector) bool) {
		for i, ref := range v.refs {
			if !yield(ref.Name(), v.signals[i]) {
				return
			}
		}
	}
}
