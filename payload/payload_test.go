package payload

import (
	"fmt"
	"math"
	"testing"

	"github.com/henjo/libpsf/catalog"
	"github.com/henjo/libpsf/encoding"
	"github.com/henjo/libpsf/endian"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
	"github.com/henjo/libpsf/internal/psftest"
	"github.com/henjo/libpsf/section"
	"github.com/henjo/libpsf/value"
	"github.com/stretchr/testify/require"
)

var doubleType = psftest.Type{ID: 1, Name: "V", Kind: format.TypeDouble}

type decoded struct {
	data   []byte
	table  *section.Table
	header *section.Header
	types  *catalog.Types
	sweeps *catalog.Sweeps
	traces *catalog.Traces
}

func decode(t *testing.T, f *psftest.File) decoded {
	t.Helper()

	data, _ := f.Build()
	c := encoding.NewCursor(data)

	table, header, err := section.Locate(c)
	require.NoError(t, err)

	d := decoded{data: data, table: table, header: header}

	ts, ok := table.Get(format.SectionType)
	require.True(t, ok)
	d.types, err = catalog.DecodeTypes(c.At(ts.Offset))
	require.NoError(t, err)

	if ss, ok := table.Get(format.SectionSweep); ok {
		d.sweeps, err = catalog.DecodeSweeps(c.At(ss.Offset), d.types)
		require.NoError(t, err)
	}
	if trs, ok := table.Get(format.SectionTrace); ok {
		d.traces, err = catalog.DecodeTraces(c.At(trs.Offset), d.types)
		require.NoError(t, err)
	}

	return d
}

func (d decoded) valueCursor(t *testing.T) *encoding.Cursor {
	t.Helper()

	vs, ok := d.table.Get(format.SectionValue)
	require.True(t, ok)

	return encoding.NewCursor(d.data).At(vs.Offset)
}

func (d decoded) swept(t *testing.T, strict bool) *Swept {
	t.Helper()

	s, err := DecodeSwept(d.valueCursor(t), ShapeOf(d.header, strict), d.sweeps, d.traces)
	require.NoError(t, err)

	return s
}

func float64s(t *testing.T, v value.Vector) []float64 {
	t.Helper()

	out, err := value.Float64s(v)
	require.NoError(t, err)

	return out
}

func ref(id int32, name string) *psftest.Ref {
	return &psftest.Ref{ID: id, Name: name, TypeID: 1}
}

func TestNonSwept(t *testing.T) {
	f := &psftest.File{
		Header: []psftest.Prop{{Name: format.PropSweeps, Value: 0}},
		Types: []psftest.Type{
			doubleType,
			{ID: 2, Name: "I", Kind: format.TypeInt32},
			{ID: 3, Name: "S", Kind: format.TypeString},
		},
		Values: []psftest.NonSweep{
			{ID: 5, Name: "vin", TypeID: 1, Write: psftest.DoubleValue(1.5)},
			{ID: 6, Name: "vout", TypeID: 1, Write: psftest.DoubleValue(0.9),
				Props: []psftest.Prop{{Name: "units", Value: "V"}}},
			{ID: 7, Name: "count", TypeID: 2, Write: func(b *psftest.Builder) { b.Int32(-3) }},
			{ID: 8, Name: "model", TypeID: 3, Write: func(b *psftest.Builder) { b.Str("nmos") }},
		},
	}
	d := decode(t, f)
	require.False(t, d.header.IsSwept())

	values, err := DecodeNonSwept(d.valueCursor(t), d.types)
	require.NoError(t, err)
	require.Equal(t, []string{"vin", "vout", "count", "model"}, values.Names())
	require.Equal(t, 4, values.Len())

	vin, err := values.Get("vin")
	require.NoError(t, err)
	require.Equal(t, value.Double(1.5), vin.Value())
	require.Equal(t, int32(5), vin.ID())
	require.Equal(t, format.TypeDouble, vin.Type().Kind())

	vout, err := values.Get("vout")
	require.NoError(t, err)
	require.Equal(t, value.Double(0.9), vout.Value())
	units, err := vout.Properties().Text("units")
	require.NoError(t, err)
	require.Equal(t, "V", units)

	count, err := values.Get("count")
	require.NoError(t, err)
	require.Equal(t, value.Int32(-3), count.Value())

	model, err := values.Get("model")
	require.NoError(t, err)
	require.Equal(t, value.String("nmos"), model.Value())

	// lookup by id agrees with lookup by name
	for v := range values.All() {
		byID, err := values.Index().Get(v.ID())
		require.NoError(t, err)
		require.Same(t, v, byID)
	}

	_, err = values.Get("missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestNonSwept_UnknownType(t *testing.T) {
	f := &psftest.File{
		Types:  []psftest.Type{doubleType},
		Values: []psftest.NonSweep{{ID: 5, Name: "vin", TypeID: 9, Write: psftest.DoubleValue(1)}},
	}
	d := decode(t, f)

	_, err := DecodeNonSwept(d.valueCursor(t), d.types)
	require.ErrorIs(t, err, errs.ErrUnknownType)

	var unknown *errs.UnknownTypeError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, int32(9), unknown.ID)
}

func simpleFile(points []float64, vout []float64) *psftest.File {
	return &psftest.File{
		Header: []psftest.Prop{
			{Name: format.PropSweeps, Value: 1},
			{Name: format.PropSweepPoints, Value: len(points)},
			{Name: format.PropTraces, Value: 1},
		},
		Types:  []psftest.Type{doubleType},
		Sweeps: []psftest.Ref{{ID: 10, Name: "time", TypeID: 1}},
		Traces: []psftest.Trace{{Ref: ref(20, "vout")}},
		Swept: func(b *psftest.Builder) {
			for i, p := range points {
				b.Record(10, p, psftest.Entry{ID: 20, Values: []float64{vout[i]}})
			}
		},
	}
}

func TestSwept_Simple(t *testing.T) {
	d := decode(t, simpleFile([]float64{0, 1e-9, 2e-9}, []float64{0, 0.5, 1}))
	s := d.swept(t, true)

	require.Equal(t, LayoutSimple, s.Shape().Layout)
	require.Equal(t, 3, s.Shape().Points)
	require.Equal(t, "time", s.Param().Name())
	require.Equal(t, 16, s.Stride())
	require.Equal(t, catalog.OffsetMap{20: 8}, s.Offsets())

	f, err := s.Filter()
	require.NoError(t, err)
	require.Equal(t, []string{"vout"}, f.Names())

	v, err := s.Read(f)
	require.NoError(t, err)
	require.Equal(t, 3, v.Len())
	require.Equal(t, []float64{0, 1e-9, 2e-9}, float64s(t, v.Params()))

	vout, err := v.Signal("vout")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0.5, 1}, float64s(t, vout))

	_, err = v.Signal("vin")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func groupFile() *psftest.File {
	group := &psftest.Group{ID: 30, Name: "g", Members: []psftest.Ref{*ref(31, "a"), *ref(32, "b")}}

	return &psftest.File{
		Header: []psftest.Prop{
			{Name: format.PropSweeps, Value: 1},
			{Name: format.PropSweepPoints, Value: 3},
		},
		Types:  []psftest.Type{doubleType},
		Sweeps: []psftest.Ref{{ID: 10, Name: "freq", TypeID: 1}},
		Traces: []psftest.Trace{{Group: group}, {Ref: ref(40, "c")}},
		Swept: func(b *psftest.Builder) {
			for i := range 3 {
				x := float64(i)
				b.Record(10, 1e3*x,
					psftest.Entry{ID: 30, Values: []float64{x, 10 + x}},
					psftest.Entry{ID: 40, Values: []float64{100 + x}},
				)
			}
		},
	}
}

func TestSwept_SimpleGroups(t *testing.T) {
	s := decode(t, groupFile()).swept(t, true)

	require.Equal(t, catalog.OffsetMap{31: 8, 32: 16, 40: 32}, s.Offsets())
	require.Equal(t, 40, s.Stride())

	all, err := s.Filter()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, all.Names())

	v, err := s.Read(all)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1e3, 2e3}, float64s(t, v.Params()))

	want := map[string][]float64{
		"a": {0, 1, 2},
		"b": {10, 11, 12},
		"c": {100, 101, 102},
	}
	for name, vec := range v.All() {
		require.Equal(t, want[name], float64s(t, vec), name)
	}
}

func TestSwept_FilterDoesNotChangeStride(t *testing.T) {
	s := decode(t, groupFile()).swept(t, true)

	for _, names := range [][]string{{"c"}, {"b", "c"}, {"c", "a"}} {
		t.Run(fmt.Sprint(names), func(t *testing.T) {
			f, err := s.Filter(names...)
			require.NoError(t, err)

			v, err := s.Read(f)
			require.NoError(t, err)
			require.Equal(t, names, v.Names())

			c, err := v.Signal("c")
			require.NoError(t, err)
			require.Equal(t, []float64{100, 101, 102}, float64s(t, c))
		})
	}

	_, err := s.Filter("missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSwept_StrictRecords(t *testing.T) {
	t.Run("parameter id", func(t *testing.T) {
		f := simpleFile([]float64{0, 1}, []float64{5, 6})
		f.Swept = func(b *psftest.Builder) {
			b.Record(10, 0, psftest.Entry{ID: 20, Values: []float64{5}})
			b.Record(99, 1, psftest.Entry{ID: 20, Values: []float64{6}})
		}
		d := decode(t, f)

		s := d.swept(t, true)
		filter, err := s.Filter()
		require.NoError(t, err)
		_, err = s.Read(filter)
		require.ErrorIs(t, err, errs.ErrMalformedRecord)
		require.True(t, errs.IsDataError(err))

		lenient := d.swept(t, false)
		v, err := lenient.Read(filter)
		require.NoError(t, err)
		require.Equal(t, []float64{0, 1}, float64s(t, v.Params()))
	})

	t.Run("trace id", func(t *testing.T) {
		f := simpleFile([]float64{0}, []float64{5})
		f.Swept = func(b *psftest.Builder) {
			b.Record(10, 0, psftest.Entry{ID: 21, Values: []float64{5}})
		}
		s := decode(t, f).swept(t, true)

		filter, err := s.Filter()
		require.NoError(t, err)
		_, err = s.Read(filter)
		require.ErrorIs(t, err, errs.ErrMalformedRecord)
	})
}

func TestSwept_UnknownPointCountStopsAtEndMarker(t *testing.T) {
	f := simpleFile([]float64{0, 1}, []float64{5, 6})
	f.Header = []psftest.Prop{{Name: format.PropSweeps, Value: 1}}
	s := decode(t, f).swept(t, true)
	require.Negative(t, s.Shape().Points)

	filter, err := s.Filter("vout")
	require.NoError(t, err)

	records := 0
	for rec, err := range s.Records(filter) {
		require.NoError(t, err)
		require.Equal(t, 1, rec.Len())
		records++
	}
	require.Equal(t, 2, records)
}

func TestSwept_FewerRecordsThanDeclared(t *testing.T) {
	f := simpleFile([]float64{0, 1}, []float64{5, 6})
	f.Header[1] = psftest.Prop{Name: format.PropSweepPoints, Value: 5}
	d := decode(t, f)

	t.Run("end marker", func(t *testing.T) {
		s := d.swept(t, true)
		require.Equal(t, 5, s.Shape().Points)

		filter, err := s.Filter("vout")
		require.NoError(t, err)
		v, err := s.Read(filter)
		require.ErrorIs(t, err, errs.ErrMalformedRecord)
		require.Nil(t, v)
	})

	t.Run("section end", func(t *testing.T) {
		// a value section holding two records and no end marker
		b := psftest.New().Container(func(b *psftest.Builder) {
			b.Record(10, 0, psftest.Entry{ID: 20, Values: []float64{5}})
			b.Record(10, 1, psftest.Entry{ID: 20, Values: []float64{6}})
		})
		shape := Shape{Points: 5, Layout: LayoutSimple, Strict: true}
		s, err := DecodeSwept(encoding.NewCursor(b.Bytes()), shape, d.sweeps, d.traces)
		require.NoError(t, err)

		filter, err := s.Filter()
		require.NoError(t, err)

		var (
			records int
			last    error
		)
		for _, err := range s.Records(filter) {
			if err != nil {
				last = err
				continue
			}
			records++
		}
		require.Equal(t, 2, records)
		require.ErrorIs(t, last, errs.ErrTruncated)
	})
}

func TestSwept_RecordsEarlyBreak(t *testing.T) {
	s := decode(t, simpleFile([]float64{0, 1, 2}, []float64{5, 6, 7})).swept(t, true)
	filter, err := s.Filter()
	require.NoError(t, err)

	var first Record
	for rec, err := range s.Records(filter) {
		require.NoError(t, err)
		first = rec
		break
	}
	require.Equal(t, s.Start(), first.Offset)
	require.Equal(t, []value.Scalar{value.Double(5)}, first.Values[0])
}

func windowedFile(windowSize int, windows func(b *psftest.Builder), points int, traces ...psftest.Trace) *psftest.File {
	return &psftest.File{
		Header: []psftest.Prop{
			{Name: format.PropSweeps, Value: 1},
			{Name: format.PropSweepPoints, Value: points},
			{Name: format.PropWindowSize, Value: windowSize},
		},
		Types:    []psftest.Type{doubleType},
		Sweeps:   []psftest.Ref{{ID: 10, Name: "time", TypeID: 1}},
		Traces:   traces,
		Swept:    windows,
		Windowed: true,
		Pad:      12,
	}
}

func TestSwept_WindowedRightAligned(t *testing.T) {
	f := windowedFile(64, func(b *psftest.Builder) {
		b.Window(0, 64, []float64{0, 1, 2}, []float64{0.25, 0.5, 0.75})
	}, 3, psftest.Trace{Ref: ref(20, "v")})
	d := decode(t, f)
	s := d.swept(t, true)

	require.Equal(t, LayoutWindowed, s.Shape().Layout)
	require.Equal(t, 64, s.Shape().WindowSize)
	require.Equal(t, catalog.OffsetMap{20: 0}, s.Offsets())

	// tag, header word, three parameter values, then the block
	block := s.Start() + 8 + 3*8
	engine := endian.PSF()
	for k, want := range []float64{0.25, 0.5, 0.75} {
		at := block + 40 + k*8
		require.Equal(t, math.Float64bits(want), engine.Uint64(d.data[at:]), "value %d at block offset %d", k, 40+k*8)
	}
	require.Equal(t, make([]byte, 40), d.data[block:block+40])

	filter, err := s.Filter()
	require.NoError(t, err)
	v, err := s.Read(filter)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 2}, float64s(t, v.Params()))

	sig, err := v.Signal("v")
	require.NoError(t, err)
	require.Equal(t, []float64{0.25, 0.5, 0.75}, float64s(t, sig))
}

func TestSwept_WindowedAcrossPointCounts(t *testing.T) {
	const window = 64
	group := &psftest.Group{ID: 30, Name: "h", Members: []psftest.Ref{*ref(31, "h0"), *ref(32, "h1")}}

	for n := 1; n <= window/8; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			params := make([]float64, n)
			h0 := make([]float64, n)
			h1 := make([]float64, n)
			bare := make([]float64, n)
			for k := range n {
				params[k] = float64(k)
				h0[k] = float64(10*n + k)
				h1[k] = float64(-10*n - k)
				bare[k] = float64(1000 + k)
			}

			f := windowedFile(window, func(b *psftest.Builder) {
				b.Window(0, window, params, h0, h1, bare)
			}, n, psftest.Trace{Group: group}, psftest.Trace{Ref: ref(40, "bare")})
			s := decode(t, f).swept(t, true)
			require.Equal(t, catalog.OffsetMap{31: 0, 32: window, 40: 2 * window}, s.Offsets())
			require.Equal(t, 3*window, s.Stride())

			filter, err := s.Filter()
			require.NoError(t, err)
			v, err := s.Read(filter)
			require.NoError(t, err)
			require.Equal(t, params, float64s(t, v.Params()))

			for name, want := range map[string][]float64{"h0": h0, "h1": h1, "bare": bare} {
				sig, err := v.Signal(name)
				require.NoError(t, err)
				require.Equal(t, want, float64s(t, sig), name)
			}
		})
	}
}

func TestSwept_WindowedMultipleWindows(t *testing.T) {
	f := windowedFile(32, func(b *psftest.Builder) {
		b.Window(2, 32, []float64{0, 1, 2}, []float64{10, 11, 12}, []float64{20, 21, 22})
		b.Window(0, 32, []float64{3, 4}, []float64{13, 14}, []float64{23, 24})
	}, 5, psftest.Trace{Ref: ref(20, "x")}, psftest.Trace{Ref: ref(21, "y")})
	s := decode(t, f).swept(t, true)

	filter, err := s.Filter("y")
	require.NoError(t, err)

	var records []Record
	for rec, err := range s.Records(filter) {
		require.NoError(t, err)
		records = append(records, rec)
	}
	require.Len(t, records, 2)
	require.Equal(t, 2, records[0].Remaining)
	require.Equal(t, 3, records[0].Len())
	require.Equal(t, 0, records[1].Remaining)
	require.Equal(t, 2, records[1].Len())
	// the second window follows the first window's blocks
	require.Equal(t, records[0].Offset+8+3*8+2*32, records[1].Offset)

	v, err := s.Read(filter)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 2, 3, 4}, float64s(t, v.Params()))

	y, err := v.Signal("y")
	require.NoError(t, err)
	require.Equal(t, []float64{20, 21, 22, 23, 24}, float64s(t, y))
}

func TestSwept_WindowOverflow(t *testing.T) {
	f := windowedFile(64, func(b *psftest.Builder) {
		b.Tag(format.TagDefinition).Uint32(9)
		for k := range 9 {
			b.Double(float64(k))
		}
		b.Zero(64)
	}, 9, psftest.Trace{Ref: ref(20, "v")})
	s := decode(t, f).swept(t, true)

	filter, err := s.Filter()
	require.NoError(t, err)
	_, err = s.Read(filter)
	require.ErrorIs(t, err, errs.ErrMalformedRecord)
}

func TestSwept_WindowedTraceLargerThanWindow(t *testing.T) {
	f := windowedFile(4, func(b *psftest.Builder) {}, 1, psftest.Trace{Ref: ref(20, "v")})
	d := decode(t, f)

	_, err := DecodeSwept(d.valueCursor(t), ShapeOf(d.header, true), d.sweeps, d.traces)
	require.ErrorIs(t, err, errs.ErrMalformedRecord)
}

func TestShapeOf(t *testing.T) {
	header := section.NewHeader()
	shape := ShapeOf(header, false)
	require.Equal(t, Shape{Points: -1, Layout: LayoutSimple}, shape)
	require.Equal(t, "simple", shape.Layout.String())
	require.Equal(t, "windowed", LayoutWindowed.String())
}
