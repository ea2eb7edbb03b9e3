package section

import (
	"testing"

	"github.com/henjo/libpsf/encoding"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
	"github.com/henjo/libpsf/internal/psftest"
	"github.com/stretchr/testify/require"
)

func sweptFile(toc bool) *psftest.File {
	return &psftest.File{
		Header: []psftest.Prop{
			{Name: format.PropSweeps, Value: 1},
			{Name: format.PropSweepPoints, Value: 2},
			{Name: format.PropTraces, Value: 1},
			{Name: "simulator", Value: "spectre"},
		},
		Types:  []psftest.Type{{ID: 1, Name: "V", Kind: format.TypeDouble}},
		Sweeps: []psftest.Ref{{ID: 10, Name: "time", TypeID: 1}},
		Traces: []psftest.Trace{{Ref: &psftest.Ref{ID: 20, Name: "out", TypeID: 1}}},
		Swept: func(b *psftest.Builder) {
			b.Record(10, 0, psftest.Entry{ID: 20, Values: []float64{1}})
			b.Record(10, 1, psftest.Entry{ID: 20, Values: []float64{2}})
		},
		TOC: toc,
	}
}

func nonSweptFile(toc bool) *psftest.File {
	return &psftest.File{
		Header: []psftest.Prop{{Name: format.PropSweepPoints, Value: 0}},
		Types:  []psftest.Type{{ID: 1, Name: "V", Kind: format.TypeDouble}},
		Values: []psftest.NonSweep{{ID: 5, Name: "vdd", TypeID: 1, Write: psftest.DoubleValue(1.8)}},
		TOC:    toc,
	}
}

func requireMatchesSpans(t *testing.T, table *Table, spans []psftest.Span) {
	t.Helper()

	sections := table.Sections()
	require.Len(t, sections, len(spans))
	for i, s := range sections {
		require.Equal(t, spans[i].Offset, s.Offset, "section %d", i)
		require.Equal(t, spans[i].End, s.End(), "section %d", i)
		if i > 0 {
			require.Equal(t, sections[i-1].End(), s.Offset, "sections must be contiguous")
		}
	}
}

func TestReadTable_Scan(t *testing.T) {
	data, spans := sweptFile(false).Build()

	table, err := ReadTable(encoding.NewCursor(data))
	require.NoError(t, err)
	require.Equal(t, format.RevisionScan, table.Revision())
	requireMatchesSpans(t, table, spans)

	for _, s := range spans {
		got, ok := table.Get(s.Kind)
		require.True(t, ok)
		require.Equal(t, s.Offset, got.Offset)
	}
}

func TestReadTable_TOC(t *testing.T) {
	data, spans := sweptFile(true).Build()
	require.True(t, HasTrailer(data))

	table, err := ReadTable(encoding.NewCursor(data))
	require.NoError(t, err)
	require.Equal(t, format.RevisionTOC, table.Revision())
	requireMatchesSpans(t, table, spans)

	// the last section ends where the table of contents starts
	sections := table.Sections()
	require.Equal(t, len(data)-TrailerSize-len(spans)*TOCEntrySize, sections[len(sections)-1].End())
}

func TestReadTable_TOCNonSwept(t *testing.T) {
	data, _ := nonSweptFile(true).Build()

	table, err := ReadTable(encoding.NewCursor(data))
	require.NoError(t, err)
	require.Len(t, table.Sections(), 3)
	require.True(t, table.Has(format.SectionValue))
	require.False(t, table.Has(format.SectionSweep))
}

func TestLocate_ReclassifiesValueSection(t *testing.T) {
	data, spans := nonSweptFile(false).Build()

	table, header, err := Locate(encoding.NewCursor(data))
	require.NoError(t, err)
	require.False(t, header.IsSwept())
	require.False(t, table.Has(format.SectionSweep))

	value, ok := table.Get(format.SectionValue)
	require.True(t, ok)
	require.Equal(t, spans[2].Offset, value.Offset)
}

func TestLocate_SweptKeepsSweepSection(t *testing.T) {
	f := sweptFile(false)
	// no point count
	f.Header = []psftest.Prop{{Name: format.PropSweeps, Value: 1}}
	data, spans := f.Build()

	table, header, err := Locate(encoding.NewCursor(data))
	require.NoError(t, err)
	require.True(t, header.IsSwept())

	sweep, ok := table.Get(format.SectionSweep)
	require.True(t, ok)
	require.Equal(t, spans[2].Offset, sweep.Offset)

	value, ok := table.Get(format.SectionValue)
	require.True(t, ok)
	require.Equal(t, spans[4].Offset, value.Offset)
}

func TestReadTable_InvalidFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "unrecognized first section",
			data: psftest.New().Uint32(0x400).Int32(99).Int32(0).Zero(32).Bytes(),
		},
		{
			name: "too few sections",
			data: func() []byte {
				b := psftest.New().Uint32(0x400)
				b.Container(func(b *psftest.Builder) {})
				b.Container(func(b *psftest.Builder) {})
				return b.Bytes()
			}(),
		},
		{
			name: "section end before start",
			data: psftest.New().Uint32(0x400).Tag(format.TagSection).Int32(2).Zero(16).Bytes(),
		},
		{
			name: "tiny",
			data: []byte{0, 0, 4, 0},
		},
		{
			name: "data size past trailer",
			data: psftest.New().Uint32(0x400).Raw([]byte(Trailer)).Int32(1000).Bytes(),
		},
		{
			name: "empty table of contents",
			data: psftest.New().Uint32(0x400).Raw([]byte(Trailer)).Int32(4).Bytes(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(encoding.NewCursor(tt.data))
			require.ErrorIs(t, err, errs.ErrInvalidFile)
			require.True(t, errs.IsFileError(err))
		})
	}
}

func TestDecodeHeader(t *testing.T) {
	b := psftest.New()
	b.Container(func(b *psftest.Builder) {
		b.Props(
			psftest.Prop{Name: format.PropSweeps, Value: 1},
			psftest.Prop{Name: format.PropSweepPoints, Value: 100},
			psftest.Prop{Name: format.PropWindowSize, Value: 4096},
			psftest.Prop{Name: "temp", Value: 27.0},
			psftest.Prop{Name: "design", Value: "amp"},
		)
	})
	c := encoding.NewCursor(b.Bytes())

	header, err := DecodeHeader(c)
	require.NoError(t, err)
	require.Equal(t, b.Len(), c.Pos())
	require.Equal(t, 1, header.Sweeps())
	require.True(t, header.IsSwept())
	require.True(t, header.Windowed())

	points, ok := header.SweepPoints()
	require.True(t, ok)
	require.Equal(t, 100, points)

	window, ok := header.WindowSize()
	require.True(t, ok)
	require.Equal(t, 4096, window)

	_, ok = header.Traces()
	require.False(t, ok)

	design, err := header.Properties().Text("design")
	require.NoError(t, err)
	require.Equal(t, "amp", design)

	temp, err := header.Property("temp")
	require.NoError(t, err)
	require.Equal(t, "27", temp.String())

	_, err = header.Property("missing")
	require.ErrorIs(t, err, errs.ErrPropertyNotFound)
}

func TestDecodeHeader_EndMarker(t *testing.T) {
	b := psftest.New()
	b.Container(func(b *psftest.Builder) {
		b.Props(psftest.Prop{Name: "a", Value: 1})
		b.Tag(format.TagHeaderEnd)
	})

	header, err := DecodeHeader(encoding.NewCursor(b.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 1, header.Properties().Len())
	require.False(t, header.IsSwept())
	require.False(t, header.Windowed())
}
