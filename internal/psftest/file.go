package psftest

import (
	"github.com/henjo/libpsf/format"
)

// Trailer is the magic that marks files ending in a table of contents.
const Trailer = "Clarissa"

// Trace is one entry of the trace section: a bare ref or a group.
type Trace struct {
	Ref   *Ref
	Group *Group
}

// NonSweep is one entry of a non-swept value section. Write emits the value
// bytes for the declared type.
type NonSweep struct {
	ID     int32
	Name   string
	TypeID int32
	Write  func(*Builder)
	Props  []Prop
}

// Span is the byte range of a built section.
type Span struct {
	Kind   format.SectionKind
	Offset int
	End    int
}

// File describes a complete PSF image.
type File struct {
	Header []Prop
	Types  []Type
	Sweeps []Ref
	Traces []Trace
	// Values is used when Swept is nil.
	Values []NonSweep
	// Swept writes the swept value section body.
	Swept func(*Builder)
	// Windowed writes a ZeroPad chunk of Pad bytes before the swept body.
	Windowed bool
	Pad      int
	// TOC selects the table-of-contents revision.
	TOC bool
}

// Build returns the image and the spans of its sections in file order.
func (f *File) Build() ([]byte, []Span) {
	b := New()
	b.Uint32(0x00000400)

	var spans []Span
	section := func(kind format.SectionKind, write func(*Builder)) {
		start := b.Len()
		write(b)
		spans = append(spans, Span{Kind: kind, Offset: start, End: b.Len()})
	}

	section(format.SectionHeader, func(b *Builder) {
		b.Container(func(b *Builder) { b.Props(f.Header...) })
	})

	section(format.SectionType, func(b *Builder) {
		b.Indexed(false, func(b *Builder) [][2]int32 {
			entries := make([][2]int32, 0, len(f.Types))
			for _, t := range f.Types {
				entries = append(entries, [2]int32{t.ID, int32(b.Len())}) //nolint:gosec
				b.TypeDef(t)
			}

			return entries
		})
	})

	if f.Swept != nil {
		section(format.SectionSweep, func(b *Builder) {
			b.Container(func(b *Builder) {
				for _, r := range f.Sweeps {
					b.TypeRef(r)
				}
			})
		})

		section(format.SectionTrace, func(b *Builder) {
			b.Indexed(true, func(b *Builder) [][2]int32 {
				entries := make([][2]int32, 0, len(f.Traces))
				for _, tr := range f.Traces {
					switch {
					case tr.Group != nil:
						entries = append(entries, [2]int32{tr.Group.ID, int32(b.Len())}) //nolint:gosec
						b.GroupDef(*tr.Group)
					case tr.Ref != nil:
						entries = append(entries, [2]int32{tr.Ref.ID, int32(b.Len())}) //nolint:gosec
						b.TypeRef(*tr.Ref)
					}
				}

				return entries
			})
		})

		section(format.SectionValue, func(b *Builder) {
			b.Container(func(b *Builder) {
				if f.Windowed {
					b.ZeroPad(f.Pad)
				}
				f.Swept(b)
				b.Tag(format.TagValueEnd)
			})
		})
	} else {
		section(format.SectionValue, func(b *Builder) {
			b.Indexed(false, func(b *Builder) [][2]int32 {
				entries := make([][2]int32, 0, len(f.Values))
				for _, v := range f.Values {
					entries = append(entries, [2]int32{v.ID, int32(b.Len())}) //nolint:gosec
					b.Tag(format.TagDefinition).Int32(v.ID).Str(v.Name).Int32(v.TypeID)
					v.Write(b)
					b.Props(v.Props...)
				}

				return entries
			})
		})
	}

	if f.TOC {
		dataSize := b.Len()
		for _, s := range spans {
			b.Int32(int32(s.Kind)).Int32(int32(s.Offset)) //nolint:gosec
		}
		b.Raw([]byte(Trailer))
		b.Int32(int32(dataSize)) //nolint:gosec
	}

	return b.Bytes(), spans
}

// Entry is one trace slot of a simple sweep record. A group entry carries
// the values of all its members.
type Entry struct {
	ID     int32
	Values []float64
}

// Record writes one simple-layout sweep record.
func (b *Builder) Record(paramID int32, param float64, entries ...Entry) *Builder {
	b.Tag(format.TagDefinition).Int32(paramID).Double(param)
	for _, e := range entries {
		b.Tag(format.TagDefinition).Int32(e.ID)
		for _, v := range e.Values {
			b.Double(v)
		}
	}

	return b
}

// Window writes one windowed block holding len(params) points. Each member
// gets a windowSize block with its doubles right-aligned.
func (b *Builder) Window(remaining, windowSize int, params []float64, members ...[]float64) *Builder {
	n := len(params)
	b.Tag(format.TagDefinition).Uint32(uint32(remaining<<16 | n)) //nolint:gosec
	for _, p := range params {
		b.Double(p)
	}
	for _, m := range members {
		b.Zero(windowSize - n*8)
		for _, v := range m {
			b.Double(v)
		}
	}

	return b
}

// DoubleValue returns a NonSweep writer for one double.
func DoubleValue(v float64) func(*Builder) {
	return func(b *Builder) { b.Double(v) }
}
