// Package psftest builds byte-exact PSF images for tests.
package psftest

import (
	"math"

	"github.com/henjo/libpsf/endian"
	"github.com/henjo/libpsf/format"
)

// SubTag is the tag written for the sub-container inside indexed sections.
// Decoders accept any tag there.
const SubTag format.Tag = 22

// Builder appends big-endian PSF primitives to a buffer.
type Builder struct {
	buf    []byte
	engine endian.EndianEngine
}

// New creates an empty builder.
func New() *Builder {
	return &Builder{engine: endian.PSF()}
}

// Bytes returns the built image.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Len returns the current size, which is also the absolute offset of the next write.
func (b *Builder) Len() int {
	return len(b.buf)
}

func (b *Builder) Uint32(v uint32) *Builder {
	b.buf = b.engine.AppendUint32(b.buf, v)
	return b
}

func (b *Builder) Int32(v int32) *Builder {
	return b.Uint32(uint32(v)) //nolint:gosec
}

func (b *Builder) Tag(t format.Tag) *Builder {
	return b.Int32(int32(t))
}

// Int8 writes an int8 in its 4-byte word.
func (b *Builder) Int8(v int8) *Builder {
	b.buf = append(b.buf, 0, 0, 0, byte(v))
	return b
}

func (b *Builder) Double(v float64) *Builder {
	b.buf = b.engine.AppendUint64(b.buf, math.Float64bits(v))
	return b
}

func (b *Builder) Complex(v complex128) *Builder {
	return b.Double(real(v)).Double(imag(v))
}

// Str writes a length-prefixed string padded to 4 bytes.
func (b *Builder) Str(s string) *Builder {
	b.Int32(int32(len(s))) //nolint:gosec
	b.buf = append(b.buf, s...)
	for len(b.buf)%4 != 0 {
		b.buf = append(b.buf, 0)
	}

	return b
}

// Raw appends p verbatim.
func (b *Builder) Raw(p []byte) *Builder {
	b.buf = append(b.buf, p...)
	return b
}

// Zero appends n zero bytes.
func (b *Builder) Zero(n int) *Builder {
	b.buf = append(b.buf, make([]byte, n)...)
	return b
}

// Placeholder writes a zero word and returns its offset for a later Patch.
func (b *Builder) Placeholder() int {
	pos := len(b.buf)
	b.Uint32(0)

	return pos
}

// Patch overwrites the word at pos.
func (b *Builder) Patch(pos int, v int32) {
	b.engine.PutUint32(b.buf[pos:], uint32(v)) //nolint:gosec
}

// PatchHere overwrites the word at pos with the current length.
func (b *Builder) PatchHere(pos int) {
	b.Patch(pos, int32(len(b.buf))) //nolint:gosec
}

// Prop is a header or chunk property. Value must be a string, int32 or float64.
type Prop struct {
	Name  string
	Value any
}

// Props writes property chunks.
func (b *Builder) Props(props ...Prop) *Builder {
	for _, p := range props {
		switch v := p.Value.(type) {
		case string:
			b.Tag(format.TagPropString).Str(p.Name).Str(v)
		case int32:
			b.Tag(format.TagPropInt).Str(p.Name).Int32(v)
		case int:
			b.Tag(format.TagPropInt).Str(p.Name).Int32(int32(v)) //nolint:gosec
		case float64:
			b.Tag(format.TagPropDouble).Str(p.Name).Double(v)
		default:
			panic("psftest: unsupported property value")
		}
	}

	return b
}

// Type describes a TypeDef. Fields are written as a struct schema when Kind
// is TypeStruct.
type Type struct {
	ID     int32
	Name   string
	Kind   format.TypeID
	Fields []Type
	Props  []Prop
}

// TypeDef writes a TypeDef chunk.
func (b *Builder) TypeDef(t Type) *Builder {
	b.Tag(format.TagDefinition).Int32(t.ID).Str(t.Name).Uint32(0).Int32(int32(t.Kind))
	if t.Kind == format.TypeStruct {
		for _, f := range t.Fields {
			b.TypeDef(f)
		}
		b.Tag(format.TagStructEnd)
	}

	return b.Props(t.Props...)
}

// Ref describes a TypeRef.
type Ref struct {
	ID     int32
	Name   string
	TypeID int32
	Props  []Prop
}

// TypeRef writes a TypeRef chunk.
func (b *Builder) TypeRef(r Ref) *Builder {
	return b.Tag(format.TagDefinition).Int32(r.ID).Str(r.Name).Int32(r.TypeID).Props(r.Props...)
}

// Group describes a GroupDef.
type Group struct {
	ID      int32
	Name    string
	Members []Ref
}

// GroupDef writes a GroupDef chunk.
func (b *Builder) GroupDef(g Group) *Builder {
	b.Tag(format.TagGroup).Int32(g.ID).Str(g.Name).Int32(int32(len(g.Members))) //nolint:gosec
	for _, m := range g.Members {
		b.TypeRef(m)
	}

	return b
}

// ZeroPad writes a ZeroPad chunk covering n bytes.
func (b *Builder) ZeroPad(n int) *Builder {
	return b.Tag(format.TagZeroPad).Int32(int32(n)).Zero(n) //nolint:gosec
}

// Container writes a section wrapper: tag 21, its end offset, then body.
func (b *Builder) Container(body func(*Builder)) *Builder {
	b.Tag(format.TagSection)
	end := b.Placeholder()
	body(b)
	b.PatchHere(end)

	return b
}

// Indexed writes an indexed container. children writes the sub-container
// body and returns the id and start offset of each child. With wide set the
// index uses 16-byte trace entries.
func (b *Builder) Indexed(wide bool, children func(*Builder) [][2]int32) *Builder {
	return b.Container(func(b *Builder) {
		b.Tag(SubTag)
		subEnd := b.Placeholder()
		entries := children(b)
		b.PatchHere(subEnd)

		entrySize := 8
		if wide {
			entrySize = 16
		}
		b.Tag(format.TagIndex).Int32(int32(len(entries) * entrySize)) //nolint:gosec
		for _, e := range entries {
			b.Int32(e[0]).Int32(e[1])
			if wide {
				b.Int32(0).Int32(0)
			}
		}
	})
}
