package section

import (
	"fmt"
	"slices"

	"github.com/henjo/libpsf/encoding"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
)

// Section is the byte range of one top-level section.
type Section struct {
	Kind   format.SectionKind
	Offset int
	Size   int
}

// End returns the offset just past the section.
func (s Section) End() int {
	return s.Offset + s.Size
}

// Table lists the located sections of a file.
type Table struct {
	revision format.Revision
	sections []Section
	byKind   map[format.SectionKind]Section
}

// HasTrailer reports whether the image ends with the table-of-contents trailer.
func HasTrailer(data []byte) bool {
	if len(data) < TrailerSize {
		return false
	}
	start := len(data) - TrailerMagicOffset

	return string(data[start:start+len(Trailer)]) == Trailer
}

// ReadTable locates the sections of the image behind c. Files ending in the
// "Clarissa" trailer are read through their table of contents; all others
// are scanned from byte 4. Either way a malformed layout yields
// errs.ErrInvalidFile.
func ReadTable(c *encoding.Cursor) (*Table, error) {
	data, err := c.At(0).Bytes(c.Len())
	if err != nil {
		return nil, err
	}

	if HasTrailer(data) {
		return readTOC(c)
	}

	return scan(c)
}

// readTOC reads the table that precedes the trailer. The last word of the
// file holds the size of the section data, which is also where the table
// starts.
func readTOC(c *encoding.Cursor) (*Table, error) {
	size := c.Len()
	dataSize, err := c.At(size - 4).ReadUint32()
	if err != nil {
		return nil, err
	}
	if int64(dataSize) > int64(size-TrailerSize) {
		return nil, fmt.Errorf("%w: data size %d exceeds file size %d", errs.ErrInvalidFile, dataSize, size)
	}

	n := (size - int(dataSize) - TrailerSize) / TOCEntrySize
	if n <= 0 {
		return nil, fmt.Errorf("%w: empty table of contents", errs.ErrInvalidFile)
	}

	toc := c.At(size - TrailerSize - n*TOCEntrySize)
	t := &Table{revision: format.RevisionTOC, sections: make([]Section, 0, n)}
	for i := range n {
		kind, err := toc.ReadInt32()
		if err != nil {
			return nil, err
		}
		offset, err := toc.ReadInt32()
		if err != nil {
			return nil, err
		}
		if offset < 0 || int64(offset) > int64(dataSize) {
			return nil, fmt.Errorf("%w: section %d offset %d outside data", errs.ErrInvalidFile, i, offset)
		}
		if i > 0 {
			prev := &t.sections[i-1]
			if int(offset) < prev.Offset {
				return nil, fmt.Errorf("%w: section %d starts before section %d", errs.ErrInvalidFile, i, i-1)
			}
			prev.Size = int(offset) - prev.Offset
		}
		t.sections = append(t.sections, Section{Kind: format.SectionKind(kind), Offset: int(offset)})
	}

	last := &t.sections[n-1]
	last.Size = int(dataSize) - last.Offset
	t.index()

	return t, nil
}

// scan walks self-describing sections from byte 4. Each starts with tag 21
// and its absolute end offset; the walk stops at the first other tag.
func scan(c *encoding.Cursor) (*Table, error) {
	size := c.Len()
	t := &Table{revision: format.RevisionScan}

	pos := FirstSectionOffset
	for pos+SectionHeaderSize <= size {
		cur := c.At(pos)
		tag, err := cur.ReadTag()
		if err != nil {
			return nil, err
		}
		if tag != format.TagSection {
			break
		}
		end, err := cur.ReadInt32()
		if err != nil {
			return nil, err
		}
		if int(end) <= pos || int(end) > size {
			return nil, fmt.Errorf("%w: section %d end offset %d outside (%d, %d]",
				errs.ErrInvalidFile, len(t.sections), end, pos, size)
		}

		t.sections = append(t.sections, Section{
			Kind:   format.SectionKind(len(t.sections)),
			Offset: pos,
			Size:   int(end) - pos,
		})
		pos = int(end)
	}

	if len(t.sections) < MinSections {
		return nil, fmt.Errorf("%w: found %d sections, need at least %d",
			errs.ErrInvalidFile, len(t.sections), MinSections)
	}
	t.index()

	return t, nil
}

func (t *Table) index() {
	t.byKind = make(map[format.SectionKind]Section, len(t.sections))
	for _, s := range t.sections {
		t.byKind[s.Kind] = s
	}
}

// Reclassify applies the rule for scanned files without a sweep: when the
// header declares zero sweep points the third section holds the values.
// It has no effect on table-of-contents files.
func (t *Table) Reclassify(sweepPoints int) {
	if t.revision != format.RevisionScan || sweepPoints != 0 || len(t.sections) < MinSections {
		return
	}
	t.sections[2].Kind = format.SectionValue
	t.index()
}

// Revision returns how the sections were located.
func (t *Table) Revision() format.Revision {
	return t.revision
}

// Get returns the section of a kind. When several sections claim a kind the
// last one in file order wins.
func (t *Table) Get(kind format.SectionKind) (Section, bool) {
	s, ok := t.byKind[kind]
	return s, ok
}

// Has reports whether a section of the kind was located.
func (t *Table) Has(kind format.SectionKind) bool {
	_, ok := t.byKind[kind]
	return ok
}

// Sections returns the located sections in file order.
func (t *Table) Sections() []Section {
	return slices.Clone(t.sections)
}
