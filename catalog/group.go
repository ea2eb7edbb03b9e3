package catalog

import (
	"fmt"

	"github.com/henjo/libpsf/chunk"
	"github.com/henjo/libpsf/encoding"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
)

// OffsetMap maps a trace id to the byte offset of its value within the value
// area of a sweep record or window.
type OffsetMap map[int32]int

// GroupDef bundles traces that share one storage region, such as the
// harmonics of a noise or harmonic-balance analysis.
type GroupDef struct {
	id      int32
	name    string
	members []*TypeRef
	index   map[string]int
}

// NewGroupDef creates a group over members.
func NewGroupDef(id int32, name string, members ...*TypeRef) *GroupDef {
	g := &GroupDef{id: id, name: name, members: members}
	g.buildIndex()

	return g
}

// DecodeGroupDef decodes a GroupDef chunk: tag 17, id, name, member count,
// then that many TypeRef chunks resolved against types.
func DecodeGroupDef(c *encoding.Cursor, types *Types) (*GroupDef, error) {
	if err := c.ExpectTag(format.TagGroup); err != nil {
		return nil, err
	}

	g := &GroupDef{}
	var err error
	if g.id, err = c.ReadInt32(); err != nil {
		return nil, err
	}
	if g.name, err = c.ReadString(); err != nil {
		return nil, fmt.Errorf("group %d name: %w", g.id, err)
	}
	n, err := c.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", g.name, err)
	}
	if n < 0 {
		return nil, fmt.Errorf("group %q: %w: member count %d", g.name, errs.ErrMalformedRecord, n)
	}

	table := &chunk.Table[*TypeRef]{
		Name:     "group " + g.name,
		Decoders: map[format.Tag]chunk.DecodeFunc[*TypeRef]{format.TagDefinition: RefDecoder(types)},
	}
	if g.members, err = table.Count(c, int(n)); err != nil {
		return nil, err
	}
	g.buildIndex()

	return g, nil
}

func (g *GroupDef) buildIndex() {
	g.index = make(map[string]int, len(g.members))
	for i, m := range g.members {
		g.index[m.name] = i
	}
}

// ID returns the group id used in the trace index and in sweep records.
func (g *GroupDef) ID() int32 {
	return g.id
}

// Name returns the group name.
func (g *GroupDef) Name() string {
	return g.name
}

// Members returns the member traces in declaration order.
func (g *GroupDef) Members() []*TypeRef {
	return g.members
}

// Len returns the number of members.
func (g *GroupDef) Len() int {
	return len(g.members)
}

// Names returns the member names in declaration order.
func (g *GroupDef) Names() []string {
	names := make([]string, len(g.members))
	for i, m := range g.members {
		names[i] = m.name
	}

	return names
}

// Index returns the column index of a member.
func (g *GroupDef) Index(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

// Member returns a member by name.
func (g *GroupDef) Member(name string) (*TypeRef, error) {
	i, ok := g.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in group %q", errs.ErrNotFound, name, g.name)
	}

	return g.members[i], nil
}

// FillOffsets records the value offset of every member in m, starting at
// start, and returns the number of bytes the group occupies.
//
// With windowSize 0 the members are packed back to back, each taking its own
// value size. Otherwise every member owns one windowSize block and the group
// occupies len(members) * windowSize bytes.
func (g *GroupDef) FillOffsets(m OffsetMap, windowSize, start int) (int, error) {
	if windowSize > 0 {
		for i, member := range g.members {
			m[member.id] = start + i*windowSize
		}

		return len(g.members) * windowSize, nil
	}

	offset := start
	for _, member := range g.members {
		size, err := member.Size()
		if err != nil {
			return 0, fmt.Errorf("group %q: %w", g.name, err)
		}
		m[member.id] = offset
		offset += size
	}

	return offset - start, nil
}
