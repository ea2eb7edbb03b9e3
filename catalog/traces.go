package catalog

import (
	"fmt"
	"iter"

	"github.com/henjo/libpsf/chunk"
	"github.com/henjo/libpsf/encoding"
	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
	"github.com/henjo/libpsf/internal/collision"
	"github.com/henjo/libpsf/internal/hash"
)

// Trace is one entry of the trace section: either a bare TypeRef or a
// GroupDef. Exactly one field is set.
type Trace struct {
	Ref   *TypeRef
	Group *GroupDef
}

func (t Trace) ID() int32 {
	if t.Group != nil {
		return t.Group.id
	}

	return t.Ref.id
}

func (t Trace) Name() string {
	if t.Group != nil {
		return t.Group.name
	}

	return t.Ref.name
}

// Refs returns the signals the entry contributes: the ref itself or every
// group member.
func (t Trace) Refs() []*TypeRef {
	if t.Group != nil {
		return t.Group.members
	}

	return []*TypeRef{t.Ref}
}

// Traces is the decoded trace section with a flattened signal namespace:
// group members are addressed by their own names, alongside bare traces.
// When a name is declared more than once the last declaration wins.
type Traces struct {
	index    *chunk.Indexed[Trace]
	names    *collision.Tracker
	byHash   map[uint64]*TypeRef
	byName   map[string]*TypeRef
	refCount int
}

// NewTraces builds the namespace over entries.
func NewTraces(entries ...Trace) *Traces {
	return newTraces(chunk.NewIndexed(entries))
}

// DecodeTraces decodes the trace section at c, an indexed container of
// TypeRefs and GroupDefs with a 16-byte-entry index.
func DecodeTraces(c *encoding.Cursor, types *Types) (*Traces, error) {
	table := &chunk.Table[Trace]{
		Name: "trace section",
		Decoders: map[format.Tag]chunk.DecodeFunc[Trace]{
			format.TagDefinition: func(c *encoding.Cursor) (Trace, error) {
				r, err := DecodeTypeRef(c, types)
				return Trace{Ref: r}, err
			},
			format.TagGroup: func(c *encoding.Cursor) (Trace, error) {
				g, err := DecodeGroupDef(c, types)
				return Trace{Group: g}, err
			},
		},
	}

	index, err := chunk.DecodeIndexed(c, table, true)
	if err != nil {
		return nil, err
	}

	return newTraces(index), nil
}

func newTraces(index *chunk.Indexed[Trace]) *Traces {
	t := &Traces{
		index:  index,
		names:  collision.NewTracker(),
		byHash: make(map[uint64]*TypeRef),
		byName: make(map[string]*TypeRef),
	}
	for entry := range index.All() {
		for _, ref := range entry.Refs() {
			t.add(ref)
		}
	}

	return t
}

// add inserts ref into the namespace. Names whose hash is shared with another
// name are kept in byName; all others are keyed by hash.
func (t *Traces) add(ref *TypeRef) {
	t.refCount++

	h := hash.ID(ref.name)
	if !t.names.TrackName(ref.name, h) {
		t.byHash[h] = ref
		return
	}

	if prev, ok := t.byHash[h]; ok {
		t.byName[prev.name] = prev
		delete(t.byHash, h)
	}
	t.byName[ref.name] = ref
}

// Lookup returns the signal with the given name.
func (t *Traces) Lookup(name string) (*TypeRef, error) {
	h := hash.ID(name)

	var (
		ref *TypeRef
		ok  bool
	)
	if t.names.Collides(h) {
		ref, ok = t.byName[name]
	} else if ref, ok = t.byHash[h]; ok && ref.name != name {
		ok = false
	}
	if !ok {
		return nil, fmt.Errorf("%w: signal %q", errs.ErrNotFound, name)
	}

	return ref, nil
}

// LookupID returns the signal whose name hashes to id. Ids shared by several
// names are ambiguous and yield errs.ErrNotFound.
func (t *Traces) LookupID(id uint64) (*TypeRef, error) {
	if t.names.Collides(id) {
		return nil, fmt.Errorf("%w: signal id %#x is shared by several names", errs.ErrNotFound, id)
	}

	ref, ok := t.byHash[id]
	if !ok {
		return nil, fmt.Errorf("%w: signal id %#x", errs.ErrNotFound, id)
	}

	return ref, nil
}

// Names returns the flattened signal names in declaration order. A name
// declared twice appears twice.
func (t *Traces) Names() []string {
	return t.names.Names()
}

// Len returns the number of trace section entries; a group counts once.
func (t *Traces) Len() int {
	return t.index.Len()
}

// Signals returns the number of flattened signals.
func (t *Traces) Signals() int {
	return t.refCount
}

// Entries returns the trace section entries in file order.
func (t *Traces) Entries() []Trace {
	return t.index.Children()
}

// All iterates the trace section entries in file order.
func (t *Traces) All() iter.Seq[Trace] {
	return t.index.All()
}

// Entry returns a trace section entry by id.
func (t *Traces) Entry(id int32) (Trace, error) {
	return t.index.Get(id)
}

// Index exposes the underlying indexed container.
func (t *Traces) Index() *chunk.Indexed[Trace] {
	return t.index
}
