// Package catalog decodes the schema sections of a PSF file.
//
// The type section maps type ids to TypeDefs. A TypeDef knows its kind, its
// on-disk size and, for struct kinds, an ordered field schema; it decodes
// values of its kind and creates empty vectors for them.
//
// The sweep and trace sections hold TypeRefs: named references to a TypeDef
// by id. References are resolved while decoding, so an unknown type id fails
// the decode with an *errs.UnknownTypeError instead of surfacing later.
//
// The trace section may also hold GroupDefs, which bundle TypeRefs into one
// storage region. Traces flattens group membership into a single signal
// namespace keyed by the xxHash64 of each name.
package catalog
