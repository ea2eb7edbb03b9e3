// Package value holds the decoded representation of PSF data.
//
// A Scalar is one of Int8, Int32, Double, ComplexDouble, String or Struct. A
// Struct keeps its field names in schema order next to a name to value map and
// may nest further structs.
//
// A Vector is a homogeneous, growable sequence of one scalar kind. Series[T]
// is the only implementation; callers that know the kind can type-assert to
// reach the backing slice directly:
//
//	if s, ok := vec.(*value.Series[value.Double]); ok {
//	    for _, v := range s.Values { ... }
//	}
//
// Columns is a struct-typed vector transposed into one vector per field.
//
// Decoded values own their memory. Nothing in this package references the
// file image they were decoded from.
package value
