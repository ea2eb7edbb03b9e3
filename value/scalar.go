package value

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/henjo/libpsf/format"
)

// Value is anything a dataset query can return: a Scalar, a Vector or Columns.
type Value interface {
	Kind() format.TypeID
}

// Scalar is a single decoded PSF value. The set of implementations is closed:
// Int8, Int32, Double, ComplexDouble, String and Struct.
type Scalar interface {
	Value
	fmt.Stringer
	isScalar()
}

type (
	Int8          int8
	Int32         int32
	Double        float64
	ComplexDouble complex128
	String        string
)

// Kind returns format.TypeInt8.
func (Int8) Kind() format.TypeID {
	return format.TypeInt8
}

// Kind returns format.TypeInt32.
func (Int32) Kind() format.TypeID {
	return format.TypeInt32
}

// Kind returns format.TypeDouble.
func (Double) Kind() format.TypeID {
	return format.TypeDouble
}

// Kind returns format.TypeComplexDouble.
func (ComplexDouble) Kind() format.TypeID {
	return format.TypeComplexDouble
}

// Kind returns format.TypeString.
func (String) Kind() format.TypeID {
	return format.TypeString
}

func (Int8) isScalar()          {}
func (Int32) isScalar()         {}
func (Double) isScalar()        {}
func (ComplexDouble) isScalar() {}
func (String) isScalar()        {}

// String formats the value as a decimal integer.
func (v Int8) String() string {
	return strconv.Itoa(int(v))
}

// String formats the value as a decimal integer.
func (v Int32) String() string {
	return strconv.Itoa(int(v))
}

// String formats the value with the shortest representation that round-trips.
func (v Double) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}

// String formats the value as (re+imi).
func (v ComplexDouble) String() string {
	return strconv.FormatComplex(complex128(v), 'g', -1, 128)
}

// String returns the text itself.
func (v String) String() string {
	return string(v)
}

// Struct is a decoded struct value. Names holds the field names in schema
// order; Fields maps each name to its value.
type Struct struct {
	Names  []string
	Fields map[string]Scalar
}

// NewStruct creates an empty struct value with room for n fields.
func NewStruct(n int) Struct {
	return Struct{
		Names:  make([]string, 0, n),
		Fields: make(map[string]Scalar, n),
	}
}

// Kind returns format.TypeStruct.
func (Struct) Kind() format.TypeID {
	return format.TypeStruct
}

func (Struct) isScalar() {}

// Set stores a field value, appending the name when it is new.
func (s *Struct) Set(name string, v Scalar) {
	if s.Fields == nil {
		s.Fields = make(map[string]Scalar)
	}
	if _, ok := s.Fields[name]; !ok {
		s.Names = append(s.Names, name)
	}
	s.Fields[name] = v
}

// Field returns the value of a named field.
func (s Struct) Field(name string) (Scalar, bool) {
	v, ok := s.Fields[name]
	return v, ok
}

// Len returns the number of fields.
func (s Struct) Len() int {
	return len(s.Names)
}

func (s Struct) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range s.Names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(s.Fields[name].String())
	}
	b.WriteByte('}')

	return b.String()
}

// Clone returns a deep copy of s. Only struct values share state, so Clone
// returns every other scalar unchanged.
func Clone(s Scalar) Scalar {
	st, ok := s.(Struct)
	if !ok {
		return s
	}

	out := Struct{
		Names:  slices.Clone(st.Names),
		Fields: make(map[string]Scalar, len(st.Fields)),
	}
	for name, field := range st.Fields {
		out.Fields[name] = Clone(field)
	}

	return out
}

// CloneMap returns a deep copy of a name to scalar map.
func CloneMap(m map[string]Scalar) map[string]Scalar {
	out := maps.Clone(m)
	for k, v := range out {
		out[k] = Clone(v)
	}

	return out
}
