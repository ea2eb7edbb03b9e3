package value

import (
	"fmt"

	"github.com/henjo/libpsf/errs"
	"github.com/henjo/libpsf/format"
)

// Vector is a homogeneous sequence of scalars of one kind.
type Vector interface {
	Value
	// Len returns the number of elements.
	Len() int
	// At returns element i. It panics if i is out of range.
	At(i int) Scalar
	// Append adds s to the end of the vector. It fails if s has a different kind.
	Append(s Scalar) error
	// Set replaces element i. It fails if s has a different kind.
	Set(i int, s Scalar) error
	// Resize grows or shrinks the vector to n elements, filling with zero values.
	Resize(n int)
	// Grow ensures room for n more elements without reallocating.
	Grow(n int)
}

// Series is the Vector implementation for each scalar kind.
type Series[T Scalar] struct {
	Values []T
}

// NewSeries creates an empty series with the given capacity.
func NewSeries[T Scalar](capacity int) *Series[T] {
	return &Series[T]{Values: make([]T, 0, capacity)}
}

// Kind returns the scalar kind of the series.
func (s *Series[T]) Kind() format.TypeID {
	var zero T
	return zero.Kind()
}

func (s *Series[T]) Len() int {
	return len(s.Values)
}

func (s *Series[T]) At(i int) Scalar {
	return s.Values[i]
}

func (s *Series[T]) Append(v Scalar) error {
	t, ok := v.(T)
	if !ok {
		return fmt.Errorf("%w: cannot append %s to %s vector", errs.ErrConversion, v.Kind(), s.Kind())
	}
	s.Values = append(s.Values, t)

	return nil
}

func (s *Series[T]) Set(i int, v Scalar) error {
	t, ok := v.(T)
	if !ok {
		return fmt.Errorf("%w: cannot store %s in %s vector", errs.ErrConversion, v.Kind(), s.Kind())
	}
	s.Values[i] = t

	return nil
}

func (s *Series[T]) Resize(n int) {
	if n <= len(s.Values) {
		s.Values = s.Values[:n]
		return
	}
	var zero T
	for len(s.Values) < n {
		s.Values = append(s.Values, zero)
	}
}

func (s *Series[T]) Grow(n int) {
	if cap(s.Values)-len(s.Values) >= n {
		return
	}
	grown := make([]T, len(s.Values), len(s.Values)+n)
	copy(grown, s.Values)
	s.Values = grown
}

// NewVector returns an empty vector for a kind with the given capacity.
func NewVector(kind format.TypeID, capacity int) (Vector, error) {
	switch kind {
	case format.TypeInt8:
		return NewSeries[Int8](capacity), nil
	case format.TypeInt32:
		return NewSeries[Int32](capacity), nil
	case format.TypeDouble:
		return NewSeries[Double](capacity), nil
	case format.TypeComplexDouble:
		return NewSeries[ComplexDouble](capacity), nil
	case format.TypeString:
		return NewSeries[String](capacity), nil
	case format.TypeStruct:
		return NewSeries[Struct](capacity), nil
	default:
		return nil, errs.UnknownType(int32(kind))
	}
}

// Float64s converts every element of v with AsFloat64.
func Float64s(v Vector) ([]float64, error) {
	if d, ok := v.(*Series[Double]); ok {
		out := make([]float64, len(d.Values))
		for i, x := range d.Values {
			out[i] = float64(x)
		}

		return out, nil
	}

	out := make([]float64, v.Len())
	for i := range out {
		f, err := AsFloat64(v.At(i))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = f
	}

	return out, nil
}
