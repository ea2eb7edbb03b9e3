package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/henjo/libpsf/errs"
)

// AsFloat64 converts a numeric scalar to float64. Strings are parsed.
// Complex and struct values cannot be converted.
func AsFloat64(s Scalar) (float64, error) {
	switch v := s.(type) {
	case Int8:
		return float64(v), nil
	case Int32:
		return float64(v), nil
	case Double:
		return float64(v), nil
	case String:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", errs.ErrConversion, string(v))
		}

		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s to float64", errs.ErrConversion, s.Kind())
	}
}

// AsInt converts a scalar to int. Doubles are truncated toward zero and
// strings are parsed as decimal integers.
func AsInt(s Scalar) (int, error) {
	switch v := s.(type) {
	case Int8:
		return int(v), nil
	case Int32:
		return int(v), nil
	case Double:
		return int(v), nil
	case String:
		n, err := strconv.Atoi(strings.TrimSpace(string(v)))
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", errs.ErrConversion, string(v))
		}

		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s to int", errs.ErrConversion, s.Kind())
	}
}

// AsComplex128 converts a numeric scalar to complex128.
func AsComplex128(s Scalar) (complex128, error) {
	if c, ok := s.(ComplexDouble); ok {
		return complex128(c), nil
	}

	f, err := AsFloat64(s)
	if err != nil {
		return 0, err
	}

	return complex(f, 0), nil
}
